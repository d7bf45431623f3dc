// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sdrshell/uploader/lib/secret"
)

// testToken creates a token buffer. Ownership passes to Connect, but the
// cleanup Close is harmless because Close is idempotent.
func testToken(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test token: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func writeJSON(writer http.ResponseWriter, value any) {
	writer.Header().Set("Content-Type", "application/json")
	json.NewEncoder(writer).Encode(value)
}

func writeError(writer http.ResponseWriter, status int, value DiscordError) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(value)
}

func assertAuth(t *testing.T, request *http.Request, token string) {
	t.Helper()
	if got := request.Header.Get("Authorization"); got != "Bot "+token {
		t.Errorf("Authorization = %q, want %q", got, "Bot "+token)
	}
}

func TestNewClient(t *testing.T) {
	t.Run("default URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.baseURL != DefaultBaseURL {
			t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
		}
	})

	t.Run("trailing slash stripped", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: "http://localhost:8080/api/"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client.baseURL != "http://localhost:8080/api" {
			t.Errorf("baseURL = %q", client.baseURL)
		}
	})

	t.Run("invalid URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "://invalid"}); err == nil {
			t.Fatal("expected error for invalid URL")
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "ftp://discord.com/api"}); err == nil {
			t.Fatal("expected error for ftp scheme")
		}
	})
}

func TestConnect(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/users/@me" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			assertAuth(t, request, "bot-token")
			if !strings.HasPrefix(request.Header.Get("User-Agent"), "DiscordBot (") {
				t.Errorf("User-Agent = %q", request.Header.Get("User-Agent"))
			}
			writeJSON(writer, map[string]any{
				"id":            "1100000000000000001",
				"username":      "sdr-bot",
				"discriminator": "0",
				"bot":           true,
			})
		}))
		defer server.Close()

		client, err := NewClient(ClientConfig{BaseURL: server.URL})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}

		session, err := client.Connect(context.Background(), testToken(t, "bot-token"))
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		defer session.Close()

		user := session.User()
		if user.ID != 1100000000000000001 {
			t.Errorf("user ID = %d", user.ID)
		}
		if user.Tag() != "sdr-bot" {
			t.Errorf("user tag = %q", user.Tag())
		}
		if !user.Bot {
			t.Error("expected bot user")
		}
	})

	t.Run("rejected token releases buffer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writeError(writer, http.StatusUnauthorized, DiscordError{Message: "401: Unauthorized"})
		}))
		defer server.Close()

		client, _ := NewClient(ClientConfig{BaseURL: server.URL})
		token := testToken(t, "bad-token")

		_, err := client.Connect(context.Background(), token)
		if err == nil {
			t.Fatal("expected error for rejected token")
		}
		if StatusCode(err) != http.StatusUnauthorized {
			t.Errorf("StatusCode = %d, want 401 (err: %v)", StatusCode(err), err)
		}

		defer func() {
			if recover() == nil {
				t.Error("expected token to be closed after failed Connect")
			}
		}()
		token.Bytes()
	})

	t.Run("missing token", func(t *testing.T) {
		client, _ := NewClient(ClientConfig{BaseURL: "http://localhost:1"})
		if _, err := client.Connect(context.Background(), nil); err == nil {
			t.Fatal("expected error for nil token")
		}
	})
}

func TestDoNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		writer.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client, _ := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.doJSON(context.Background(), http.MethodGet, "/gateway", nil, nil)
	if err == nil {
		t.Fatal("expected error for 502")
	}
	var discordErr *DiscordError
	if errors.As(err, &discordErr) {
		t.Fatalf("non-JSON body should not produce *DiscordError, got %v", discordErr)
	}
	if !strings.Contains(err.Error(), "bad gateway") {
		t.Errorf("error should include raw body: %v", err)
	}
}

func TestRateLimiterHonorsContext(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		requests++
		writeJSON(writer, map[string]any{})
	}))
	defer server.Close()

	// One request per hour with a burst of one: the second call has to
	// wait far longer than its context allows.
	client, _ := NewClient(ClientConfig{BaseURL: server.URL, RateLimit: 1.0 / 3600, RateBurst: 1})

	if _, err := client.doJSON(context.Background(), http.MethodGet, "/first", nil, nil); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.doJSON(ctx, http.MethodGet, "/second", nil, nil); err == nil {
		t.Fatal("expected second request to fail on the pacer")
	}
	if requests != 1 {
		t.Errorf("server saw %d requests, want 1", requests)
	}
}
