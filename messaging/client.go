// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/sdrshell/uploader/lib/netutil"
	"github.com/sdrshell/uploader/lib/secret"
	"github.com/sdrshell/uploader/lib/version"
)

// DefaultBaseURL is the versioned Discord REST API root.
const DefaultBaseURL = "https://discord.com/api/v10"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the API root. Empty means DefaultBaseURL.
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// RateLimit is the sustained request rate in requests per second.
	// Zero disables pacing.
	RateLimit rate.Limit
	// RateBurst is the number of requests allowed back to back. Values
	// below 1 are treated as 1.
	RateBurst int
	// UserAgent overrides the User-Agent header. Empty means
	// version.UserAgent().
	UserAgent string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated Discord REST client. It holds the base
// URL, HTTP transport and request pacer shared by its sessions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a new Discord client.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	// Request URLs are built by concatenation, so only the structure is
	// checked here.
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("messaging: invalid BaseURL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("messaging: BaseURL %q must be http or https", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	limit := config.RateLimit
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := config.RateBurst
	if burst < 1 {
		burst = 1
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		userAgent:  userAgent,
		logger:     logger,
	}, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's connection pool.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Connect validates a bot token and returns a session bound to it. This
// is the session-ready point: once Connect returns, the token is known
// to be accepted by Discord.
//
// Connect takes ownership of token. It is released by
// DirectSession.Close, or before Connect returns if validation fails.
func (c *Client) Connect(ctx context.Context, token *secret.Buffer) (*DirectSession, error) {
	if token == nil || token.Len() == 0 {
		return nil, fmt.Errorf("messaging: bot token is required")
	}

	session := &DirectSession{client: c, token: token}

	body, err := c.doJSON(ctx, http.MethodGet, "/users/@me", token, nil)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("messaging: validating bot token failed: %w", err)
	}

	if err := json.Unmarshal(body, &session.user); err != nil {
		session.Close()
		return nil, fmt.Errorf("messaging: failed to parse user response: %w", err)
	}

	c.logger.Info("connected to discord",
		"user", session.user.Tag(),
		"user_id", session.user.ID,
	)
	return session, nil
}

// doJSON performs a request with an optional JSON body and returns the
// response body. token may be nil for unauthenticated endpoints.
func (c *Client) doJSON(ctx context.Context, method, path string, token *secret.Buffer, requestBody any) ([]byte, error) {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("messaging: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, contentType, bodyReader)
}

// doMultipart streams a multipart/form-data request built from parts.
func (c *Client) doMultipart(ctx context.Context, method, path string, token *secret.Buffer, parts ...netutil.Part) ([]byte, error) {
	contentType, body := netutil.StreamMultipart(parts...)
	// The transport closes the body; closing here as well covers the
	// paths where the request is never sent.
	defer body.Close()
	return c.do(ctx, method, path, token, contentType, body)
}

// do waits for the pacer, sends the request and maps non-2xx responses
// to *DiscordError.
func (c *Client) do(ctx context.Context, method, path string, token *secret.Buffer, contentType string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("messaging: waiting for rate limiter: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to create request: %w", err)
	}

	request.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != nil {
		request.Header.Set("Authorization", "Bot "+token.String())
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("messaging: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("messaging: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	var discordErr DiscordError
	if jsonErr := json.Unmarshal(responseBody, &discordErr); jsonErr != nil || discordErr.Message == "" {
		// Proxies and the Cloudflare edge answer with HTML or plain
		// text; keep the raw body for the log.
		return nil, fmt.Errorf("messaging: unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, strings.TrimSpace(string(responseBody)))
	}
	discordErr.StatusCode = response.StatusCode

	c.logger.Debug("discord request rejected",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"code", discordErr.Code,
	)
	return nil, &discordErr
}
