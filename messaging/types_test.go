// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"testing"
)

func TestParseSnowflake(t *testing.T) {
	tests := []struct {
		input   string
		want    Snowflake
		wantErr bool
	}{
		{input: "1100000000000000001", want: 1100000000000000001},
		{input: "7", want: 7},
		{input: "0", wantErr: true},
		{input: "", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "12abc", wantErr: true},
		{input: "18446744073709551616", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseSnowflake(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseSnowflake(%q) = %d, want error", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSnowflake(%q) failed: %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseSnowflake(%q) = %d, want %d", test.input, got, test.want)
		}
	}
}

func TestSnowflakeJSON(t *testing.T) {
	encoded, err := json.Marshal(Snowflake(1100000000000000001))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(encoded) != `"1100000000000000001"` {
		t.Errorf("Marshal = %s", encoded)
	}

	var fromString, fromNumber, fromNull Snowflake
	if err := json.Unmarshal([]byte(`"1100000000000000001"`), &fromString); err != nil {
		t.Fatalf("Unmarshal string failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`123`), &fromNumber); err != nil {
		t.Fatalf("Unmarshal number failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`null`), &fromNull); err != nil {
		t.Fatalf("Unmarshal null failed: %v", err)
	}
	if fromString != 1100000000000000001 || fromNumber != 123 || !fromNull.IsZero() {
		t.Errorf("decoded %d, %d, %d", fromString, fromNumber, fromNull)
	}

	var invalid Snowflake
	if err := json.Unmarshal([]byte(`"abc"`), &invalid); err == nil {
		t.Error("expected error for non-numeric snowflake")
	}
}

func TestUserTag(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{user: User{Username: "sdr-bot", Discriminator: "0"}, want: "sdr-bot"},
		{user: User{Username: "sdr-bot"}, want: "sdr-bot"},
		{user: User{Username: "legacy", Discriminator: "1234"}, want: "legacy#1234"},
	}
	for _, test := range tests {
		if got := test.user.Tag(); got != test.want {
			t.Errorf("Tag() = %q, want %q", got, test.want)
		}
	}
}

func TestNonce(t *testing.T) {
	first := Nonce(77, "/data/spectrum_logs/a.csv", "notice")
	if len(first) != nonceLength {
		t.Fatalf("nonce length = %d, want %d", len(first), nonceLength)
	}
	if len(first) > 25 {
		t.Fatalf("nonce %q exceeds Discord's 25 character limit", first)
	}
	if again := Nonce(77, "/data/spectrum_logs/a.csv", "notice"); again != first {
		t.Errorf("nonce not stable: %q vs %q", first, again)
	}

	variants := []string{
		Nonce(78, "/data/spectrum_logs/a.csv", "notice"),
		Nonce(77, "/data/spectrum_logs/b.csv", "notice"),
		Nonce(77, "/data/spectrum_logs/a.csv", "file"),
	}
	for _, variant := range variants {
		if variant == first {
			t.Errorf("distinct inputs produced the same nonce %q", variant)
		}
	}
}
