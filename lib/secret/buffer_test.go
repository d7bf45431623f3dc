// Copyright 2026 The sdrshell Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"strings"
	"testing"
)

func TestNewFromBytes(t *testing.T) {
	source := []byte("MTA5.bot-token.value")

	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "MTA5.bot-token.value" {
		t.Errorf("String() = %q, want %q", got, "MTA5.bot-token.value")
	}
	if buffer.Len() != len("MTA5.bot-token.value") {
		t.Errorf("Len() = %d, want %d", buffer.Len(), len("MTA5.bot-token.value"))
	}

	for index, value := range source {
		if value != 0 {
			t.Fatalf("source not zeroed at index %d: %d", index, value)
		}
	}
}

func TestNewFromBytes_Empty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestNewFromString(t *testing.T) {
	buffer, err := NewFromString("token")
	if err != nil {
		t.Fatalf("NewFromString failed: %v", err)
	}
	defer buffer.Close()

	if string(buffer.Bytes()) != "token" {
		t.Errorf("Bytes() = %q, want %q", buffer.Bytes(), "token")
	}
}

func TestBuffer_Close_Idempotent(t *testing.T) {
	buffer, err := NewFromString("token")
	if err != nil {
		t.Fatalf("NewFromString failed: %v", err)
	}

	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestBuffer_PanicsAfterClose(t *testing.T) {
	accessors := map[string]func(*Buffer){
		"Bytes":  func(b *Buffer) { b.Bytes() },
		"String": func(b *Buffer) { _ = b.String() },
	}

	for name, access := range accessors {
		t.Run(name, func(t *testing.T) {
			buffer, err := NewFromString("token")
			if err != nil {
				t.Fatalf("NewFromString failed: %v", err)
			}
			buffer.Close()

			defer func() {
				recovered := recover()
				if recovered == nil {
					t.Fatal("expected panic after Close")
				}
				if message, ok := recovered.(string); !ok || !strings.Contains(message, "closed buffer") {
					t.Errorf("unexpected panic value: %v", recovered)
				}
			}()
			access(buffer)
		})
	}
}
