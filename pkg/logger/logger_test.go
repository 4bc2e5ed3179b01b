package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestObfuscate(t *testing.T) {
	tests := []struct {
		email string
		keep  int
		want  string
	}{
		{"jane@example.com", 2, "ja**@example.com"},
		{"jane@example.com", 0, "****@example.com"},
		{"jo@example.com", 5, "jo@example.com"},
		{"not-an-email", 2, "************"},
		{"", 2, ""},
	}
	for _, tt := range tests {
		if got := obfuscate(tt.email, tt.keep); got != tt.want {
			t.Errorf("obfuscate(%q, %d) = %q, want %q", tt.email, tt.keep, got, tt.want)
		}
	}
}

func TestInit_WritesServiceFieldAndHonoursLevel(t *testing.T) {
	Reset()
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(prev)
	})

	var buf bytes.Buffer
	log := Init(Options{Level: "warn", Service: "social-api", EmailVisibleChars: 1, Output: &buf})

	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info entry written at warn level: %s", buf.String())
	}

	log.Warn().Msg("kept")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["service"] != "social-api" {
		t.Fatalf("expected service field, got %v", entry["service"])
	}
	if entry["message"] != "kept" {
		t.Fatalf("unexpected message: %v", entry["message"])
	}

	if got := ObfuscateEmail("jane@example.com"); got != "j***@example.com" {
		t.Fatalf("ObfuscateEmail = %q", got)
	}
}

func TestInit_SecondCallKeepsFirstLogger(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Output: &first})
	l := Init(Options{Output: &second})
	l.Info().Msg("hello")

	if second.Len() != 0 {
		t.Fatalf("second Init replaced the logger")
	}
	if first.Len() == 0 {
		t.Fatalf("expected entry on the first writer")
	}
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = Get()
}
