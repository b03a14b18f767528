package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestSanitizePayloadMasksSensitiveKeys(t *testing.T) {
	got := SanitizePayload(map[string]any{
		"customerId": "0000000001",
		"pin":        "1234",
		"nested":     map[string]any{"Transaction-Pin": "9999"},
	})

	out, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map payload, got %T", got)
	}
	if out["pin"] != "******" {
		t.Fatalf("expected pin to be masked, got %v", out["pin"])
	}
	nested := out["nested"].(map[string]any)
	if nested["Transaction-Pin"] != "******" {
		t.Fatalf("expected nested pin to be masked, got %v", nested["Transaction-Pin"])
	}
	if out["customerId"] != "0000000001" {
		t.Fatalf("expected customerId to be kept, got %v", out["customerId"])
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLog(t)
	SetLevel(LevelWarn)

	Info("dropped", nil)
	Warn("kept", Fields{"k": 1})

	if strings.Contains(buf.String(), "dropped") {
		t.Fatalf("info entry should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), `WARN kept {"k":1}`) {
		t.Fatalf("expected warn entry, got %q", buf.String())
	}
}

func TestErrorAddsErrorField(t *testing.T) {
	buf := captureLog(t)

	Error("failed", bytes.ErrTooLarge, Fields{"accountId": 10000000})

	if !strings.Contains(buf.String(), `"error":"bytes.Buffer: too large"`) {
		t.Fatalf("expected error field, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"DEBUG": LevelDebug, "warning": LevelWarn, "error": LevelError, "": LevelInfo, "bogus": LevelInfo}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q) = %d, want %d", raw, got, want)
		}
	}
}
