package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: LevelWarn, Output: &buf})

	log.Debug("hidden %d", 1)
	log.Info("hidden %d", 2)
	log.Warn("shown %d", 3)
	log.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages:\n%s", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown 4") {
		t.Errorf("output missing messages:\n%s", out)
	}

	buf.Reset()
	log.SetLevel(LevelDebug)
	log.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("SetLevel did not lower threshold:\n%s", buf.String())
	}
}

func TestJSONFormatWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	log.With("provider", "kepler").Info("fetched %s", "venus")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "fetched venus" {
		t.Errorf("msg = %v, want %q", rec["msg"], "fetched venus")
	}
	if rec["provider"] != "kepler" {
		t.Errorf("provider = %v, want kepler", rec["provider"])
	}
	if rec["level"] != "INFO" {
		t.Errorf("level = %v, want INFO", rec["level"])
	}
}

func TestWithSharesLevelAndOutput(t *testing.T) {
	var buf bytes.Buffer
	parent := NewWithConfig(Config{Level: LevelError, Output: &buf})
	child := parent.With("k", "v")

	child.Info("dropped")
	parent.SetLevel(LevelInfo)
	child.Info("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("child did not follow parent level:\n%s", out)
	}
	if !strings.Contains(out, "k=v") {
		t.Errorf("child attrs missing:\n%s", out)
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nothing should happen")
	log.SetOutput(&bytes.Buffer{})
	log.Error("still nothing")
}
