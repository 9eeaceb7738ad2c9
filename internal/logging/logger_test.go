package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestPrefixWriter(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	pw.Write([]byte("one\ntw"))
	if got := out.String(); got != "> one\n" {
		t.Fatalf("after partial write: %q", got)
	}
	pw.Write([]byte("o\nthree\n"))
	if got := out.String(); got != "> one\n> two\n> three\n" {
		t.Errorf("got %q", got)
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		env, explicit, configured string
		want                      string
	}{
		{"", "", "", DefaultLevel},
		{"", "", "info", "info"},
		{"debug", "", "info", "debug"},
		{"debug", "error", "info", "error"},
		{"", "loud", "info", "info"},
		{"bogus", "", "", DefaultLevel},
	}
	for _, tt := range tests {
		t.Setenv(EnvLevel, tt.env)
		if got := ResolveLevel(tt.explicit, tt.configured); got != tt.want {
			t.Errorf("env %q, ResolveLevel(%q, %q) = %q, want %q",
				tt.env, tt.explicit, tt.configured, got, tt.want)
		}
	}
}

func TestNewLoggerText(t *testing.T) {
	t.Setenv(EnvJSON, "")
	t.Setenv(EnvLevel, "trace")
	var out bytes.Buffer
	logger := NewLogger("images", "info", &out)

	logger.Debug("hidden")
	logger.Info("wrote screenshot", "path", "screenshots/quake000.jpg")

	got := out.String()
	if strings.Contains(got, "hidden") {
		t.Error("debug line written at info level")
	}
	if !strings.HasPrefix(got, "q2img ") {
		t.Errorf("missing prefix: %q", got)
	}
	if !strings.Contains(got, "images: wrote screenshot") || !strings.Contains(got, "path=screenshots/quake000.jpg") {
		t.Errorf("unexpected line: %q", got)
	}
}

func TestNewLoggerJSON(t *testing.T) {
	t.Setenv(EnvJSON, "1")
	t.Setenv(EnvLevel, "")
	var out bytes.Buffer
	logger := NewLogger("images", "", &out)

	logger.Info("dropped")
	logger.Warn("couldn't load image", "name", "pics/a.pcx")

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &line); err != nil {
		t.Fatalf("not a single JSON line: %q: %v", out.String(), err)
	}
	if line["@message"] != "couldn't load image" || line["@module"] != "images" || line["name"] != "pics/a.pcx" {
		t.Errorf("got %v", line)
	}
}
