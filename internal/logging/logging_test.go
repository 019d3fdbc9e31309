package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_JSONCarriesComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("refresh", Options{Level: "info", Out: &buf})
	logger.Debug().Msg("hidden")
	logger.Info().Int("rows", 3).Msg("built")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected debug line filtered, got %q", buf.String())
	}

	var event map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if event["component"] != "refresh" || event["message"] != "built" || event["rows"] != float64(3) {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("web", Options{Level: "chatty", Out: &buf})
	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New("cli", Options{Level: "debug", Format: "console", Out: &buf})
	logger.Debug().Msg("hello")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("missing message: %q", buf.String())
	}
}
