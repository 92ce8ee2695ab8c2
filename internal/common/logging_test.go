package common

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewLogger_FluentAPI(t *testing.T) {
	logger := NewLogger("error")
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	// Must not panic
	logger.Info().Str("key", "value").Msg("test message")
	logger.Warn().Int("count", 42).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
}

func TestNewLoggerFromConfig_Defaults(t *testing.T) {
	if NewLoggerFromConfig(LoggingConfig{}) == nil {
		t.Fatal("expected logger for empty config")
	}
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	path := t.TempDir() + "/forge.log"
	logger := NewLoggerFromConfig(LoggingConfig{Level: "info", Outputs: []string{"file"}, FilePath: path})
	logger.Info().Msg("to file")
}

func TestNewLoggerFromConfig_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLoggerFromConfig(LoggingConfig{Level: "info", Format: "json", Outputs: []string{"console"}}, &buf)
	logger.Info().Str("tool", "forecast").Msg("hello")
	logger.Info().Msg("again")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per event, got %q", buf.String())
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("not a JSON line: %q", line)
		}
	}
	if !strings.Contains(lines[0], "hello") || !strings.Contains(lines[0], "forecast") {
		t.Errorf("event content missing: %q", lines[0])
	}
}

func TestNewLoggerWithOutput_WritesFieldsInOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("zeta", "1").Str("alpha", "2").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("expected message in output, got %q", out)
	}
	if a, z := strings.Index(out, "alpha="), strings.Index(out, "zeta="); a < 0 || z < 0 || a > z {
		t.Errorf("fields should be sorted: %q", out)
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("should be discarded")
	silent.Error().Msg("should be discarded")

	if buf.Len() != 0 {
		t.Errorf("silent logger leaked output: %q", buf.String())
	}
}

func TestWithCorrelationId(t *testing.T) {
	logger := NewSilentLogger().WithCorrelationId("abc")
	if logger == nil || logger.ILogger == nil {
		t.Fatal("expected wrapped logger")
	}
	logger.Info().Msg("traced")
}

func TestNewCorrelationID(t *testing.T) {
	id := NewCorrelationID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("not a uuid: %q", id)
	}
	if id == NewCorrelationID() {
		t.Error("ids must be unique")
	}
}
