package logging

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: "trace", Format: "json", Output: buf})
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
}

func TestProductionConfig(t *testing.T) {
	t.Parallel()

	config := ProductionConfig()

	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"WARN", bolt.WARN},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if result := parseLevel(tt.input); result != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{name: "invocation id", field: InvocationID("inv-1"), want: `"invocation_id":"inv-1"`},
		{name: "source", field: Source("mcp"), want: `"source":"mcp"`},
		{name: "tool", field: ToolName("iagon_upload_file"), want: `"tool":"iagon_upload_file"`},
		{name: "directory", field: Directory("docs"), want: `"directory":"docs"`},
		{name: "visibility", field: Visibility("private"), want: `"visibility":"private"`},
		{name: "status code", field: StatusCode(500), want: `"status_code":500`},
		{name: "outcome", field: Outcome("http_failure"), want: `"outcome":"http_failure"`},
		{name: "duration", field: Duration(100 * time.Millisecond), want: `"duration_ms":100`},
		{name: "component", field: Component("iagon"), want: `"component":"iagon"`},
		{name: "operation", field: Operation("upload"), want: `"operation":"upload"`},
		{name: "custom", field: Str("k", "v"), want: `"k":"v"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			NewEvent(logger.Info()).Add(tt.field).Msg("test")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestErrorField(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	NewEvent(logger.Error()).Add(ErrorField(errors.New("boom"))).Msg("failed")
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error in output: %s", buf.String())
	}

	logger, buf = testLogger()
	NewEvent(logger.Info()).Add(ErrorField(nil)).Msg("fine")
	if !strings.Contains(buf.String(), "fine") {
		t.Errorf("expected message in output: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Format: "json", Output: buf})

	NewEvent(logger.Info()).Msg("hidden")
	NewEvent(logger.Warn()).Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info message should be filtered: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn message missing: %s", buf.String())
	}
}

func TestSetDefault(t *testing.T) {
	logger, buf := testLogger()

	previous := Get()
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(previous) })

	Info().Add(ToolName("x")).Msg("through default")
	if !strings.Contains(buf.String(), "through default") {
		t.Errorf("expected message via default logger: %s", buf.String())
	}
}
