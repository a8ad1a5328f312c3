package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agent-iagon/domain/tool"
)

func echoHandler(_ context.Context, input json.RawMessage) (tool.Result, error) {
	return tool.Result{Output: input}, nil
}

func TestToolBuilder_Basic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		toolName string
		handler  tool.Handler
		wantErr  error
	}{
		{name: "valid tool", toolName: "test_tool", handler: echoHandler},
		{name: "empty name fails", toolName: "", handler: echoHandler, wantErr: tool.ErrEmptyName},
		{name: "missing handler fails", toolName: "test_tool", wantErr: tool.ErrNoHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			built, err := tool.NewBuilder(tt.toolName).
				WithDescription("A test tool").
				WithHandler(tt.handler).
				Build()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && built.Name() != tt.toolName {
				t.Errorf("Name() = %v, want %v", built.Name(), tt.toolName)
			}
		})
	}
}

func TestToolBuilder_Title(t *testing.T) {
	t.Parallel()

	untitled := tool.NewBuilder("lookup").WithHandler(echoHandler).MustBuild()
	if untitled.Title() != "lookup" {
		t.Errorf("Title() = %s, want lookup", untitled.Title())
	}

	titled := tool.NewBuilder("lookup").WithTitle("Look Up").WithHandler(echoHandler).MustBuild()
	if titled.Title() != "Look Up" {
		t.Errorf("Title() = %s, want Look Up", titled.Title())
	}
}

func TestToolBuilder_Annotations(t *testing.T) {
	t.Parallel()

	t.Run("defaults to low risk", func(t *testing.T) {
		t.Parallel()

		built := tool.NewBuilder("writer").WithHandler(echoHandler).MustBuild()
		a := built.Annotations()
		if a.ReadOnly {
			t.Error("ReadOnly should be false by default")
		}
		if a.RiskLevel != tool.RiskLow {
			t.Errorf("RiskLevel = %v, want low", a.RiskLevel)
		}
	})

	t.Run("read only lowers risk", func(t *testing.T) {
		t.Parallel()

		built := tool.NewBuilder("reader").
			ReadOnly().
			Idempotent().
			WithTags("storage", "lookup").
			WithHandler(echoHandler).
			MustBuild()

		a := built.Annotations()
		if !a.ReadOnly || !a.Idempotent {
			t.Errorf("annotations = %+v, want read-only idempotent", a)
		}
		if a.RiskLevel != tool.RiskNone {
			t.Errorf("RiskLevel = %v, want none", a.RiskLevel)
		}
		if !a.HasTag("lookup") {
			t.Error("HasTag(lookup) = false, want true")
		}
		if a.CanCache() {
			t.Error("CanCache() should be false when Cacheable is unset")
		}
	})
}

func TestDefinition_Execute(t *testing.T) {
	t.Parallel()

	built := tool.NewBuilder("echo").WithHandler(echoHandler).MustBuild()

	result, err := built.Execute(context.Background(), json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.OutputString() != `{"x":1}` {
		t.Errorf("Output = %s, want {\"x\":1}", result.OutputString())
	}
}

func TestMustBuild_Panics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustBuild() should panic for an empty name")
		}
	}()
	tool.NewBuilder("").WithHandler(echoHandler).MustBuild()
}

func TestJSONResult(t *testing.T) {
	t.Parallel()

	result, err := tool.JSONResult(map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("JSONResult() error = %v", err)
	}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := result.Decode(&out); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !out.OK {
		t.Error("ok = false, want true")
	}

	if _, err := tool.JSONResult(make(chan int)); err == nil {
		t.Error("JSONResult() should fail for unmarshalable values")
	}
}

func TestRiskLevel_String(t *testing.T) {
	t.Parallel()

	tests := map[tool.RiskLevel]string{
		tool.RiskNone:      "none",
		tool.RiskLow:       "low",
		tool.RiskMedium:    "medium",
		tool.RiskHigh:      "high",
		tool.RiskLevel(42): "unknown",
	}
	for level, want := range tests {
		if got := level.String(); got != want {
			t.Errorf("RiskLevel(%d).String() = %s, want %s", int(level), got, want)
		}
	}
}
