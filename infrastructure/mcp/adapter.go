package mcp

import (
	"encoding/json"

	"github.com/felixgeelhaar/agent-iagon/domain/tool"
)

// ToolDef is the MCP tools/list shape of a tool.
type ToolDef struct {
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
	Annotations *ToolHints      `json:"annotations,omitempty"`
}

// ToolHints are the MCP behavioral hints derived from tool annotations.
type ToolHints struct {
	ReadOnlyHint   bool `json:"readOnlyHint"`
	IdempotentHint bool `json:"idempotentHint"`
}

// ToolToDef converts a tool to its MCP definition.
func ToolToDef(t tool.Tool) ToolDef {
	a := t.Annotations()
	def := ToolDef{
		Name:        t.Name(),
		Title:       t.Title(),
		Description: t.Description(),
		Annotations: &ToolHints{
			ReadOnlyHint:   a.ReadOnly,
			IdempotentHint: a.Idempotent,
		},
	}
	if schema := t.InputSchema(); !schema.IsEmpty() {
		def.InputSchema = schema.Raw()
	}
	return def
}

// ToolDefs converts every tool in the registry, in registry order.
func ToolDefs(registry tool.Registry) []ToolDef {
	tools := registry.List()
	defs := make([]ToolDef, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToolToDef(t))
	}
	return defs
}
