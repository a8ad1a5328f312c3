package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	mcpgo "github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/logging"
)

// Invoker runs a registered tool by name.
type Invoker interface {
	Invoke(ctx context.Context, source, name string, input json.RawMessage) (tool.Result, error)
}

// AgentServer wraps an MCP server to expose registered tools.
type AgentServer struct {
	srv      *mcpgo.Server
	registry tool.Registry
	invoker  Invoker
	info     mcpgo.ServerInfo
}

// AgentServerConfig configures an agent MCP server.
type AgentServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Registry is the tool registry containing tools to expose.
	Registry tool.Registry

	// Invoker runs tool calls. When nil, tools are executed directly
	// without middleware.
	Invoker Invoker

	// Description is an optional server description.
	Description string

	// Instructions provides usage instructions for clients.
	Instructions string
}

// NewAgentServer creates a new MCP server that exposes the registry's tools.
func NewAgentServer(cfg AgentServerConfig) *AgentServer {
	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	as := &AgentServer{
		srv:      mcpgo.NewServer(info, opts...),
		registry: cfg.Registry,
		invoker:  cfg.Invoker,
		info:     info,
	}

	if cfg.Registry != nil {
		for _, t := range cfg.Registry.List() {
			as.registerTool(t)
		}
	}

	return as
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	stringType  = reflect.TypeOf("")
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// registerTool registers a single tool with the MCP server. The advertised
// input schema comes from the tool's input type, and inputs are checked
// against it before the handler runs.
func (s *AgentServer) registerTool(t tool.Tool) {
	b := s.srv.Tool(t.Name()).
		Description(describe(t)).
		Title(t.Title()).
		ValidateInput()

	a := t.Annotations()
	if a.ReadOnly {
		b = b.ReadOnly()
	}
	if a.Idempotent {
		b = b.Idempotent()
	}

	b.Handler(typedHandler(t.InputSchema().InputType(), s.handlerFor(t)))
}

// typedHandler wraps raw in a func(context.Context, in) (string, error).
// The decoded input is encoded again before raw sees it.
func typedHandler(in reflect.Type, raw func(context.Context, json.RawMessage) (string, error)) any {
	fnType := reflect.FuncOf([]reflect.Type{contextType, in}, []reflect.Type{stringType, errorType}, false)
	return reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		ctx := args[0].Interface().(context.Context)

		var out string
		input, err := json.Marshal(args[1].Interface())
		if err == nil {
			out, err = raw(ctx, input)
		}

		errVal := reflect.Zero(errorType)
		if err != nil {
			errVal = reflect.ValueOf(&err).Elem()
		}
		return []reflect.Value{reflect.ValueOf(out), errVal}
	}).Interface()
}

// describe prefixes the description with the display title.
func describe(t tool.Tool) string {
	if t.Title() == t.Name() || t.Title() == "" {
		return t.Description()
	}
	return fmt.Sprintf("%s: %s", t.Title(), t.Description())
}

// handlerFor returns the MCP handler for t. The tool's JSON output is
// returned as the text content of the call.
func (s *AgentServer) handlerFor(t tool.Tool) func(ctx context.Context, input json.RawMessage) (string, error) {
	return func(ctx context.Context, input json.RawMessage) (string, error) {
		var (
			result tool.Result
			err    error
		)
		if s.invoker != nil {
			result, err = s.invoker.Invoke(ctx, middleware.SourceMCP, t.Name(), input)
		} else {
			result, err = t.Execute(ctx, input)
		}
		if err != nil {
			logging.Warn().
				Add(logging.Component("mcp")).
				Add(logging.ToolName(t.Name())).
				Add(logging.ErrorField(err)).
				Msg("tool call rejected")
			return "", err
		}
		return string(result.Output), nil
	}
}

// Info returns the server metadata.
func (s *AgentServer) Info() mcpgo.ServerInfo {
	return s.info
}

// Server returns the underlying mcp-go server.
func (s *AgentServer) Server() *mcpgo.Server {
	return s.srv
}

// ServeStdio runs the server over stdin/stdout.
func (s *AgentServer) ServeStdio(ctx context.Context, opts ...mcpgo.ServeOption) error {
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}

// ServeHTTP runs the server over HTTP with SSE.
func (s *AgentServer) ServeHTTP(ctx context.Context, addr string, opts ...mcpgo.HTTPOption) error {
	return mcpgo.ServeHTTP(ctx, s.srv, addr, opts...)
}

// Serve runs the server on the named transport.
func (s *AgentServer) Serve(ctx context.Context, transport, addr string) error {
	switch transport {
	case TransportStdio, "":
		return s.ServeStdio(ctx)
	case TransportHTTP:
		return s.ServeHTTP(ctx, addr)
	default:
		return fmt.Errorf("unknown transport %q", transport)
	}
}
