// Package application provides the application layer: running registered
// tools on behalf of the CLI and the MCP server.
package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
)

// Invoker runs tools from a registry through a middleware chain.
type Invoker struct {
	registry   tool.Registry
	middleware []middleware.Middleware
	newID      func() string
}

// InvokerConfig contains configuration for the invoker.
type InvokerConfig struct {
	Registry   tool.Registry
	Middleware []middleware.Middleware
}

// Option configures the invoker.
type Option func(*InvokerConfig)

// WithRegistry sets the tool registry.
func WithRegistry(r tool.Registry) Option {
	return func(c *InvokerConfig) {
		c.Registry = r
	}
}

// WithMiddleware appends middleware. The first added runs outermost.
func WithMiddleware(mw ...middleware.Middleware) Option {
	return func(c *InvokerConfig) {
		c.Middleware = append(c.Middleware, mw...)
	}
}

// NewInvoker creates an invoker from options.
func NewInvoker(opts ...Option) (*Invoker, error) {
	var cfg InvokerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	return &Invoker{
		registry:   cfg.Registry,
		middleware: cfg.Middleware,
		newID:      func() string { return uuid.NewString() },
	}, nil
}

// Registry returns the registry tools are looked up in.
func (i *Invoker) Registry() tool.Registry {
	return i.registry
}

// Invoke runs the named tool with input. source names the calling surface
// and is carried into logs, metrics and traces.
func (i *Invoker) Invoke(ctx context.Context, source, name string, input json.RawMessage) (tool.Result, error) {
	t, ok := i.registry.Get(name)
	if !ok {
		return tool.Result{}, fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}

	execCtx := &middleware.ExecutionContext{
		InvocationID: i.newID(),
		Source:       source,
		Tool:         t,
		Input:        input,
	}

	start := time.Now()
	handler := middleware.Chain(i.middleware...)(middleware.ExecuteTool)
	result, err := handler(ctx, execCtx)
	if err != nil {
		return tool.Result{}, err
	}
	result.Duration = time.Since(start)
	return result, nil
}
