package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/logging"
)

// LoggingConfig configures the logging middleware.
type LoggingConfig struct {
	// Logger receives the events; the default logger when nil.
	Logger *bolt.Logger
	// LogInput logs the tool input. Inputs carry local file paths.
	LogInput bool
	// LogOutput logs the tool output (may be large).
	LogOutput bool
}

// outcomeView is the part of a tool output the logger reports on.
type outcomeView struct {
	OK   *bool  `json:"ok"`
	Kind string `json:"kind"`
}

// Logging returns middleware that logs tool execution.
func Logging(cfg LoggingConfig) middleware.Middleware {
	logger := func() *bolt.Logger {
		if cfg.Logger != nil {
			return cfg.Logger
		}
		return logging.Get()
	}

	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			start := time.Now()
			l := logger()

			entry := logging.NewEvent(l.Debug()).
				Add(logging.InvocationID(execCtx.InvocationID)).
				Add(logging.Source(execCtx.Source)).
				Add(logging.ToolName(execCtx.Tool.Name()))
			if cfg.LogInput && len(execCtx.Input) > 0 {
				entry = entry.Add(logging.Str("input", string(execCtx.Input)))
			}
			entry.Msg("executing tool")

			result, err := next(ctx, execCtx)
			duration := time.Since(start)

			if err != nil {
				logging.NewEvent(l.Error()).
					Add(logging.InvocationID(execCtx.InvocationID)).
					Add(logging.ToolName(execCtx.Tool.Name())).
					Add(logging.ErrorField(err)).
					Add(logging.Duration(duration)).
					Msg("tool execution failed")
				return result, err
			}

			var view outcomeView
			_ = json.Unmarshal(result.Output, &view)

			event := l.Info()
			if view.OK != nil && !*view.OK {
				event = l.Warn()
			}
			logEntry := logging.NewEvent(event).
				Add(logging.InvocationID(execCtx.InvocationID)).
				Add(logging.ToolName(execCtx.Tool.Name())).
				Add(logging.Duration(duration))
			if view.Kind != "" {
				logEntry = logEntry.Add(logging.Outcome(view.Kind))
			}
			if cfg.LogOutput && len(result.Output) > 0 {
				output := string(result.Output)
				if len(output) > 500 {
					output = output[:500] + "..."
				}
				logEntry = logEntry.Add(logging.Str("output", output))
			}
			logEntry.Msg("tool executed")

			return result, nil
		}
	}
}
