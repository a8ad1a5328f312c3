// Package middleware provides pre-built middleware implementations.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
)

// ValidationConfig configures the input validation middleware.
type ValidationConfig struct {
	// RejectEmpty rejects empty or null inputs before schema checks.
	RejectEmpty bool
}

// DefaultValidationConfig returns the default configuration.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{RejectEmpty: true}
}

// Validation returns middleware that checks tool inputs against the tool's
// declared input schema before the handler sees them.
func Validation(cfg ValidationConfig) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			if err := validateInput(execCtx.Tool, execCtx.Input, cfg.RejectEmpty); err != nil {
				return tool.Result{}, fmt.Errorf("%w: %s: %v", tool.ErrInvalidInput, execCtx.Tool.Name(), err)
			}
			return next(ctx, execCtx)
		}
	}
}

// validateInput validates tool input against the tool's input schema.
func validateInput(t tool.Tool, input json.RawMessage, rejectEmpty bool) error {
	if len(input) == 0 || string(input) == "null" {
		if rejectEmpty {
			return fmt.Errorf("input is empty or null")
		}
		return nil
	}

	if !json.Valid(input) {
		return fmt.Errorf("input is not valid JSON")
	}

	if schema := t.InputSchema(); !schema.IsEmpty() {
		if err := schema.Validate(input); err != nil {
			return fmt.Errorf("input schema validation failed: %w", err)
		}
	}
	return nil
}
