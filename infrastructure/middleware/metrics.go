package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/telemetry"
)

// Metrics returns middleware that records invocation counts and durations.
func Metrics(metrics telemetry.Metrics) middleware.Middleware {
	if metrics == nil {
		metrics = telemetry.NoopMetricsProvider{}
	}
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			start := time.Now()
			result, err := next(ctx, execCtx)
			metrics.RecordToolInvocation(ctx, execCtx.Tool.Name(), execCtx.Source, err == nil, time.Since(start))
			return result, err
		}
	}
}
