package observability

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
	"github.com/felixgeelhaar/agent-iagon/domain/tool"
)

// TracingMiddleware creates middleware that traces tool executions.
func TracingMiddleware(tracer trace.Tracer) middleware.Middleware {
	return func(next middleware.Handler) middleware.Handler {
		return func(ctx context.Context, execCtx *middleware.ExecutionContext) (tool.Result, error) {
			annotations := execCtx.Tool.Annotations()
			ctx, span := tracer.Start(ctx, "tool.execute",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					attribute.String("tool.name", execCtx.Tool.Name()),
					attribute.String("invocation.id", execCtx.InvocationID),
					attribute.String("invocation.source", execCtx.Source),
					attribute.Bool("tool.read_only", annotations.ReadOnly),
					attribute.Bool("tool.idempotent", annotations.Idempotent),
				),
			)
			defer span.End()

			result, err := next(ctx, execCtx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.String("tool.status", "error"))
				return result, err
			}

			var outcome struct {
				OK   bool   `json:"ok"`
				Kind string `json:"kind"`
			}
			if json.Unmarshal(result.Output, &outcome) == nil && outcome.Kind != "" {
				span.SetAttributes(
					attribute.String("tool.outcome", outcome.Kind),
					attribute.Bool("tool.ok", outcome.OK),
				)
			}
			span.SetStatus(codes.Ok, "")
			span.SetAttributes(attribute.String("tool.status", "success"))
			return result, nil
		}
	}
}
