package observability

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"weak-acid-ph/internal/handlers"
)

// ErrorReport describes one failed operation.
type ErrorReport struct {
	Operation string
	Kind      string
	Message   string
	Err       error
	Status    int
	// Body replaces the default {"error","kind"} JSON body when set.
	Body any
}

// RecordError centralises error handling across all domains: records the
// error on the span, increments counter with operation and kind, logs with
// trace context, and writes the JSON error response.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, w http.ResponseWriter, rep ErrorReport) {
	span.RecordError(rep.Err)
	span.SetStatus(codes.Error, rep.Message)

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", rep.Operation),
		attribute.String("kind", rep.Kind),
	))

	logger.Error(rep.Message,
		zap.String("operation", rep.Operation),
		zap.String("kind", rep.Kind),
		zap.Error(rep.Err),
		zap.String("request_id", RequestIDFromContext(ctx)),
	)

	body := rep.Body
	if body == nil {
		body = handlers.ErrorBody{Error: rep.Message, Kind: rep.Kind}
	}
	handlers.WriteJSON(w, rep.Status, body)
}
