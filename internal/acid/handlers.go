package acid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"weak-acid-ph/internal/equilibrium"
	"weak-acid-ph/internal/handlers"
	"weak-acid-ph/internal/input"
	"weak-acid-ph/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the weak acid domain's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("acid")

const (
	// MaxBatchSize bounds the number of solutions in one batch request.
	MaxBatchSize = 100

	maxBodyBytes = 1 << 20

	// maxRawAttrLen caps raw request text copied into span attributes.
	maxRawAttrLen = 64
)

// Error kinds owned by the HTTP layer. Solver kinds come from
// equilibrium.Kind.
const (
	KindInvalidRequest  = "invalid_request"
	KindMalformedNumber = "malformed_number"
)

const (
	summaryApproximation = "The 'small x' approximation was valid for this calculation."
	summaryQuadratic     = "The 'small x' approximation was NOT valid. The quadratic formula was used."
)

// Summary is the one-line verdict shown above the step-by-step breakdown.
func Summary(res equilibrium.Result) string {
	if res.ApproximationUsed {
		return summaryApproximation
	}
	return summaryQuadratic
}

// failure is a solve that could not produce a pH, already classified for
// the HTTP response.
type failure struct {
	status int
	kind   string
	err    error
	steps  []string
}

func (f *failure) message() string {
	return f.err.Error()
}

func (f *failure) body() any {
	if f.status != http.StatusUnprocessableEntity {
		return nil
	}
	steps := f.steps
	if steps == nil {
		steps = []string{}
	}
	return FailureResponse{Error: f.message(), Kind: f.kind, Steps: steps}
}

// Solve parses a request and runs the solver. Parse failures are rejected
// before the solver is called and are reported as malformed numbers, never
// as solver errors.
func Solve(req SolveRequest) (SolveResponse, equilibrium.Result, error) {
	formula, err := input.Formula(req.Formula)
	if err != nil {
		return SolveResponse{}, equilibrium.Result{}, err
	}

	c0, ka, err := input.ParsePair(string(req.Concentration), string(req.Ka))
	if err != nil {
		return SolveResponse{}, equilibrium.Result{}, err
	}

	res := equilibrium.Solve(c0, ka)
	if res.Err != nil {
		return SolveResponse{}, res, res.Err
	}

	return SolveResponse{
		Formula:              formula,
		InitialConcentration: c0,
		Ka:                   ka,
		HPlusEquilibrium:     *res.HPlusEquilibrium,
		PH:                   *res.PH,
		ApproximationUsed:    res.ApproximationUsed,
		Path:                 string(res.Path),
		Summary:              Summary(res),
		Steps:                res.Narration,
	}, res, nil
}

// clip trims s to maxRawAttrLen bytes without splitting a UTF-8 sequence.
func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxRawAttrLen {
		return s
	}
	return strings.ToValidUTF8(s[:maxRawAttrLen], "") + "..."
}

func classify(res equilibrium.Result, err error) *failure {
	switch {
	case errors.Is(err, input.ErrMalformedNumber):
		return &failure{status: http.StatusBadRequest, kind: KindMalformedNumber, err: err}
	case errors.Is(err, input.ErrFormulaTooLong):
		return &failure{status: http.StatusBadRequest, kind: KindInvalidRequest, err: err}
	default:
		return &failure{status: http.StatusUnprocessableEntity, kind: equilibrium.Kind(err), err: err, steps: res.Narration}
	}
}

// solveTraced runs Solve, annotates span and records the domain metrics.
func solveTraced(ctx context.Context, span trace.Span, opName string, req SolveRequest) (SolveResponse, float64, *failure) {
	span.SetAttributes(
		attribute.String("acid.formula", clip(req.Formula)),
		attribute.String("acid.concentration.raw", clip(string(req.Concentration))),
		attribute.String("acid.ka.raw", clip(string(req.Ka))),
	)

	start := time.Now()
	resp, res, err := Solve(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		return SolveResponse{}, elapsed, classify(res, err)
	}

	tr := res.Trace
	span.SetAttributes(
		attribute.Float64("acid.concentration", resp.InitialConcentration),
		attribute.Float64("acid.ka", resp.Ka),
		attribute.Float64("acid.ratio", tr.Approximation.Ratio),
		attribute.String("acid.approximation", tr.Approximation.Outcome.String()),
		attribute.String("acid.path", resp.Path),
		attribute.Float64("acid.h_plus", resp.HPlusEquilibrium),
		attribute.Float64("acid.ph", resp.PH),
	)
	span.AddEvent("solve.complete", trace.WithAttributes(
		attribute.Float64("ph", resp.PH),
		attribute.Float64("duration_ms", elapsed),
	))

	attrs := metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("path", resp.Path),
	)
	solveCounter.Add(ctx, 1, attrs)
	solveHistogram.Record(ctx, elapsed, attrs)
	phGauge.Record(ctx, resp.PH, attrs)

	return resp, elapsed, nil
}

// ---------------------------------------------------------------------------
// Handler — single solve
// ---------------------------------------------------------------------------

// SolvePH handles POST /acid/ph
func SolvePH(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "acid.solve",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req SolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, w, observability.ErrorReport{
			Operation: "solve",
			Kind:      KindInvalidRequest,
			Message:   "invalid request body",
			Err:       err,
			Status:    http.StatusBadRequest,
		})
		return
	}

	resp, elapsed, fail := solveTraced(ctx, span, "solve", req)
	if fail != nil {
		observability.RecordError(ctx, span, logger, errorCounter, w, observability.ErrorReport{
			Operation: "solve",
			Kind:      fail.kind,
			Message:   fail.message(),
			Err:       fail.err,
			Status:    fail.status,
			Body:      fail.body(),
		})
		return
	}

	span.SetStatus(codes.Ok, "")

	logger.Info("weak acid solved",
		zap.String("formula", resp.Formula),
		zap.Float64("concentration", resp.InitialConcentration),
		zap.Float64("ka", resp.Ka),
		zap.String("path", resp.Path),
		zap.Float64("h_plus", resp.HPlusEquilibrium),
		zap.Float64("ph", resp.PH),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Handler — batch solve (one child span per entry)
// ---------------------------------------------------------------------------

// SolveBatch handles POST /acid/ph/batch. Each entry is solved in its own
// child span; a failed entry is reported in place and does not fail the
// batch.
func SolveBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "acid.batch",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, w, observability.ErrorReport{
			Operation: "batch",
			Kind:      KindInvalidRequest,
			Message:   "invalid request body",
			Err:       err,
			Status:    http.StatusBadRequest,
		})
		return
	}

	if n := len(req.Solutions); n == 0 || n > MaxBatchSize {
		msg := "no solutions provided"
		if n > 0 {
			msg = fmt.Sprintf("too many solutions: %d (max %d)", n, MaxBatchSize)
		}
		observability.RecordError(ctx, span, logger, errorCounter, w, observability.ErrorReport{
			Operation: "batch",
			Kind:      KindInvalidRequest,
			Message:   msg,
			Err:       errors.New(msg),
			Status:    http.StatusBadRequest,
		})
		return
	}

	span.SetAttributes(attribute.Int("batch.size", len(req.Solutions)))

	out := BatchResponse{Results: make([]BatchEntry, 0, len(req.Solutions))}

	for i, entry := range req.Solutions {
		_, entrySpan := tracer.Start(ctx, fmt.Sprintf("acid.batch.entry.%d", i),
			trace.WithAttributes(
				attribute.Int("batch.entry.index", i),
			),
		)

		resp, elapsed, fail := solveTraced(ctx, entrySpan, "batch", entry)
		if fail != nil {
			entrySpan.RecordError(fail.err)
			entrySpan.SetStatus(codes.Error, fail.message())
			entrySpan.End()

			errorCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("operation", "batch"),
				attribute.String("kind", fail.kind),
			))

			logger.Warn("batch entry failed",
				zap.Int("index", i),
				zap.String("kind", fail.kind),
				zap.Error(fail.err),
				zap.String("request_id", requestID),
			)

			out.Results = append(out.Results, BatchEntry{Index: i, Error: fail.message(), Kind: fail.kind})
			out.Failed++
			continue
		}

		entrySpan.SetStatus(codes.Ok, "")
		entrySpan.End()

		logger.Info("batch entry solved",
			zap.Int("index", i),
			zap.String("path", resp.Path),
			zap.Float64("ph", resp.PH),
			zap.Float64("duration_ms", elapsed),
		)

		solved := resp
		out.Results = append(out.Results, BatchEntry{Index: i, Result: &solved})
		out.Succeeded++
	}

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("succeeded", out.Succeeded),
		attribute.Int("failed", out.Failed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch solve completed",
		zap.Int("entries", len(req.Solutions)),
		zap.Int("succeeded", out.Succeeded),
		zap.Int("failed", out.Failed),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, out)
}
