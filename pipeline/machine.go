package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/clinicalflow/llm"
	"github.com/BaSui01/clinicalflow/structured"
	"github.com/BaSui01/clinicalflow/types"
)

// DefaultRetryLimit bounds correction attempts per item.
const DefaultRetryLimit = 3

// Observer receives per-run measurements. *metrics.Collector satisfies it.
type Observer interface {
	RecordRun(outcome string, attempts int, duration time.Duration)
	RecordValidationError(kind string)
}

// Option configures a Machine.
type Option func(*Machine)

// WithRetryLimit sets the maximum number of correction attempts.
// Negative values are ignored.
func WithRetryLimit(n int) Option {
	return func(m *Machine) {
		if n >= 0 {
			m.retryLimit = n
		}
	}
}

// WithVariant selects the prompt variant used for the initial prompt.
func WithVariant(variant string) Option {
	return func(m *Machine) {
		if variant != "" {
			m.variant = variant
		}
	}
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(m *Machine) { m.observer = o }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(m *Machine) {
		if t != nil {
			m.tracer = t
		}
	}
}

// Machine runs the generate, validate and correct loop for one item at a
// time. It holds no per-item state and is safe for concurrent use.
type Machine struct {
	gen        llm.Generator
	prompts    structured.PromptSource
	variant    string
	retryLimit int
	observer   Observer
	tracer     trace.Tracer
	logger     *zap.Logger
}

// New creates a Machine. A nil prompt source uses the fallback template.
func New(gen llm.Generator, prompts structured.PromptSource, opts ...Option) *Machine {
	if prompts == nil {
		prompts = structured.StaticPromptSource("")
	}
	m := &Machine{
		gen:        gen,
		prompts:    prompts,
		variant:    structured.DefaultVariant,
		retryLimit: DefaultRetryLimit,
		tracer:     otel.Tracer("github.com/BaSui01/clinicalflow/pipeline"),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(zap.String("component", "pipeline"))
	return m
}

// RetryLimit returns the configured correction bound.
func (m *Machine) RetryLimit() int { return m.retryLimit }

// Variant returns the prompt variant in use.
func (m *Machine) Variant() string { return m.variant }

// Run processes item to a terminal Result. It never returns an error or
// panics; every failure is folded into the Result.
func (m *Machine) Run(ctx context.Context, item Item) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			m.logger.Error("pipeline panicked",
				zap.String("identifier", item.Identifier),
				zap.Any("panic", p),
			)
			r = failureResult(item.Identifier, fmt.Sprintf("internal error: %v", p))
		}
	}()
	return ResultFrom(m.Execute(ctx, item))
}

// Execute drives item from Idle to a terminal state and returns that state.
func (m *Machine) Execute(ctx context.Context, item Item) State {
	ctx, span := m.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("pipeline.identifier", item.Identifier),
			attribute.String("pipeline.variant", m.variant),
			attribute.Int("pipeline.retry_limit", m.retryLimit),
		),
	)
	defer span.End()

	ctx = types.WithPromptVariant(types.WithIdentifier(ctx, item.Identifier), m.variant)
	log := m.logger.With(zap.String("identifier", item.Identifier))
	if runID, ok := types.RunID(ctx); ok {
		log = log.With(zap.String("run_id", runID))
		span.SetAttributes(attribute.String("pipeline.run_id", runID))
	}
	log.Info("pipeline started", zap.String("variant", m.variant), zap.Int("input_chars", len(item.Text)))
	start := time.Now()

	s := NewState(item, m.variant)
	for !s.Phase.Terminal() {
		s = m.Step(ctx, s)
	}
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("pipeline.outcome", string(s.Phase)),
		attribute.Int("pipeline.attempts", s.AttemptCount),
	)
	if s.Phase == PhaseSuccess {
		log.Info("pipeline succeeded", zap.Int("attempts", s.AttemptCount), zap.Duration("duration", elapsed))
	} else {
		span.SetStatus(codes.Error, "exhausted")
		log.Warn("pipeline exhausted",
			zap.Int("attempts", s.AttemptCount),
			zap.Strings("errors", s.Errors),
			zap.Duration("duration", elapsed),
		)
	}
	if m.observer != nil {
		m.observer.RecordRun(string(s.Phase), s.AttemptCount, elapsed)
	}
	return s
}

// Step performs exactly one transition. Terminal states are returned as is.
// Cancellation is observed before every generation call.
func (m *Machine) Step(ctx context.Context, s State) State {
	switch s.Phase {
	case PhaseIdle:
		if err := ctx.Err(); err != nil {
			return s.failed("run canceled: " + err.Error())
		}
		template := m.prompts.Template(s.Variant)
		return s.generate(structured.Render(template, s.InputText))

	case PhaseGenerating:
		if err := ctx.Err(); err != nil {
			return s.failed("run canceled: " + err.Error())
		}
		raw, err := m.gen.Generate(ctx, s.Prompt)
		if err != nil {
			return s.failed(llm.ToGenerationFailure(err, m.gen.Name()).Error())
		}
		return s.received(raw)

	case PhaseCorrecting:
		if err := ctx.Err(); err != nil {
			return s.failed("run canceled: " + err.Error())
		}
		m.logger.Debug("requesting correction",
			zap.String("identifier", s.Identifier),
			zap.Int("attempt", s.AttemptCount),
			zap.Int("errors", len(s.Errors)),
		)
		raw, err := m.gen.Generate(ctx, s.Prompt)
		if err != nil {
			return s.failed("correction failed: " + llm.ToGenerationFailure(err, m.gen.Name()).Error())
		}
		return s.received(raw)

	case PhaseValidating:
		out, violations := structured.Validate(structured.Normalize(deref(s.RawResponse)))
		if len(violations) == 0 {
			return s.succeeded(out)
		}
		m.logger.Warn("validation failed",
			zap.String("identifier", s.Identifier),
			zap.Int("attempt", s.AttemptCount),
			zap.Int("errors", len(violations)),
		)
		if m.observer != nil {
			for _, kind := range violations.Kinds() {
				m.observer.RecordValidationError(string(kind))
			}
		}
		return s.rejected(violations, m.retryLimit)
	}
	return s
}
