package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/clinicalflow/types"
)

// Recorder receives one observation per generation call.
type Recorder interface {
	RecordGeneration(provider, status string, duration time.Duration)
}

type instrumentedGenerator struct {
	next     Generator
	recorder Recorder
	tracer   trace.Tracer
	logger   *zap.Logger
}

// Instrumented wraps next with metrics, a tracing span and debug logging.
// A nil recorder skips metrics; a nil logger logs nothing.
func Instrumented(next Generator, recorder Recorder, logger *zap.Logger) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumentedGenerator{
		next:     next,
		recorder: recorder,
		tracer:   otel.Tracer("github.com/BaSui01/clinicalflow/llm"),
		logger:   logger.With(zap.String("component", "generator"), zap.String("provider", next.Name())),
	}
}

func (g *instrumentedGenerator) Name() string { return g.next.Name() }

func (g *instrumentedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "llm.generate",
		trace.WithAttributes(
			attribute.String("llm.provider", g.next.Name()),
			attribute.Int("llm.prompt_chars", len(prompt)),
		),
	)
	defer span.End()

	log := g.logger.With(contextFields(ctx)...)
	start := time.Now()
	text, err := g.next.Generate(ctx, prompt)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		f := ToGenerationFailure(err, g.next.Name())
		status = string(f.Code)
		span.RecordError(err)
		span.SetStatus(codes.Error, f.Message)
		log.Warn("generation call failed",
			zap.String("code", string(f.Code)),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
	} else {
		span.SetAttributes(attribute.Int("llm.response_chars", len(text)))
		log.Debug("generation call completed",
			zap.Int("prompt_chars", len(prompt)),
			zap.Int("response_chars", len(text)),
			zap.Duration("duration", elapsed),
		)
	}

	if g.recorder != nil {
		g.recorder.RecordGeneration(g.next.Name(), status, elapsed)
	}
	return text, err
}

// contextFields extracts the run correlation values carried by ctx.
func contextFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if v, ok := types.RunID(ctx); ok {
		fields = append(fields, zap.String("run_id", v))
	}
	if v, ok := types.Identifier(ctx); ok {
		fields = append(fields, zap.String("identifier", v))
	}
	if v, ok := types.PromptVariant(ctx); ok {
		fields = append(fields, zap.String("prompt_variant", v))
	}
	return fields
}
