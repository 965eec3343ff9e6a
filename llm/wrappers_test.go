package llm_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/BaSui01/clinicalflow/llm"
	"github.com/BaSui01/clinicalflow/testutil/mocks"
	"github.com/BaSui01/clinicalflow/types"
)

// =============================================================================
// 🚦 RateLimited
// =============================================================================

func TestRateLimited_DisabledReturnsNext(t *testing.T) {
	gen := mocks.NewScriptedGenerator()
	assert.Same(t, llm.Generator(gen), llm.RateLimited(gen, 0, 5))
	assert.Same(t, llm.Generator(gen), llm.RateLimited(gen, -1, 5))
}

func TestRateLimited_Delegates(t *testing.T) {
	gen := mocks.NewScriptedGenerator(mocks.Reply("{}")).WithName("gemini")
	limited := llm.RateLimited(gen, 1000, 0)

	assert.Equal(t, "gemini", limited.Name())
	text, err := limited.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "{}", text)
	assert.Equal(t, []string{"p"}, gen.Prompts())
}

func TestRateLimited_DeadlineBeforeTokenSkipsCall(t *testing.T) {
	gen := mocks.NewScriptedGenerator(mocks.Reply("{}"))
	limited := llm.RateLimited(gen, 0.001, 1)

	_, err := limited.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Generate(ctx, "second")

	f, ok := llm.AsGenerationFailure(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrUpstreamTimeout, f.Code)
	assert.Equal(t, 1, gen.Calls(), "the second call must not reach the service")
}

func TestRateLimited_CanceledWait(t *testing.T) {
	gen := mocks.NewScriptedGenerator(mocks.Reply("{}"))
	limited := llm.RateLimited(gen, 0.001, 1)
	_, _ = limited.Generate(context.Background(), "drain")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := limited.Generate(ctx, "x")

	f, ok := llm.AsGenerationFailure(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrCanceled, f.Code)
}

// =============================================================================
// 📊 Instrumented
// =============================================================================

type generationObs struct {
	provider string
	status   string
}

type fakeRecorder struct {
	mu  sync.Mutex
	obs []generationObs
}

func (r *fakeRecorder) RecordGeneration(provider, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.obs = append(r.obs, generationObs{provider, status})
}

// installSpanRecorder replaces the global tracer provider for one test.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestInstrumented_Success(t *testing.T) {
	spans := installSpanRecorder(t)
	rec := &fakeRecorder{}
	gen := mocks.NewScriptedGenerator(mocks.Reply(`{"ok":true}`))

	wrapped := llm.Instrumented(gen, rec, nil)
	assert.Equal(t, "mock", wrapped.Name())

	text, err := wrapped.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.Equal(t, []generationObs{{"mock", "ok"}}, rec.obs)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "llm.generate", ended[0].Name())
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
}

func TestInstrumented_Failure(t *testing.T) {
	spans := installSpanRecorder(t)
	rec := &fakeRecorder{}
	core, logs := observer.New(zapcore.WarnLevel)
	gen := mocks.NewScriptedGenerator(mocks.Fail(types.ErrRateLimited, "slow down"))

	_, err := llm.Instrumented(gen, rec, zap.New(core)).Generate(context.Background(), "prompt")
	require.Error(t, err)

	f, ok := llm.AsGenerationFailure(err)
	require.True(t, ok, "the original failure is returned unchanged")
	assert.Equal(t, types.ErrRateLimited, f.Code)

	assert.Equal(t, []generationObs{{"mock", string(types.ErrRateLimited)}}, rec.obs)
	assert.Equal(t, 1, logs.FilterMessage("generation call failed").Len())

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestInstrumented_NilRecorder(t *testing.T) {
	gen := mocks.NewScriptedGenerator(mocks.Reply("x"))
	text, err := llm.Instrumented(gen, nil, zap.NewNop()).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "x", text)
}
