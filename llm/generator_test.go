package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/BaSui01/clinicalflow/types"
)

func TestGenerationFailure_Error(t *testing.T) {
	tests := []struct {
		name    string
		failure *GenerationFailure
		want    string
	}{
		{
			name:    "without provider",
			failure: NewGenerationFailure(types.ErrUpstreamError, "", "boom", nil),
			want:    "generation failed [UPSTREAM_ERROR]: boom",
		},
		{
			name:    "with provider",
			failure: NewGenerationFailure(types.ErrRateLimited, "gemini", "slow down", nil),
			want:    "generation failed (gemini) [RATE_LIMITED]: slow down",
		},
		{
			name:    "cause with distinct text",
			failure: NewGenerationFailure(types.ErrUpstreamError, "gemini", "send failed", errors.New("dial tcp")),
			want:    "generation failed (gemini) [UPSTREAM_ERROR]: send failed: dial tcp",
		},
		{
			name:    "cause repeating the message",
			failure: NewGenerationFailure(types.ErrUpstreamError, "gemini", "dial tcp", errors.New("dial tcp")),
			want:    "generation failed (gemini) [UPSTREAM_ERROR]: dial tcp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.failure.Error())
		})
	}
}

func TestGenerationFailure_Unwrap(t *testing.T) {
	cause := errors.New("root")
	f := NewGenerationFailure(types.ErrUpstreamError, "p", "msg", cause)
	assert.ErrorIs(t, f, cause)

	wrapped := fmt.Errorf("outer: %w", f)
	got, ok := AsGenerationFailure(wrapped)
	require.True(t, ok)
	assert.Same(t, f, got)

	_, ok = AsGenerationFailure(errors.New("plain"))
	assert.False(t, ok)
}

func TestGenerationFailure_AsTypesError(t *testing.T) {
	f := NewGenerationFailure(types.ErrQuotaExceeded, "gemini", "quota", nil)
	f.HTTPStatus = 429

	e := f.AsTypesError()
	assert.Equal(t, types.ErrQuotaExceeded, e.Code)
	assert.Equal(t, "gemini", e.Provider)
	assert.Equal(t, 429, e.HTTPStatus)
	assert.True(t, types.IsErrorCode(e, types.ErrQuotaExceeded))
}

func TestToGenerationFailure(t *testing.T) {
	assert.Nil(t, ToGenerationFailure(nil, "p"))

	existing := NewGenerationFailure(types.ErrContentFiltered, "gemini", "blocked", nil)
	assert.Same(t, existing, ToGenerationFailure(fmt.Errorf("wrap: %w", existing), "other"))

	canceled := ToGenerationFailure(context.Canceled, "p")
	assert.Equal(t, types.ErrCanceled, canceled.Code)
	assert.Equal(t, "p", canceled.Provider)

	timeout := ToGenerationFailure(fmt.Errorf("call: %w", context.DeadlineExceeded), "p")
	assert.Equal(t, types.ErrUpstreamTimeout, timeout.Code)

	other := ToGenerationFailure(errors.New("connection reset"), "p")
	assert.Equal(t, types.ErrUpstreamError, other.Code)
	assert.Equal(t, "connection reset", other.Message)
}

func TestCheckContext(t *testing.T) {
	require.NoError(t, CheckContext(context.Background(), "p"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := CheckContext(ctx, "p")
	f, ok := AsGenerationFailure(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrCanceled, f.Code)
}

// Property: normalization is idempotent and never loses the provider.
func TestProperty_ToGenerationFailureIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		msg := rapid.StringMatching(`[a-z ]{1,30}`).Draw(rt, "msg")
		provider := rapid.SampledFrom([]string{"gemini", "mock", ""}).Draw(rt, "provider")

		first := ToGenerationFailure(errors.New(msg), provider)
		second := ToGenerationFailure(first, "ignored")

		if first != second {
			rt.Fatalf("re-normalizing must return the same failure")
		}
		if first.Provider != provider {
			rt.Fatalf("provider = %q, want %q", first.Provider, provider)
		}
		if first.Code != types.ErrUpstreamError {
			rt.Fatalf("code = %s, want %s", first.Code, types.ErrUpstreamError)
		}
	})
}
