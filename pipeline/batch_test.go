package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/clinicalflow/structured"
	"github.com/BaSui01/clinicalflow/testutil/fixtures"
	"github.com/BaSui01/clinicalflow/testutil/mocks"
)

// byInput answers according to the input text embedded in the prompt.
func byInput(t *testing.T, inFlight, peak *int32) mocks.FuncGenerator {
	t.Helper()
	return func(ctx context.Context, prompt string) (string, error) {
		n := atomic.AddInt32(inFlight, 1)
		defer atomic.AddInt32(inFlight, -1)
		for {
			p := atomic.LoadInt32(peak)
			if n <= p || atomic.CompareAndSwapInt32(peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		switch {
		case strings.Contains(prompt, "panic"):
			panic("generator exploded")
		case strings.Contains(prompt, "bad"):
			return fixtures.MalformedJSON, nil
		default:
			return fixtures.ValidJSON, nil
		}
	}
}

func TestRunBatch_OrderAndIsolation(t *testing.T) {
	var inFlight, peak int32
	m := New(byInput(t, &inFlight, &peak), structured.StaticPromptSource(testTemplate), WithRetryLimit(1))

	items := []Item{
		{Identifier: "a.txt", Text: "good"},
		{Identifier: "b.txt", Text: "bad"},
		{Identifier: "c.txt", Text: "panic"},
		{Identifier: "d.txt", Text: "good"},
	}
	results := m.RunBatch(context.Background(), items, 4)

	require.Len(t, results, len(items))
	for i, r := range results {
		assert.Equal(t, items[i].Identifier, r.Identifier)
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, 1, results[1].Attempts)
	assert.False(t, results[2].Success)
	require.Len(t, results[2].Errors, 1)
	assert.Contains(t, results[2].Errors[0], "internal error: generator exploded")
	assert.True(t, results[3].Success)
}

func TestRunBatch_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	m := New(byInput(t, &inFlight, &peak), structured.StaticPromptSource(testTemplate))

	items := make([]Item, 12)
	for i := range items {
		items[i] = Item{Identifier: fmt.Sprintf("%02d.txt", i), Text: "good"}
	}
	results := m.RunBatch(context.Background(), items, 3)

	require.Len(t, results, 12)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	for _, r := range results {
		assert.True(t, r.Success)
	}
}

func TestRunBatch_NonPositiveConcurrencyRunsSequentially(t *testing.T) {
	var inFlight, peak int32
	m := New(byInput(t, &inFlight, &peak), structured.StaticPromptSource(testTemplate))

	results := m.RunBatch(context.Background(), []Item{{Identifier: "a"}, {Identifier: "b"}}, 0)
	require.Len(t, results, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestRunBatch_Empty(t *testing.T) {
	m := New(mocks.NewScriptedGenerator(), nil)
	assert.Empty(t, m.RunBatch(context.Background(), nil, 2))
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Identifier: "a", Success: true},
		{Identifier: "b", Errors: []string{"x"}},
		{Identifier: "c", Success: true},
	}
	s := Summarize("v2", results)
	assert.Equal(t, "v2", s.PromptVersion)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.OK)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, results, s.Results)

	empty := Summarize("v0", nil)
	assert.NotNil(t, empty.Results)
	assert.Zero(t, empty.Total)
}

func TestResultFrom_NonTerminalIsFailure(t *testing.T) {
	r := ResultFrom(NewState(Item{Identifier: "x"}, "v2"))
	assert.False(t, r.Success)
	assert.Nil(t, r.Output)
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0], "idle")
}
