// ScriptedGenerator is a test double for llm.Generator.
//
// Each call consumes the next scripted step; calls past the end of the
// script repeat the last step.
package mocks

import (
	"context"
	"sync"

	"github.com/BaSui01/clinicalflow/llm"
	"github.com/BaSui01/clinicalflow/types"
)

// Step is one scripted outcome: a response text or a failure.
type Step struct {
	Text string
	Err  error
}

// Reply scripts a successful response.
func Reply(text string) Step { return Step{Text: text} }

// Fail scripts a transport failure with the given code.
func Fail(code types.ErrorCode, message string) Step {
	return Step{Err: llm.NewGenerationFailure(code, "mock", message, nil)}
}

// ScriptedGenerator replays a fixed script of outcomes.
type ScriptedGenerator struct {
	mu      sync.Mutex
	name    string
	steps   []Step
	prompts []string
	hook    func(ctx context.Context, call int)
}

// NewScriptedGenerator creates a generator replaying steps in order.
func NewScriptedGenerator(steps ...Step) *ScriptedGenerator {
	return &ScriptedGenerator{name: "mock", steps: steps}
}

// WithName sets the provider name reported by Name.
func (g *ScriptedGenerator) WithName(name string) *ScriptedGenerator {
	g.name = name
	return g
}

// WithHook runs fn at the start of every call, before the step is consumed.
func (g *ScriptedGenerator) WithHook(fn func(ctx context.Context, call int)) *ScriptedGenerator {
	g.hook = fn
	return g
}

// Name implements llm.Generator.
func (g *ScriptedGenerator) Name() string { return g.name }

// Generate implements llm.Generator.
func (g *ScriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	call := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	hook := g.hook
	g.mu.Unlock()

	if hook != nil {
		hook(ctx, call)
	}
	if err := llm.CheckContext(ctx, g.name); err != nil {
		return "", err
	}
	if len(g.steps) == 0 {
		return "", nil
	}
	idx := call
	if idx >= len(g.steps) {
		idx = len(g.steps) - 1
	}
	s := g.steps[idx]
	return s.Text, s.Err
}

// Calls returns the number of Generate invocations.
func (g *ScriptedGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// Prompts returns a copy of every prompt received, in order.
func (g *ScriptedGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.prompts))
	copy(out, g.prompts)
	return out
}

// FuncGenerator adapts a function to llm.Generator.
type FuncGenerator func(ctx context.Context, prompt string) (string, error)

// Name implements llm.Generator.
func (f FuncGenerator) Name() string { return "func" }

// Generate implements llm.Generator.
func (f FuncGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
