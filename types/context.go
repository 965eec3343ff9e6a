package types

import "context"

// contextKey is used for storing values in context.Context.
type contextKey string

const (
	keyRunID         contextKey = "run_id"
	keyIdentifier    contextKey = "identifier"
	keyPromptVariant contextKey = "prompt_variant"
)

// WithRunID adds run ID to context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, keyRunID, runID)
}

// RunID extracts run ID from context.
func RunID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRunID).(string)
	return v, ok && v != ""
}

// WithIdentifier adds the item identifier to context.
func WithIdentifier(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyIdentifier, id)
}

// Identifier extracts the item identifier from context.
func Identifier(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyIdentifier).(string)
	return v, ok && v != ""
}

// WithPromptVariant adds prompt variant to context.
func WithPromptVariant(ctx context.Context, variant string) context.Context {
	return context.WithValue(ctx, keyPromptVariant, variant)
}

// PromptVariant extracts prompt variant from context.
func PromptVariant(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyPromptVariant).(string)
	return v, ok && v != ""
}
