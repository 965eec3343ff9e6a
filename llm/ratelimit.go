package llm

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedGenerator struct {
	next    Generator
	limiter *rate.Limiter
}

// RateLimited wraps next with a token-bucket limiter shared by every caller
// of the returned Generator. A non-positive rps disables limiting.
func RateLimited(next Generator, rps float64, burst int) Generator {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimitedGenerator{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (g *rateLimitedGenerator) Name() string { return g.next.Name() }

// Generate waits for a token before delegating. A wait aborted by the
// context is reported as a failure without issuing the call.
func (g *rateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ToGenerationFailure(ctxErr, g.next.Name())
		}
		// Wait also fails when the deadline is closer than the next token.
		return "", ToGenerationFailure(context.DeadlineExceeded, g.next.Name())
	}
	return g.next.Generate(ctx, prompt)
}
