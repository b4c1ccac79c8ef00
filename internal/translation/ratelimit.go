package translation

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedTranslator waits for a token before each request
type RateLimitedTranslator struct {
	next    Translator
	limiter *rate.Limiter
}

// NewRateLimitedTranslator allows rps requests per second with a burst of one
func NewRateLimitedTranslator(next Translator, rps float64) *RateLimitedTranslator {
	return &RateLimitedTranslator{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Translate blocks until the limiter admits the request
func (t *RateLimitedTranslator) Translate(ctx context.Context, text string) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return t.next.Translate(ctx, text)
}

// Name returns the wrapped provider name
func (t *RateLimitedTranslator) Name() string {
	return t.next.Name()
}
