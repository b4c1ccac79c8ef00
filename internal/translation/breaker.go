package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/nbtranslate/internal/logger"
)

// BreakerTranslator stops calling a provider after repeated failures. Within
// one notebook the first failure already aborts the run; across a batch the
// open breaker makes the remaining notebooks fail fast.
type BreakerTranslator struct {
	next    Translator
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerTranslator trips after maxFailures consecutive failures and
// probes the provider again after cooldown.
func NewBreakerTranslator(next Translator, maxFailures uint32, cooldown time.Duration) *BreakerTranslator {
	if maxFailures == 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider %s circuit %s -> %s", name, from, to)
		},
	}

	return &BreakerTranslator{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Translate calls the wrapped translator unless the circuit is open
func (t *BreakerTranslator) Translate(ctx context.Context, text string) (string, error) {
	out, err := t.breaker.Execute(func() (interface{}, error) {
		return t.next.Translate(ctx, text)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return "", fmt.Errorf("provider %s unavailable: %w", t.next.Name(), err)
		}
		return "", err
	}
	return out.(string), nil
}

// Name returns the wrapped provider name
func (t *BreakerTranslator) Name() string {
	return t.next.Name()
}

// State returns the circuit state
func (t *BreakerTranslator) State() gobreaker.State {
	return t.breaker.State()
}
