package translation

import (
	"context"
	"testing"
	"time"

	"codeberg.org/snonux/nbtranslate/internal/testutil"
)

func TestRateLimitedTranslator(t *testing.T) {
	mock := &testutil.MockTranslator{}
	tr := NewRateLimitedTranslator(mock, 1000)

	for i := 0; i < 3; i++ {
		if _, err := tr.Translate(context.Background(), "a"); err != nil {
			t.Fatalf("Translate failed: %v", err)
		}
	}
	if mock.CallCount() != 3 {
		t.Errorf("Expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRateLimitedTranslator_Cancelled(t *testing.T) {
	mock := &testutil.MockTranslator{}
	tr := NewRateLimitedTranslator(mock, 0.001)

	// The first token is available immediately, the second is far away
	if _, err := tr.Translate(context.Background(), "a"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := tr.Translate(ctx, "b"); err == nil {
		t.Error("Expected rate limiter to give up on cancelled context")
	}
	if mock.CallCount() != 1 {
		t.Errorf("Expected 1 call, got %d", mock.CallCount())
	}
}
