package testutil

import (
	"context"
	"testing"
	"time"
)

const (
	// DefaultExchangeTimeout bounds a single test exchange against a local
	// httptest server.
	DefaultExchangeTimeout = 10 * time.Second

	// DefaultTestBuffer is subtracted from the test deadline so cleanup can
	// run before the test binary times out.
	DefaultTestBuffer = 2 * time.Second
)

// ContextWithTestDeadline creates a context that ends shortly before the
// test's own deadline. If the test has no deadline, fallback is used.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    ctx, cancel := testutil.ContextWithTestDeadline(t, time.Minute)
//	    defer cancel()
//	    // ... test code using ctx
//	}
func ContextWithTestDeadline(t *testing.T, fallback time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()

	if deadline, ok := t.Deadline(); ok {
		adjusted := deadline.Add(-DefaultTestBuffer)
		if time.Until(adjusted) > 0 {
			return context.WithDeadline(context.Background(), adjusted)
		}
	}

	return context.WithTimeout(context.Background(), fallback)
}

// ExchangeContext returns a context suitable for one exchange in a test.
func ExchangeContext(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return ContextWithTestDeadline(t, DefaultExchangeTimeout)
}
