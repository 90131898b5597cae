package subscription

import (
	"context"
	"fmt"
	"time"
)

// Decorator wraps a Handler to add cross-cutting functionality, in the same
// spirit as HTTP middleware.
type Decorator func(Handler) Handler

// Apply composes decorators around h. The first decorator in the list
// becomes the outermost wrapper and executes first.
//
// Example:
//
//	h := subscription.Apply(handler,
//	    func(next subscription.Handler) subscription.Handler {
//	        return subscription.NewHandler(next.Name(), func(ctx context.Context, event any) error {
//	            defer trace(time.Now())
//	            return next.Handle(ctx, event)
//	        })
//	    },
//	)
func Apply(h Handler, decorators ...Decorator) Handler {
	for i := len(decorators) - 1; i >= 0; i-- {
		h = decorators[i](h)
	}
	return h
}

// WithRetry wraps a handler to retry on error up to maxRetries additional
// attempts. Returns the last error if all attempts fail. Retries stop early
// when the context is cancelled.
func WithRetry(h Handler, maxRetries int) Handler {
	return NewHandler(h.Name(), func(ctx context.Context, event any) error {
		var lastErr error

		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			if lastErr = h.Handle(ctx, event); lastErr == nil {
				return nil
			}
		}

		return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
	})
}

// WithTimeout wraps a handler with a per-invocation deadline. The handler
// still runs in the caller's goroutine; the deadline is observable through
// the context it receives.
func WithTimeout(h Handler, timeout time.Duration) Handler {
	return NewHandler(h.Name(), func(ctx context.Context, event any) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return h.Handle(ctx, event)
	})
}
