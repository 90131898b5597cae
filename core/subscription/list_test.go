package subscription_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relay/core/subscription"
)

// recorder collects the events a handler sees, in order.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *recorder) handler(name string) subscription.Handler {
	return subscription.NewHandler(name, func(_ context.Context, event any) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, event)
		return nil
	})
}

func (r *recorder) seen() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.events...)
}

func TestList_Subscribe(t *testing.T) {
	t.Parallel()

	t.Run("subscribe then fire invokes handler exactly once", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		list.Subscribe(rec.handler("h"))

		require.NoError(t, list.Fire(context.Background(), "e1"))
		assert.Equal(t, []any{"e1"}, rec.seen())
	})

	t.Run("duplicate handler values occupy independent slots", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		h := rec.handler("dup")

		list.Subscribe(h)
		list.Subscribe(h)
		assert.Equal(t, 2, list.Len())

		require.NoError(t, list.Fire(context.Background(), "e"))
		assert.Equal(t, []any{"e", "e"}, rec.seen())
	})
}

func TestList_Unsubscribe(t *testing.T) {
	t.Parallel()

	t.Run("unsubscribed handler is not invoked", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		h := rec.handler("h")

		list.Subscribe(h)
		list.Unsubscribe(h)

		require.NoError(t, list.Fire(context.Background(), "e"))
		assert.Empty(t, rec.seen())
		assert.Zero(t, list.Len())
	})

	t.Run("removes only the earliest slot of a duplicate", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		h := rec.handler("dup")

		list.Subscribe(h)
		list.Subscribe(h)
		list.Unsubscribe(h)

		require.NoError(t, list.Fire(context.Background(), "e"))
		assert.Equal(t, []any{"e"}, rec.seen())
	})

	t.Run("absent handler is a no-op", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		list.Subscribe(rec.handler("kept"))

		list.Unsubscribe(rec.handler("never subscribed"))
		list.Unsubscribe(nil)

		assert.Equal(t, 1, list.Len())
	})

	t.Run("subscription handle removes its own slot", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		h := rec.handler("dup")

		list.Subscribe(h)
		sub := list.Subscribe(h)

		sub.Unsubscribe()
		sub.Unsubscribe() // second call is a no-op

		require.NoError(t, list.Fire(context.Background(), "e"))
		assert.Equal(t, []any{"e"}, rec.seen())
	})
}

func TestList_Fire(t *testing.T) {
	t.Parallel()

	t.Run("invokes handlers in subscription order", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()

		var mu sync.Mutex
		var order []string
		add := func(name string) subscription.Handler {
			return subscription.NewHandler(name, func(context.Context, any) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		list.Subscribe(add("first"))
		list.Subscribe(add("second"))
		list.Subscribe(add("third"))

		require.NoError(t, list.Fire(context.Background(), "e"))
		assert.Equal(t, []string{"first", "second", "third"}, order)
	})

	t.Run("resubscribe scenario", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		h := rec.handler("f")

		list.Subscribe(h)
		require.NoError(t, list.Fire(context.Background(), "e1"))

		list.Unsubscribe(h)
		require.NoError(t, list.Fire(context.Background(), "e2"))

		list.Subscribe(h)
		require.NoError(t, list.Fire(context.Background(), "e3"))

		assert.Equal(t, []any{"e1", "e3"}, rec.seen())
	})

	t.Run("handler failure does not abort the pass", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		boom := errors.New("boom")

		list.Subscribe(subscription.NewHandler("failing", func(context.Context, any) error {
			return boom
		}))
		list.Subscribe(rec.handler("after"))

		err := list.Fire(context.Background(), "e")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []any{"e"}, rec.seen())
	})

	t.Run("handler panic is isolated", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}

		list.Subscribe(subscription.NewHandler("panicking", func(context.Context, any) error {
			panic("kaboom")
		}))
		list.Subscribe(rec.handler("after"))

		err := list.Fire(context.Background(), "e")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panicked")
		assert.Equal(t, []any{"e"}, rec.seen())
	})

	t.Run("nil handler slot is an invalid recipient", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		list.Subscribe(nil)

		err := list.Fire(context.Background(), "e")
		assert.ErrorIs(t, err, subscription.ErrInvalidRecipient)
	})

	t.Run("self-unsubscribe does not affect the current pass", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}

		var sub *subscription.Subscription
		sub = list.Subscribe(subscription.NewHandler("quitter", func(context.Context, any) error {
			sub.Unsubscribe()
			return nil
		}))
		list.Subscribe(rec.handler("after"))

		require.NoError(t, list.Fire(context.Background(), "e1"))
		assert.Equal(t, []any{"e1"}, rec.seen())
		assert.Equal(t, 1, list.Len())

		// The quitter is gone for the next pass.
		require.NoError(t, list.Fire(context.Background(), "e2"))
		assert.Equal(t, []any{"e1", "e2"}, rec.seen())
	})

	t.Run("subscribe during fire joins the next pass only", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}

		list.Subscribe(subscription.NewHandler("recruiter", func(context.Context, any) error {
			list.Subscribe(rec.handler("latecomer"))
			return nil
		}))

		require.NoError(t, list.Fire(context.Background(), "e1"))
		assert.Empty(t, rec.seen())

		require.NoError(t, list.Fire(context.Background(), "e2"))
		assert.Equal(t, []any{"e2"}, rec.seen())
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		t.Parallel()

		list := subscription.New()
		rec := &recorder{}
		list.Subscribe(rec.handler("h"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := list.Fire(ctx, "e")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, rec.seen())
	})
}

func TestList_Stats(t *testing.T) {
	t.Parallel()

	list := subscription.New()
	list.Subscribe(subscription.NewHandler("failing", func(context.Context, any) error {
		return errors.New("nope")
	}))

	_ = list.Fire(context.Background(), "e1")
	_ = list.Fire(context.Background(), "e2")

	stats := list.Stats()
	assert.Equal(t, int64(2), stats.Fired)
	assert.Equal(t, int64(2), stats.HandlerFailures)
}

func TestList_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	list := subscription.New()
	rec := &recorder{}

	var wg sync.WaitGroup
	for n := 0; n < 10; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := list.Subscribe(rec.handler("h"))
			sub.Unsubscribe()
		}()
		go func() {
			defer wg.Done()
			_ = list.Fire(context.Background(), "e")
		}()
	}
	wg.Wait()
}
