package subscription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/relaykit/relay/core/registry"
	"github.com/relaykit/relay/pkg/logger"
)

// List is an ordered collection of handlers interested in a single untyped
// event stream. Handlers are invoked synchronously, in subscription order,
// against a snapshot taken when Fire is called.
//
// List is safe for concurrent use. A single mutex guards registry mutation
// and snapshot-taking; the dispatch loop runs on the snapshot without
// holding the lock, so handlers may subscribe and unsubscribe freely from
// inside their own invocation. Such mutations affect later passes only.
//
// Example:
//
//	list := subscription.New(subscription.WithLogger(log))
//	sub := list.Subscribe(subscription.NewHandler("audit", auditFn))
//	defer sub.Unsubscribe()
//
//	if err := list.Fire(ctx, OrderPlaced{ID: "123"}); err != nil {
//	    log.Warn("some handlers failed", logger.Error(err))
//	}
type List struct {
	mu  sync.Mutex
	seq uint64
	reg *registry.Ordered[uint64, Handler]

	logger *slog.Logger

	fired    atomic.Int64
	failures atomic.Int64
}

// Option configures a List.
type Option func(*List)

// WithLogger configures structured logging for handler failures.
// If not set, logging is disabled.
func WithLogger(log *slog.Logger) Option {
	return func(l *List) {
		if log != nil {
			l.logger = log
		}
	}
}

// New creates an empty subscription list.
func New(opts ...Option) *List {
	l := &List{
		reg:    registry.New[uint64, Handler](),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Subscribe appends h to the list. Duplicate handler values are permitted
// and create independent slots. The returned Subscription removes exactly
// this slot; it is the reliable way to unsubscribe handlers whose values
// are not comparable.
func (l *List) Subscribe(h Handler) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.reg.Set(l.seq, h)

	return &Subscription{list: l, token: l.seq}
}

// Unsubscribe removes the first (earliest-subscribed) slot holding a value
// equal to h. Unsubscribing an absent or nil handler is a no-op.
func (l *List) Unsubscribe(h Handler) {
	if h == nil || !reflect.TypeOf(h).Comparable() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.reg.Snapshot() {
		if e.Value == h {
			l.reg.Delete(e.Key)
			return
		}
	}
}

// Len returns the number of subscribed slots.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.Len()
}

// Fire delivers event to every handler subscribed at the moment of the
// call, strictly in subscription order. A failing handler (error return or
// panic) never prevents delivery to the handlers after it; failures are
// logged and returned aggregated via errors.Join so the caller can inspect
// them. A nil handler slot is a programming error and aborts the pass with
// ErrInvalidRecipient.
func (l *List) Fire(ctx context.Context, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	snapshot := l.reg.Snapshot()
	l.mu.Unlock()

	l.fired.Add(1)

	var errs []error
	for _, e := range snapshot {
		if e.Value == nil {
			return ErrInvalidRecipient
		}

		if err := safeHandle(ctx, e.Value, event); err != nil {
			l.failures.Add(1)
			l.logger.ErrorContext(ctx, "event handler failed",
				slog.String("handler", e.Value.Name()),
				logger.ID("slot", e.Key),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("handler %s: %w", e.Value.Name(), err))
		}
	}

	return errors.Join(errs...)
}

// Stats reports dispatch counters for observability.
type Stats struct {
	Fired           int64
	HandlerFailures int64
}

// Stats returns current dispatch counters.
func (l *List) Stats() Stats {
	return Stats{
		Fired:           l.fired.Load(),
		HandlerFailures: l.failures.Load(),
	}
}

// safeHandle invokes the handler, converting panics into errors so one
// misbehaving handler cannot tear down the pass.
func safeHandle(ctx context.Context, h Handler, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, event)
}

// Subscription is a handle to one subscribed slot.
type Subscription struct {
	list  *List
	token uint64
	once  sync.Once
}

// Unsubscribe removes the slot this subscription refers to. Safe to call
// multiple times; calls after the first are no-ops.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.list.mu.Lock()
		defer s.list.mu.Unlock()
		s.list.reg.Delete(s.token)
	})
}
