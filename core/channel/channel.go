package channel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/relaykit/relay/core/registry"
	"github.com/relaykit/relay/pkg/logger"
)

// Channel is a mediator holding named, addressable participants. It
// supports addressed (unicast) delivery to one recipient and broadcast
// delivery to all registered participants except the sender.
//
// Channel is safe for concurrent use. A single mutex guards registry
// mutation and snapshot-taking; delivery runs on the snapshot without
// holding the lock, so recipients may register and unregister from inside
// Receive. Within one broadcast, delivery order is exactly registration
// order; across separate broadcasts no relative ordering is promised unless
// the caller serializes them.
type Channel struct {
	mu  sync.Mutex
	reg *registry.Ordered[string, Participant]

	logger *slog.Logger

	delivered atomic.Int64
	failed    atomic.Int64
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger configures structured logging for delivery failures.
// If not set, logging is disabled.
func WithLogger(log *slog.Logger) Option {
	return func(c *Channel) {
		if log != nil {
			c.logger = log
		}
	}
}

// New creates an empty channel.
func New(opts ...Option) *Channel {
	c := &Channel{
		reg:    registry.New[string, Participant](),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register adds p to the channel, keyed by its identity. Registering an
// identity that is already present replaces the prior participant in place:
// the old entry is evicted and the newcomer inherits its ordering position.
// This is intentional overwrite semantics, not an error. Identity format is
// not validated. A nil participant is ignored.
func (c *Channel) Register(p Participant) {
	if p == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.Set(p.Identity(), p)
}

// Unregister removes the participant registered under identity.
// Unregistering an absent identity is a no-op, never an error.
func (c *Channel) Unregister(identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg.Delete(identity)
}

// Participants returns the registered identities in registration order.
func (c *Channel) Participants() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return lo.Map(c.reg.Snapshot(), func(e registry.Entry[string, Participant], _ int) string {
		return e.Key
	})
}

// Len returns the number of registered participants.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.Len()
}

// Send delivers payload to exactly one recipient by direct reference. The
// registry is never consulted: to does not need to be registered with this
// channel, and sending to a stale or never-registered reference is the
// caller's responsibility. from may be nil, in which case the message
// carries no sender reference.
//
// A nil to is ErrInvalidRecipient. A delivery error propagates to the
// caller.
func (c *Channel) Send(ctx context.Context, payload any, from Participant, to Recipient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == nil {
		return fmt.Errorf("%w: nil unicast target", ErrInvalidRecipient)
	}

	msg := NewMessage(from, payload)

	if err := to.Receive(ctx, msg); err != nil {
		c.failed.Add(1)
		c.logger.ErrorContext(ctx, "unicast delivery failed",
			slog.String("from", msg.Sender()),
			logger.ID("message_id", msg.ID),
			logger.Error(err))
		return fmt.Errorf("deliver message %s: %w", msg.ID, err)
	}

	c.delivered.Add(1)
	return nil
}

// Broadcast delivers payload to every registered participant except the
// sender, in registration order, against a snapshot taken when Broadcast is
// called. The sender is excluded by identity comparison, not reference
// comparison, so from itself does not need to be registered (or may be
// registered under a different reference with the same identity); the
// broadcast never re-enters it.
//
// A nil from is ErrInvalidRecipient, since sender exclusion needs an
// identity. A delivery error stops the pass and propagates to the caller.
func (c *Channel) Broadcast(ctx context.Context, payload any, from Participant) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from == nil {
		return fmt.Errorf("%w: nil sender", ErrInvalidRecipient)
	}

	c.mu.Lock()
	snapshot := c.reg.Snapshot()
	c.mu.Unlock()

	sender := from.Identity()
	msg := NewMessage(from, payload)

	for _, e := range snapshot {
		if e.Key == sender {
			continue
		}
		if e.Value == nil {
			return fmt.Errorf("%w: participant %q", ErrInvalidRecipient, e.Key)
		}

		if err := e.Value.Receive(ctx, msg); err != nil {
			c.failed.Add(1)
			c.logger.ErrorContext(ctx, "broadcast delivery failed",
				slog.String("from", sender),
				slog.String("to", e.Key),
				logger.ID("message_id", msg.ID),
				logger.Error(err))
			return fmt.Errorf("deliver message %s to %s: %w", msg.ID, e.Key, err)
		}

		c.delivered.Add(1)
	}

	return nil
}

// Stats reports delivery counters for observability.
type Stats struct {
	Delivered int64
	Failed    int64
}

// Stats returns current delivery counters.
func (c *Channel) Stats() Stats {
	return Stats{
		Delivered: c.delivered.Load(),
		Failed:    c.failed.Load(),
	}
}
