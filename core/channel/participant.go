package channel

import "context"

// Recipient is the capability exposed by anything that can receive a
// message. A recipient has no knowledge of the channel that delivers to it.
type Recipient interface {
	Receive(ctx context.Context, msg Message) error
}

// Participant is a Recipient with a stable, externally chosen identity.
// Identity is immutable after registration; the channel holds a non-owning
// reference to the participant, not a copy.
type Participant interface {
	Recipient

	// Identity returns the key this participant is registered under.
	Identity() string
}

// ReceiveFunc adapts a function to the Recipient capability.
type ReceiveFunc func(ctx context.Context, msg Message) error

// Receive implements Recipient.
func (f ReceiveFunc) Receive(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// NewParticipant wraps an identity and a receive function as a Participant.
// The function may be nil for send-only participants, which discard anything
// delivered to them.
func NewParticipant(identity string, fn ReceiveFunc) Participant {
	return &participantFunc{identity: identity, fn: fn}
}

type participantFunc struct {
	identity string
	fn       ReceiveFunc
}

func (p *participantFunc) Identity() string { return p.identity }

func (p *participantFunc) Receive(ctx context.Context, msg Message) error {
	if p.fn == nil {
		return nil
	}
	return p.fn(ctx, msg)
}
