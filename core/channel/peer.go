package channel

import "context"

// Peer is a convenience participant carrying a back-link to its channel, so
// chat-style code can send without holding the channel explicitly. The core
// never requires this back-link; plain Participant implementations work
// equally well with Channel.Send and Channel.Broadcast.
type Peer struct {
	identity string
	ch       *Channel
	fn       ReceiveFunc
}

// Join registers a new peer under identity and returns it. The receive
// function may be nil for send-only peers.
//
// Example:
//
//	room := channel.New()
//	alice := room.Join("alice", printMessage)
//	bob := room.Join("bob", printMessage)
//
//	_ = alice.Send(ctx, "hello everyone") // bob receives, alice does not
//	_ = bob.SendTo(ctx, "hi alice", alice)
func (c *Channel) Join(identity string, fn ReceiveFunc) *Peer {
	p := &Peer{identity: identity, ch: c, fn: fn}
	c.Register(p)
	return p
}

// Identity implements Participant.
func (p *Peer) Identity() string { return p.identity }

// Receive implements Recipient. Peers without a receive function discard
// incoming messages.
func (p *Peer) Receive(ctx context.Context, msg Message) error {
	if p.fn == nil {
		return nil
	}
	return p.fn(ctx, msg)
}

// Send broadcasts payload to every other participant on the peer's channel.
func (p *Peer) Send(ctx context.Context, payload any) error {
	return p.ch.Broadcast(ctx, payload, p)
}

// SendTo delivers payload to exactly one recipient by direct reference.
func (p *Peer) SendTo(ctx context.Context, payload any, to Recipient) error {
	return p.ch.Send(ctx, payload, p, to)
}

// Leave unregisters the peer from its channel. The peer may Join again or
// keep using SendTo; only broadcast membership is affected.
func (p *Peer) Leave() {
	p.ch.Unregister(p.identity)
}
