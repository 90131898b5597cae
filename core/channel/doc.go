// Package channel provides a mediator-style message channel: an ordered
// set of named participants with addressed (unicast) and broadcast
// delivery.
//
// # Model
//
// A Participant is any value with a stable identity and a Receive method.
// The channel keys participants by identity; registering an identity twice
// replaces the earlier participant in place, silently, keeping its ordering
// position. Delivery is synchronous and in-process: there is no queuing, no
// delivery guarantees across restarts, and no transport.
//
// Unicast (Send) delivers by direct reference and never consults the
// registry — the target does not need to be registered. Broadcast delivers
// to a snapshot of the registry in registration order, excluding the entry
// whose identity equals the sender's; a broadcast never re-enters the
// sender. Unlike the subscription package's Fire, delivery errors here
// propagate to the sender immediately.
//
// # Usage
//
//	room := channel.New(channel.WithLogger(log))
//
//	yoko := room.Join("Yoko", func(ctx context.Context, msg channel.Message) error {
//	    fmt.Printf("to Yoko from %s: %v\n", msg.Sender(), msg.Payload)
//	    return nil
//	})
//	john := room.Join("John", printMessage)
//	room.Join("Paul", printMessage)
//	room.Join("Ringo", printMessage)
//
//	_ = yoko.Send(ctx, "hi")           // John, Paul, Ringo — in that order
//	_ = john.SendTo(ctx, "hey", yoko)  // only Yoko
//
// Peer is a convenience and entirely optional; any Participant value works
// with Channel.Register, Channel.Send and Channel.Broadcast directly.
package channel
