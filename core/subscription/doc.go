// Package subscription provides an ordered, synchronous publish/subscribe
// list for a single in-process event stream.
//
// A List holds anonymous handlers in subscription order. Fire delivers an
// event to every handler subscribed at the moment of the call, one after
// another, in that order. There is no buffering, no goroutines and no
// routing by event name: every handler sees every event.
//
// # Dispatch Semantics
//
// Fire snapshots the list before delivering, so subscribing or
// unsubscribing from inside a handler never affects the current pass. A
// handler that returns an error or panics is isolated: the failure is
// logged and collected, and delivery continues to the remaining handlers.
// Fire returns the collected failures joined together, which callers may
// inspect with errors.Is/errors.As or ignore.
//
// # Basic Usage
//
//	list := subscription.New()
//
//	sub := list.Subscribe(subscription.NewHandlerFunc(func(ctx context.Context, evt OrderPlaced) error {
//	    return sendConfirmation(ctx, evt)
//	}))
//	defer sub.Unsubscribe()
//
//	_ = list.Fire(ctx, OrderPlaced{ID: "123"})
//
// Handlers whose dynamic type is comparable (anything created by NewHandler
// or NewHandlerFunc, or pointer-typed custom handlers) can also be removed
// with List.Unsubscribe, which drops the earliest matching slot. The same
// handler may be subscribed any number of times; each subscription is an
// independent slot.
//
// For named, addressable recipients with unicast delivery and sender
// exclusion, see the channel package, which builds on the same ordered
// registry primitive.
package subscription
