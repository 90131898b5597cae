package channel

import "errors"

var (
	// ErrInvalidRecipient is returned when delivery targets a nil recipient:
	// a nil unicast target, a nil participant stored in the registry, or a
	// nil sender on broadcast. This is a programming error and is surfaced
	// synchronously to the Send/Broadcast caller.
	ErrInvalidRecipient = errors.New("invalid recipient")
)
