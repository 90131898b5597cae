package subscription

import "errors"

var (
	// ErrInvalidRecipient is returned when a dispatch pass encounters a nil
	// handler slot. This is a programming error on the subscribing side and
	// is surfaced to the Fire caller rather than swallowed.
	ErrInvalidRecipient = errors.New("invalid recipient: nil handler")

	// ErrUnexpectedEvent is returned by typed handlers when the fired event
	// is not of the handler's payload type.
	ErrUnexpectedEvent = errors.New("unexpected event type")
)
