package channel

import (
	"time"

	"github.com/google/uuid"
)

// Message is the immutable envelope delivered to recipients. It carries the
// application payload plus a reference to the sender, which recipients may
// use as a unicast target to reply. The channel never retains a message
// after delivery; there is no buffering or queuing.
type Message struct {
	ID        string      // Unique identifier for the message
	From      Participant // Sender reference; may be nil for unicast sends
	Payload   any         // Application payload, opaque to the channel
	CreatedAt time.Time   // When the message was created
}

// Sender returns the sender's identity, or "" when the message has no
// sender reference.
func (m Message) Sender() string {
	if m.From == nil {
		return ""
	}
	return m.From.Identity()
}

// NewMessage creates a message envelope with an auto-generated ID and
// timestamp.
func NewMessage(from Participant, payload any) Message {
	return Message{
		ID:        uuid.New().String(),
		From:      from,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
