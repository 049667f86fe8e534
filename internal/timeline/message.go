// Package timeline holds the ordered, append-only message log of the active
// conversation and fans every append out to its subscribers.
package timeline

import (
	"fmt"
	"time"
)

// Sender identifies who authored a message.
type Sender int

const (
	SenderSelf        Sender = iota // the local user
	SenderCounterpart               // the support agent on the other side
)

// String returns the display name for each sender.
func (s Sender) String() string {
	switch s {
	case SenderSelf:
		return "self"
	case SenderCounterpart:
		return "counterpart"
	default:
		return fmt.Sprintf("Sender(%d)", int(s))
	}
}

// Valid reports whether s is one of the declared senders.
func (s Sender) Valid() bool {
	return s == SenderSelf || s == SenderCounterpart
}

// Message is a single immutable timeline entry.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp time.Time // when the message was appended
}

// FromSelf reports whether the local user authored the message.
func (m Message) FromSelf() bool {
	return m.Sender == SenderSelf
}
