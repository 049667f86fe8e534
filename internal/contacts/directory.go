// Package contacts is the read-only directory of counterparts shown in the
// chat sidebar and header. It never influences where messages go: every
// message belongs to the single active conversation.
package contacts

import "strings"

// Presence is a contact's availability. Values outside the declared set are
// tolerated and rendered as offline.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceOffline Presence = "offline"
	PresenceBusy    Presence = "busy"
)

// ParsePresence normalizes s. Unknown values are kept verbatim rather than
// rejected.
func ParsePresence(s string) Presence {
	return Presence(strings.ToLower(strings.TrimSpace(s)))
}

// Label is the human readable status shown under a contact's name.
func (p Presence) Label() string {
	switch p {
	case PresenceOnline:
		return "Online"
	case PresenceBusy:
		return "Busy"
	default:
		return "Offline"
	}
}

// ColorToken is an abstract colour name resolved by the UI theme.
type ColorToken string

const (
	TokenOnline  ColorToken = "presence.online"
	TokenBusy    ColorToken = "presence.busy"
	TokenOffline ColorToken = "presence.offline"
)

// PresenceColor maps a presence to its colour token. It is total: anything
// unrecognized maps to TokenOffline.
func PresenceColor(p Presence) ColorToken {
	switch p {
	case PresenceOnline:
		return TokenOnline
	case PresenceBusy:
		return TokenBusy
	default:
		return TokenOffline
	}
}

// Contact is one counterpart identity.
type Contact struct {
	ID                 string
	DisplayName        string
	Presence           Presence
	LastMessagePreview string
}

// Initials returns up to two upper-case initials, used as the avatar fallback.
func (c Contact) Initials() string {
	var out []rune
	for _, word := range strings.Fields(c.DisplayName) {
		for _, r := range word {
			out = append(out, r)
			break
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return strings.ToUpper(string(out))
}

// Directory is a static, ordered list of contacts.
type Directory struct {
	contacts []Contact
}

// New builds a directory. Contacts without an ID are dropped.
func New(list ...Contact) *Directory {
	d := &Directory{}
	for _, c := range list {
		if c.ID == "" {
			continue
		}
		d.contacts = append(d.contacts, c)
	}
	return d
}

// Default returns the directory the chat opens with.
func Default() *Directory {
	return New(Contact{
		ID:                 "support",
		DisplayName:        "Technical Support",
		Presence:           PresenceOnline,
		LastMessagePreview: "Last message...",
	})
}

// List returns the contacts in display order.
func (d *Directory) List() []Contact {
	out := make([]Contact, len(d.contacts))
	copy(out, d.contacts)
	return out
}

// Len returns the number of contacts.
func (d *Directory) Len() int {
	return len(d.contacts)
}

// Active is the counterpart of the live conversation: the first contact.
func (d *Directory) Active() (Contact, bool) {
	if len(d.contacts) == 0 {
		return Contact{}, false
	}
	return d.contacts[0], true
}

// Get looks a contact up by ID.
func (d *Directory) Get(id string) (Contact, bool) {
	for _, c := range d.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return Contact{}, false
}
