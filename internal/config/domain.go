package config

import (
	"supportchat/internal/contacts"
	"supportchat/internal/conversation"
	"supportchat/internal/timeline"
)

// Directory builds the contact directory. An empty contact list falls back
// to the default directory.
func (c *Config) Directory() *contacts.Directory {
	if len(c.Contacts) == 0 {
		return contacts.Default()
	}
	list := make([]contacts.Contact, 0, len(c.Contacts))
	for _, ct := range c.Contacts {
		list = append(list, contacts.Contact{
			ID:                 ct.ID,
			DisplayName:        ct.Name,
			Presence:           contacts.ParsePresence(ct.Presence),
			LastMessagePreview: ct.Preview,
		})
	}
	return contacts.New(list...)
}

// SessionOptions returns the options for a new conversation session.
func (c *Config) SessionOptions() conversation.Options {
	opts := conversation.Options{
		ReplyDelay: conversation.Delay(c.GetReplyDelay()),
		ReplyText:  c.Chat.ReplyText,
	}
	if c.Chat.SeedDemo {
		opts.Seed = timeline.DemoSeed()
	}
	if c.Chat.IDScheme == "sequence" {
		opts.IDs = timeline.Sequence("msg")
	}
	return opts
}
