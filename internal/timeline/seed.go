package timeline

import "time"

// Seed is a fixture entry loaded before the store accepts appends. Age is how
// long before the store's creation the message was written.
type Seed struct {
	Text   string
	Sender Sender
	Age    time.Duration
}

// DemoSeed returns the three-message history the chat opens with.
func DemoSeed() []Seed {
	return []Seed{
		{Text: "Hi! How are you?", Sender: SenderCounterpart, Age: time.Hour},
		{Text: "I'm fine, thanks. And you?", Sender: SenderSelf, Age: 30 * time.Minute},
		{Text: "Have you seen the new project?", Sender: SenderCounterpart, Age: 10 * time.Minute},
	}
}
