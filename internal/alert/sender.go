package alert

import "context"

// Message is a rendered e-mail ready for delivery.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Name() string
}
