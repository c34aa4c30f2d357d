package email

//go:generate mockgen -source=email.go -destination=mock/sender.go -package=mock

import "context"

// Email represents an email message to be sent.
type Email struct {
	To       []string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
	Headers  map[string]string
}

// Sender delivers a composed message. Implementations return a message id
// when the transport provides one.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}
