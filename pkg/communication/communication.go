// Package communication delivers outbound email and SMS for workflow actions.
// The engine only depends on the Sender interface; providers carry the
// transport details.
package communication

import "context"

// EmailMessage is one outbound email.
type EmailMessage struct {
	To      string `json:"to"      validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body"    validate:"required"`
}

// SMSMessage is one outbound text message.
type SMSMessage struct {
	To   string `json:"to"   validate:"required"`
	Body string `json:"body" validate:"required"`
}

// Sender delivers messages to customers.
type Sender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	SendSMS(ctx context.Context, msg SMSMessage) error
}
