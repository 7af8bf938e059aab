// Package mailer defines the email delivery abstraction used to notify the
// team about waitlist signups, and the error type providers use to report a
// rejected message.
package mailer

import (
	"context"
	"fmt"
)

// Message is a single HTML email.
type Message struct {
	// From is the sender identity, e.g. "Levercast Waitlist <onboarding@resend.dev>".
	From string
	// To lists the recipient addresses.
	To []string
	// Subject is the subject line.
	Subject string
	// HTML is the rendered body.
	HTML string
}

// SendResult is the provider's acknowledgement of an accepted message.
type SendResult struct {
	ID string // ID is the provider-assigned message identifier.
}

// Sender is the abstraction for email providers.
//
// Implementations return a *ProviderError when the provider answered but
// refused the message, and an error of kind serrors.ErrUnavailable when the
// provider could not be reached.
//
//go:generate mockgen -package mockmailer -source=interface.go -destination=mock/mockmailer.go *
type Sender interface {
	// Send delivers msg and returns the provider's message id.
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// ProviderError is an error object reported by the email provider. Its JSON
// form is returned to API clients as failure details.
type ProviderError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *ProviderError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}

	return fmt.Sprintf("provider error %s (status %d): %s", e.Name, e.StatusCode, e.Message)
}
