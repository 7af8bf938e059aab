// Package waitlist turns a waitlist signup into a notification email for the
// team and hands it to the configured email provider.
package waitlist

import (
	"context"
	"fmt"
	"levercast/internal/config"
	"levercast/pkg/logger"
	"levercast/pkg/mailer"

	"go.uber.org/zap"
)

// ProductName is the product the waitlist belongs to.
const ProductName = "Levercast"

// Options configure the notification envelope. They are fixed for the
// lifetime of the process.
type Options struct {
	// From is the sender identity.
	From string
	// Recipient is the single address that receives every notification.
	Recipient string
	// Subject is the subject line.
	Subject string
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		From:      cfg.Waitlist.From,
		Recipient: cfg.Waitlist.Recipient,
		Subject:   cfg.Waitlist.Subject,
	}
}

type notifier struct {
	options Options
	sender  mailer.Sender
}

// NotifySignup renders the signup notification for email and sends it with a
// single call to the provider. Provider errors are returned unchanged so the
// caller can tell a rejected message from an unreachable provider.
func (n notifier) NotifySignup(ctx context.Context, email string) (mailer.SendResult, error) {
	body, err := RenderSignup(SignupParams{Product: ProductName, Email: email})
	if err != nil {
		return mailer.SendResult{}, err
	}

	logger.Debug(ctx, "sending signup notification", zap.String("recipient", n.options.Recipient))

	res, err := n.sender.Send(ctx, mailer.Message{
		From:    n.options.From,
		To:      []string{n.options.Recipient},
		Subject: n.options.Subject,
		HTML:    body,
	})
	if err != nil {
		return mailer.SendResult{}, fmt.Errorf("could not send signup notification: %w", err)
	}

	return res, nil
}

// New creates a Notifier delivering through sender.
func New(sender mailer.Sender, options Options) Notifier {
	return &notifier{
		options: options,
		sender:  sender,
	}
}
