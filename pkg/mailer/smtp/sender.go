// Package smtp provides a mailer.Sender that delivers through an SMTP relay
// using gomail.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"levercast/pkg/mailer"
	"levercast/pkg/serrors"
	netmail "net/mail"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/gomail.v2"
)

// Options configures the SMTP relay.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Dialer opens an SMTP session. *gomail.Dialer implements it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// Sender delivers messages over SMTP. Every Send opens its own session, so a
// Sender is safe for concurrent use.
type Sender struct {
	dialer Dialer
	tracer trace.Tracer
}

var _ mailer.Sender = (*Sender)(nil)

// New constructs a Sender dialing the relay described by opts.
func New(opts Options) *Sender {
	return NewWithDialer(gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password))
}

// NewWithDialer constructs a Sender on top of an existing Dialer.
func NewWithDialer(d Dialer) *Sender {
	return &Sender{
		dialer: d,
		tracer: otel.Tracer("levercast/pkg/mailer/smtp"),
	}
}

// Send delivers msg in a single SMTP session. The returned id is the
// Message-ID header generated for the message. Replies with an SMTP error code
// are returned as *mailer.ProviderError; dial and I/O failures carry
// serrors.ErrUnavailable.
func (s *Sender) Send(ctx context.Context, msg mailer.Message) (mailer.SendResult, error) {
	_, span := s.tracer.Start(ctx, "smtp.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := s.send(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return res, err
	}
	span.SetAttributes(attribute.String("smtp.message_id", res.ID))

	return res, nil
}

func (s *Sender) send(msg mailer.Message) (mailer.SendResult, error) {
	from, err := netmail.ParseAddress(msg.From)
	if err != nil {
		return mailer.SendResult{}, fmt.Errorf("could not parse sender address: %w", err)
	}
	rcpts := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		addr, err := netmail.ParseAddress(to)
		if err != nil {
			return mailer.SendResult{}, fmt.Errorf("could not parse recipient address %q: %w", to, err)
		}
		rcpts = append(rcpts, addr.Address)
	}

	id := MessageID(from.Address)
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)
	m.SetBody("text/html", msg.HTML)

	sc, err := s.dialer.Dial()
	if err != nil {
		return mailer.SendResult{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not dial smtp server")
	}
	defer func() {
		_ = sc.Close()
	}()

	if err := sc.Send(from.Address, rcpts, m); err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) {
			return mailer.SendResult{}, &mailer.ProviderError{
				StatusCode: tpErr.Code,
				Name:       "smtp_error",
				Message:    tpErr.Msg,
			}
		}

		return mailer.SendResult{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not send message")
	}

	return mailer.SendResult{ID: id}, nil
}

// MessageID generates an RFC 5322 Message-ID in the sender's domain.
func MessageID(fromAddress string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(fromAddress, "@"); ok && d != "" {
		domain = d
	}

	return "<" + uuid.NewString() + "@" + domain + ">"
}
