// Package form implements the waitlist form controller: it owns the form
// state and posts one submission at a time to the relay endpoint.
package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"levercast/pkg/logger"
	"net/http"
	"strings"
	"sync"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// DefaultEndpoint is the relay path the page posts to.
const DefaultEndpoint = "/api/send-email"

const (
	// MsgSubmitFailed is used when the server rejects a submission without
	// an error message.
	MsgSubmitFailed = "Failed to submit"
	// MsgTryAgain is shown when a failure carries no message at all.
	MsgTryAgain = "Failed to submit. Please try again."
	// SubmittingLabel replaces the submit button label while in flight.
	SubmittingLabel = "Submitting..."
)

var (
	ErrNotMounted = errors.New("form is not mounted")
	ErrInFlight   = errors.New("a submission is already in flight")
	ErrSubmitted  = errors.New("email already submitted")
)

// State is a snapshot of the form.
type State struct {
	Phase      Phase
	Email      string
	Submitted  bool
	Submitting bool
	Error      string
}

// ButtonLabel is the submit control's label for this state.
func (s State) ButtonLabel() string {
	if s.Submitting {
		return SubmittingLabel
	}

	return "Join Waitlist"
}

type Controller struct {
	client   *http.Client
	endpoint string

	mu    sync.Mutex
	state State
}

// New creates a controller posting to endpoint. A nil client uses
// http.DefaultClient.
func New(client *http.Client, endpoint string) *Controller {
	if client == nil {
		client = http.DefaultClient
	}

	return &Controller{client: client, endpoint: endpoint}
}

// Mount switches the page to the interactive phase.
func (c *Controller) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Phase = PhaseInteractive
}

func (c *Controller) SetEmail(email string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Email = email
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Controller) View() View {
	return ViewOf(c.State())
}

// Submit posts the current email once. On success the form is marked
// submitted and the email cleared; on failure the error message is stored
// in the state and returned. Submissions are never retried.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.state.Phase != PhaseInteractive:
		c.mu.Unlock()

		return ErrNotMounted
	case c.state.Submitting:
		c.mu.Unlock()

		return ErrInFlight
	case c.state.Submitted:
		c.mu.Unlock()

		return ErrSubmitted
	}
	c.state.Submitting = true
	c.state.Error = ""
	email := c.state.Email
	c.mu.Unlock()

	err := c.post(ctx, email)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Submitting = false
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgTryAgain
		}
		c.state.Error = msg
		logger.Warn(ctx, "waitlist submission failed", zap.Error(err))

		return err
	}

	c.state.Submitted = true
	c.state.Email = ""

	return nil
}

func (c *Controller) post(ctx context.Context, email string) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.ObjStart()
	e.FieldStart("email")
	e.Str(email)
	e.ObjEnd()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(e.Bytes()))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not submit: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    "Server responded with non-JSON content: " + string(body),
		}
	}

	msg, err := decodeErrorField(body)
	if err != nil {
		return fmt.Errorf("could not parse response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg == "" {
			msg = MsgSubmitFailed
		}

		return &ResponseError{StatusCode: resp.StatusCode, Message: msg}
	}

	return nil
}

// ResponseError is a submission the server answered but did not accept.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string { return e.Message }

// decodeErrorField validates body as JSON and returns its string "error"
// field, if any.
func decodeErrorField(body []byte) (string, error) {
	if err := jx.DecodeBytes(body).Validate(); err != nil {
		return "", err //nolint: wrapcheck
	}

	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return "", nil
	}

	var msg string
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "error" || d.Next() != jx.String {
			return d.Skip()
		}

		v, err := d.Str()
		if err != nil {
			return err //nolint: wrapcheck
		}
		msg = v

		return nil
	})

	return msg, err //nolint: wrapcheck
}
