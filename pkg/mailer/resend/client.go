// Package resend provides a mailer.Sender backed by the Resend REST API.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"levercast/pkg/mailer"
	"levercast/pkg/serrors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the public Resend API endpoint.
const DefaultBaseURL = "https://api.resend.com"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// Client talks to the Resend API and fulfills the mailer.Sender interface.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to Resend
	baseURL    string       // baseURL is the API root without trailing slash
	apiKey     string       // apiKey authenticates every request
	tracer     trace.Tracer
}

// Ensure Client conforms to the mailer.Sender interface at compile time.
var _ mailer.Sender = (*Client)(nil)

// New constructs a Client. An empty baseURL selects DefaultBaseURL.
func New(httpClient *http.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		tracer:     otel.Tracer("levercast/pkg/mailer/resend"),
	}
}

// Send submits msg to Resend's send-email endpoint.
// A non-2xx answer is returned as *mailer.ProviderError, built from Resend's
// error object when the body carries one. Failures to reach Resend are
// returned with kind serrors.ErrUnavailable.
func (c *Client) Send(ctx context.Context, msg mailer.Message) (mailer.SendResult, error) {
	ctx, span := c.tracer.Start(ctx, "resend.Send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := c.send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return res, err
	}
	span.SetAttributes(attribute.String("resend.email_id", res.ID))

	return res, nil
}

func (c *Client) send(ctx context.Context, msg mailer.Message) (mailer.SendResult, error) {
	// https://resend.com/docs/api-reference/emails/send-email
	type sendReq struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		HTML    string   `json:"html"`
	}
	bodyBytes, err := json.Marshal(sendReq{From: msg.From, To: msg.To, Subject: msg.Subject, HTML: msg.HTML})
	if err != nil {
		return mailer.SendResult{}, fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(bodyBytes))
	if err != nil {
		return mailer.SendResult{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mailer.SendResult{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return mailer.SendResult{}, serrors.Wrap(serrors.ErrUnavailable, err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mailer.SendResult{}, ParseError(resp.StatusCode, b)
	}

	// successful
	var sendResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &sendResp); err != nil {
		return mailer.SendResult{}, fmt.Errorf("could not decode response: %w", err)
	}

	return mailer.SendResult{ID: sendResp.ID}, nil
}

// ParseError converts a non-2xx Resend response into a ProviderError. Resend
// answers with {"statusCode":..,"name":..,"message":..}; any other body is
// kept verbatim as the message.
func ParseError(status int, body []byte) *mailer.ProviderError {
	var pe mailer.ProviderError
	if err := json.Unmarshal(body, &pe); err != nil || (pe.Message == "" && pe.Name == "") {
		return &mailer.ProviderError{
			StatusCode: status,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	if pe.StatusCode == 0 {
		pe.StatusCode = status
	}

	return &pe
}
