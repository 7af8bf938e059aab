// Package relayhandler serves the waitlist relay endpoint: it validates the
// submitted email, asks the notifier to email the team, and reports the
// outcome as JSON.
package relayhandler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"levercast/internal/waitlist"
	"levercast/pkg/domain"
	"levercast/pkg/logger"
	"levercast/pkg/mailer"
	"levercast/pkg/metrics"
	"levercast/pkg/serrors"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "levercast/internal/api/handler/relayhandler"

// Response messages.
const (
	MsgSendFailed   = "Failed to send email"
	MsgServiceError = "Email service error"
	MsgInternal     = "Internal server error"
)

// Submission outcomes recorded on the waitlist.submissions counter.
const (
	OutcomeSent           = "sent"
	OutcomeInvalid        = "invalid"
	OutcomeDeliveryFailed = "delivery_failed"
	OutcomeServiceError   = "service_error"
	OutcomeInternalError  = "internal_error"
)

// DefaultMaxBodyBytes bounds the request body when Options leaves it unset.
const DefaultMaxBodyBytes int64 = 64 << 10

type Deps struct {
	Notifier waitlist.Notifier
	// MeterProvider defaults to the global otel provider.
	MeterProvider metric.MeterProvider
}

type Options struct {
	MaxBodyBytes int64
}

type Handler struct {
	deps Deps
	opts Options

	submissions metric.Int64Counter
	duration    metric.Float64Histogram
}

// Ensure Handler implements http.Handler.
var _ http.Handler = (*Handler)(nil)

func New(deps Deps, opts Options) (*Handler, error) {
	if deps.MeterProvider == nil {
		deps.MeterProvider = otel.GetMeterProvider()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	meter := deps.MeterProvider.Meter(meterName)
	submissions, err := meter.Int64Counter("waitlist.submissions",
		metric.WithDescription("Waitlist submissions handled, by outcome."),
		metric.WithUnit("{submission}"))
	if err != nil {
		return nil, fmt.Errorf("could not create submissions counter: %w", err)
	}
	duration, err := meter.Float64Histogram("waitlist.delivery.duration",
		metric.WithDescription("Time spent handing a signup notification to the email provider."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create delivery duration histogram: %w", err)
	}

	return &Handler{
		deps:        deps,
		opts:        opts,
		submissions: submissions,
		duration:    duration,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeResult(w, http.StatusMethodNotAllowed, &domain.SubmissionResult{Error: "Method not allowed"})

		return
	}

	defer func() {
		if p := recover(); p != nil {
			err := serrors.With(serrors.ErrInternal, "panic: %v", p)
			h.record(ctx, err)
			status, res := h.NewError(ctx, err)
			writeResult(w, status, res)
		}
	}()

	res, err := h.handle(ctx, http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	h.record(ctx, err)
	if err != nil {
		status, res := h.NewError(ctx, err)
		writeResult(w, status, res)

		return
	}

	writeResult(w, http.StatusOK, res)
}

func (h *Handler) handle(ctx context.Context, body io.Reader) (*domain.SubmissionResult, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not read body")
	}

	sub, err := DecodeSubmission(b)
	if err != nil {
		return nil, err
	}

	return h.SendEmail(ctx, sub)
}

// SendEmail relays a validated submission to the notifier. Provider errors
// are returned as is; any other notifier failure is reported as
// serrors.ErrUnavailable.
func (h *Handler) SendEmail(ctx context.Context, sub *domain.Submission) (*domain.SubmissionResult, error) {
	start := time.Now()
	res, err := h.deps.Notifier.NotifySignup(ctx, sub.Email)
	h.duration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.Bool("error", err != nil)))

	if err != nil {
		var pe *mailer.ProviderError
		if errors.As(err, &pe) {
			return nil, err
		}

		return nil, serrors.Wrap(serrors.ErrUnavailable, err, "")
	}

	logger.Info(ctx, "waitlist signup relayed", zap.String("id", res.ID))

	return &domain.SubmissionResult{
		Success: true,
		Data:    &domain.Delivery{ID: res.ID},
	}, nil
}

// NewError maps err to the HTTP status and body returned to the client.
func (h *Handler) NewError(ctx context.Context, err error) (int, *domain.SubmissionResult) {
	var pe *mailer.ProviderError
	if errors.As(err, &pe) {
		logger.Error(ctx, "email provider rejected the message", zap.Error(err))

		return http.StatusInternalServerError, &domain.SubmissionResult{Error: MsgSendFailed, Details: pe}
	}

	switch serrors.KindOf(err) {
	case serrors.ErrBadRequest:
		logger.Debug(ctx, "invalid submission", zap.Error(err))

		msg := MsgEmailRequired
		var se *serrors.Error
		if errors.As(err, &se) && se.Message() != "" {
			msg = se.Message()
		}

		return http.StatusBadRequest, &domain.SubmissionResult{Error: msg}
	case serrors.ErrUnavailable, serrors.ErrTimeout:
		logger.Error(ctx, "email service error", zap.Error(err))

		return http.StatusInternalServerError, &domain.SubmissionResult{Error: MsgServiceError, Details: err.Error()}
	default:
		logger.Error(ctx, "could not handle submission", zap.Error(err))

		return http.StatusInternalServerError, &domain.SubmissionResult{Error: MsgInternal, Details: err.Error()}
	}
}

func (h *Handler) record(ctx context.Context, err error) {
	h.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

func outcome(err error) string {
	if err == nil {
		return OutcomeSent
	}

	var pe *mailer.ProviderError
	if errors.As(err, &pe) {
		return OutcomeDeliveryFailed
	}

	switch serrors.KindOf(err) {
	case serrors.ErrBadRequest:
		return OutcomeInvalid
	case serrors.ErrUnavailable, serrors.ErrTimeout:
		return OutcomeServiceError
	default:
		return OutcomeInternalError
	}
}

func writeResult(w http.ResponseWriter, status int, res *domain.SubmissionResult) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	EncodeSubmissionResult(e, res)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
