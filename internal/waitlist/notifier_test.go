package waitlist_test

import (
	"context"
	"errors"
	"levercast/internal/waitlist"
	"levercast/pkg/mailer"
	mockmailer "levercast/pkg/mailer/mock"
	"levercast/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testOptions = waitlist.Options{ //nolint: gochecknoglobals
	From:      "Levercast Waitlist <onboarding@resend.dev>",
	Recipient: "team@levercast.app",
	Subject:   "New Levercast Waitlist Signup",
}

func TestNotifier_NotifySignup_SendsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mockmailer.NewMockSender(ctrl)
	n := waitlist.New(sender, testOptions)

	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Times(1).DoAndReturn(
		func(_ context.Context, msg mailer.Message) (mailer.SendResult, error) {
			require.Equal(t, testOptions.From, msg.From)
			require.Equal(t, []string{"team@levercast.app"}, msg.To)
			require.Equal(t, testOptions.Subject, msg.Subject)
			require.Contains(t, msg.HTML, "test@example.com")
			require.Contains(t, msg.HTML, "Levercast waitlist")

			return mailer.SendResult{ID: "abc"}, nil
		})

	res, err := n.NotifySignup(context.Background(), "test@example.com")
	require.NoError(t, err)
	require.Equal(t, "abc", res.ID)
}

func TestNotifier_NotifySignup_KeepsProviderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mockmailer.NewMockSender(ctrl)
	n := waitlist.New(sender, testOptions)

	providerErr := &mailer.ProviderError{StatusCode: 422, Name: "validation_error", Message: "invalid from"}
	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(mailer.SendResult{}, providerErr)

	_, err := n.NotifySignup(context.Background(), "test@example.com")
	var pe *mailer.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Same(t, providerErr, pe)
}

func TestNotifier_NotifySignup_KeepsTransportKind(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mockmailer.NewMockSender(ctrl)
	n := waitlist.New(sender, testOptions)

	sender.EXPECT().Send(gomock.Any(), gomock.Any()).
		Return(mailer.SendResult{}, serrors.Wrap(serrors.ErrUnavailable, errors.New("refused"), "could not send request"))

	_, err := n.NotifySignup(context.Background(), "test@example.com")
	require.ErrorIs(t, err, serrors.ErrUnavailable)
}

func TestRenderSignup_EscapesHTML(t *testing.T) {
	body, err := waitlist.RenderSignup(waitlist.SignupParams{
		Product: waitlist.ProductName,
		Email:   `<script>alert(1)</script>@example.com`,
	})
	require.NoError(t, err)
	require.NotContains(t, body, "<script>")
	require.Contains(t, body, "&lt;script&gt;")
	require.Contains(t, body, "New Waitlist Signup")
}
