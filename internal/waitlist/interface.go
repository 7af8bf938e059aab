package waitlist

import (
	"context"
	"levercast/pkg/mailer"
)

//go:generate mockgen -package mockwaitlist -source=interface.go -destination=mock/mockwaitlist.go *
type Notifier interface {
	NotifySignup(ctx context.Context, email string) (mailer.SendResult, error)
}
