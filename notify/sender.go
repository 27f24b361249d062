// Package notify delivers customer messages through one provider chosen at
// start-up. Senders log their own failures; callers treat them as fire-and-forget.
package notify

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNoRecipient = errors.New("notify: recipient has no address for this channel")

type Message struct {
	UserID  string
	Subject string
	Body    string
	Data    map[string]string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Recipient holds the addresses a user can be reached at.
type Recipient struct {
	Name        string
	Email       string
	Phone       string
	DeviceToken string
}

// Directory resolves a user id to its contact details.
type Directory interface {
	Contact(ctx context.Context, userID string) (Recipient, error)
}
