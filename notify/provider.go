package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// New builds the sender selected by NOTIFY_PROVIDER, wrapped so that every
// failure is logged.
func New(ctx context.Context, cfg *config.Config, dir Directory, log logrus.FieldLogger) (Sender, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	var (
		s   Sender
		err error
	)
	switch cfg.Notify.Provider {
	case "", "console":
		s = NewConsoleSender(log)
	case "email":
		s, err = NewEmailSender(cfg.Resend.APIKey, cfg.Resend.From, cfg.Resend.BaseURL, client, dir)
	case "sms_twilio":
		s, err = NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From, cfg.Twilio.BaseURL, client, dir)
	case "sms_unifonic":
		s, err = NewUnifonicSender(cfg.Unifonic.AppSID, cfg.Unifonic.SenderID, cfg.Unifonic.BaseURL, client, dir)
	case "push":
		s, err = NewPushSender(ctx, cfg.Firebase.Credentials, cfg.Firebase.ProjectID, dir)
	default:
		return nil, errors.Errorf("notify: unknown provider %q", cfg.Notify.Provider)
	}
	if err != nil {
		return nil, err
	}
	return &logged{next: s, provider: cfg.Notify.Provider, log: log}, nil
}

type logged struct {
	next     Sender
	provider string
	log      logrus.FieldLogger
}

func (l *logged) Send(ctx context.Context, msg Message) error {
	err := l.next.Send(ctx, msg)
	if err != nil {
		l.log.WithError(err).WithFields(logrus.Fields{
			"provider": l.provider,
			"user_id":  msg.UserID,
			"subject":  msg.Subject,
		}).Warn("notification failed")
	}
	return err
}
