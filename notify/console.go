package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleSender writes messages to the log. It is the development default.
type ConsoleSender struct {
	log logrus.FieldLogger
}

func NewConsoleSender(log logrus.FieldLogger) *ConsoleSender {
	return &ConsoleSender{log: log}
}

func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.log.WithFields(logrus.Fields{
		"user_id": msg.UserID,
		"subject": msg.Subject,
		"data":    msg.Data,
	}).Info(msg.Body)
	return nil
}
