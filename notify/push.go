package notify

import (
	"context"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// messenger is the part of the FCM client PushSender needs.
type messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushSender delivers messages as Firebase Cloud Messaging notifications to
// the user's registered device.
type PushSender struct {
	client messenger
	dir    Directory
}

// NewPushSender initialises a Firebase app from service account JSON.
func NewPushSender(ctx context.Context, credentialsJSON, projectID string, dir Directory) (*PushSender, error) {
	if credentialsJSON == "" {
		return nil, errors.New("notify: FIREBASE_CREDENTIALS must be set")
	}
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf, option.WithCredentialsJSON([]byte(credentialsJSON)))
	if err != nil {
		return nil, errors.Wrap(err, "init firebase app")
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "init firebase messaging")
	}
	return &PushSender{client: client, dir: dir}, nil
}

func (s *PushSender) Send(ctx context.Context, msg Message) error {
	to, err := s.dir.Contact(ctx, msg.UserID)
	if err != nil {
		return errors.Wrap(err, "resolve recipient")
	}
	if to.DeviceToken == "" {
		return ErrNoRecipient
	}

	_, err = s.client.Send(ctx, &messaging.Message{
		Token: to.DeviceToken,
		Notification: &messaging.Notification{
			Title: msg.Subject,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	return errors.Wrap(err, "fcm send")
}
