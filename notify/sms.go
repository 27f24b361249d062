package notify

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	client     *http.Client
	dir        Directory
}

func NewTwilioSender(accountSID, authToken, from, baseURL string, client *http.Client, dir Directory) (*TwilioSender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, errors.New("notify: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_FROM must be set")
	}
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     client,
		dir:        dir,
	}, nil
}

func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	phone, err := recipientPhone(ctx, s.dir, msg.UserID)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("From", s.from)
	form.Set("To", phone)
	form.Set("Body", msg.Body)

	endpoint := s.baseURL + "/2010-04-01/Accounts/" + url.PathEscape(s.accountSID) + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build twilio request")
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return do(s.client, req, "twilio")
}

// UnifonicSender sends SMS through the Unifonic REST API.
type UnifonicSender struct {
	appSID   string
	senderID string
	baseURL  string
	client   *http.Client
	dir      Directory
}

func NewUnifonicSender(appSID, senderID, baseURL string, client *http.Client, dir Directory) (*UnifonicSender, error) {
	if appSID == "" || senderID == "" {
		return nil, errors.New("notify: UNIFONIC_APP_SID and UNIFONIC_SENDER_ID must be set")
	}
	return &UnifonicSender{
		appSID:   appSID,
		senderID: senderID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		dir:      dir,
	}, nil
}

func (s *UnifonicSender) Send(ctx context.Context, msg Message) error {
	phone, err := recipientPhone(ctx, s.dir, msg.UserID)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("AppSid", s.appSID)
	form.Set("SenderID", s.senderID)
	form.Set("Recipient", strings.TrimPrefix(phone, "+"))
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/rest/SMS/messages", strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "build unifonic request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return do(s.client, req, "unifonic")
}

func recipientPhone(ctx context.Context, dir Directory, userID string) (string, error) {
	to, err := dir.Contact(ctx, userID)
	if err != nil {
		return "", errors.Wrap(err, "resolve recipient")
	}
	if to.Phone == "" {
		return "", ErrNoRecipient
	}
	return to.Phone, nil
}
