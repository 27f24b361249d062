package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// EmailSender delivers messages through the Resend HTTP API.
type EmailSender struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
	dir     Directory
}

func NewEmailSender(apiKey, from, baseURL string, client *http.Client, dir Directory) (*EmailSender, error) {
	if apiKey == "" || from == "" {
		return nil, errors.New("notify: RESEND_API_KEY and RESEND_FROM must be set")
	}
	return &EmailSender{
		apiKey:  apiKey,
		from:    from,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		dir:     dir,
	}, nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	to, err := s.dir.Contact(ctx, msg.UserID)
	if err != nil {
		return errors.Wrap(err, "resolve recipient")
	}
	if to.Email == "" {
		return ErrNoRecipient
	}

	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{to.Email},
		Subject: msg.Subject,
		HTML:    "<p>" + html.EscapeString(msg.Body) + "</p>",
		Text:    msg.Body,
	})
	if err != nil {
		return errors.Wrap(err, "encode email")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build email request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return do(s.client, req, "resend")
}

// do executes req and turns any non-2xx answer into an error carrying the body.
func do(client *http.Client, req *http.Request, provider string) error {
	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s request", provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return errors.Errorf("%s: status %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
