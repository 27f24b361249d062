package services

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
)

// chanSender records messages on a channel so tests can wait for them.
type chanSender struct {
	sent chan notify.Message
	err  error
}

func newChanSender() *chanSender {
	return &chanSender{sent: make(chan notify.Message, 64)}
}

func (c *chanSender) Send(ctx context.Context, msg notify.Message) error {
	c.sent <- msg
	return c.err
}

// chanFeed records published orders.
type chanFeed struct {
	published chan *models.Order
}

func (f *chanFeed) Publish(order *models.Order) {
	f.published <- order
}
