package services

import "time"

type options struct {
	now         func() time.Time
	orderNumber func(time.Time) string
	notifyAfter time.Duration
}

type Option func(*options)

// WithClock replaces time.Now, used for promo validity windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithOrderNumbers replaces the order number generator.
func WithOrderNumbers(gen func(time.Time) string) Option {
	return func(o *options) { o.orderNumber = gen }
}

// WithNotifyTimeout bounds each post-commit notification.
func WithNotifyTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.notifyAfter = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:         time.Now,
		orderNumber: NewOrderNumber,
		notifyAfter: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
