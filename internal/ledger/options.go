package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Option configures a ledger.
type Option func(*options)

type options struct {
	newID func() string
	now   func() time.Time
}

func defaultOptions() options {
	return options{
		newID: newV7,
		now:   time.Now,
	}
}

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// WithClock overrides the clock used for timestamps.
func WithClock(fn func() time.Time) Option {
	return func(o *options) { o.now = fn }
}

// newV7 returns a time-ordered UUID, falling back to a random one if the
// clock sequence cannot be read.
func newV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
