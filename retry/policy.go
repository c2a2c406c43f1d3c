package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/kirkwilson-git/samples/logger"
	"golang.org/x/net/context"
)

// Policy describes a bounded exponential backoff applied to transient failures,
// e.g. S3 uploads and warehouse statements that hit network errors.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     uint64 // total attempts including the first; 1 disables retries.
}

// DefaultPolicy retries a handful of times over roughly half a minute.
func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		MaxAttempts:     5,
	}
}

// Do runs op until it succeeds, the attempts are exhausted or ctx is cancelled.
// Each failed attempt is logged with the delay before the next one.
func (p Policy) Do(ctx context.Context, log logger.Logger, description string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	maxRetries := uint64(0)
	if p.MaxAttempts > 0 {
		maxRetries = p.MaxAttempts - 1
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
	notify := func(err error, next time.Duration) {
		log.Warn(description, " failed, retrying in ", next.Round(time.Millisecond), ": ", err)
	}
	return backoff.RetryNotify(op, policy, notify)
}
