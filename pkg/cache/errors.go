package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned when a remote backend cannot be reached.
var ErrNetwork = errors.New("cache backend unreachable")

// transient marks an error that may go away on its own, such as a Redis
// server that is still starting.
type transient struct{ error }

func (t transient) Unwrap() error { return t.error }

// retryDelays are the waits between attempts; tests shorten them.
var retryDelays = []time.Duration{250 * time.Millisecond, 500 * time.Millisecond, time.Second}

// retry calls fn until it succeeds, fails with a non-transient error, or
// the delays run out. The last error is returned unwrapped.
func retry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		var t transient
		if !errors.As(err, &t) {
			return err
		}
		if attempt == len(retryDelays) {
			return t.error
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelays[attempt]):
		}
	}
}
