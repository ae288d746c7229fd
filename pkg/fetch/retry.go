package fetch

import (
	"context"
	"errors"
	"time"
)

// Retry wraps a Fetcher. Each attempt gets Timeout, and between
// attempts we wait Backoff, doubling each time. Permanent failures
// and a cancelled context stop the loop.
type Retry struct {
	Fetcher  Fetcher
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration // zero means no limit per attempt
}

func (r *Retry) Fetch(ctx context.Context, uri, dest string) error {
	var err error
	wait := r.Backoff
	for i := 0; i < max(r.Attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.Join(err, ctx.Err())
			case <-time.After(wait):
			}
			wait *= 2
		}
		if err = r.attempt(ctx, uri, dest); err == nil {
			return nil
		}
		var fe *FetchError
		if errors.As(err, &fe) && fe.Permanent {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (r *Retry) attempt(ctx context.Context, uri, dest string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	return r.Fetcher.Fetch(ctx, uri, dest)
}
