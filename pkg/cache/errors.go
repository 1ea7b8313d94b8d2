package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for fetch-through-cache operations.
var (
	// ErrNotFound is returned when the origin reports the item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures and 5xx responses.
	ErrNetwork = errors.New("network error")
)

// RetryableError marks a failed fetch as worth repeating. After, when set,
// is the delay the origin asked for (an HTTP Retry-After header).
type RetryableError struct {
	Err   error
	After time.Duration
}

// Retryable marks err as retryable. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// RetryableAfter marks err as retryable no sooner than after.
func RetryableAfter(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err, After: after}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err or anything it wraps is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry policy for origin fetches.
type Backoff struct {
	// Attempts is the total number of calls, including the first. Values
	// below one mean one.
	Attempts int

	// Initial is the delay before the second call; it doubles every call
	// after that, up to Max.
	Initial time.Duration
	Max     time.Duration
}

// DefaultBackoff makes three attempts, waiting 500ms and then 1s.
var DefaultBackoff = Backoff{Attempts: 3, Initial: 500 * time.Millisecond, Max: 8 * time.Second}

// Do calls fn until it succeeds, returns an error that is not retryable, or
// the attempts run out. attempt counts from 1. A Retry-After hint longer than
// the computed delay replaces it, still capped at Max.
func (b Backoff) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(lastErr, &re) || attempt == attempts {
			return lastErr
		}

		wait := max(delay, re.After)
		if b.Max > 0 {
			wait = min(wait, b.Max)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return lastErr
}
