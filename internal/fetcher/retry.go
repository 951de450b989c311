package fetcher

import "context"

// DefaultAttempts is the number of tries for one logical fetch.
const DefaultAttempts = 2

// withRetry runs fn up to attempts times, back to back. The error of the last
// attempt is returned unchanged. Pacing between attempts is left to fn.
func withRetry(ctx context.Context, attempts int, fn func(ctx context.Context, attempt int) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
