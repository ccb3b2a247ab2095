package tablewriter

import (
	"context"
	"time"

	"github.com/avast/retry-go"
)

// FlushWithRetry flushes w, retrying up to attempts times while the failure
// is retryable. The writer never retries on its own.
//
// A flush that failed after the server committed (a lost acknowledgement)
// is sent again, so rows may be inserted twice unless the table rejects
// duplicates.
func FlushWithRetry(ctx context.Context, w *TableWriter, attempts uint, delay time.Duration) error {
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		func() error {
			return w.FlushContext(ctx)
		},
		retry.RetryIf(IsRetryable),
		retry.OnRetry(func(n uint, err error) {
			w.log.Infoln("retrying flush, attempt", n+1, "after:", err)
		}),
		retry.Context(ctx),
		retry.Delay(delay),
		retry.Attempts(attempts),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}
