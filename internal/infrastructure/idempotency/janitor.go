package idempotency

import (
	"context"
	"time"

	"repairdesk/pkg/logger"
)

// Purger is implemented by stores that can drop expired keys.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// DefaultPurgeInterval is used when RunJanitor gets a non-positive interval.
const DefaultPurgeInterval = 10 * time.Minute

// RunJanitor purges expired keys every interval until ctx is done.
func RunJanitor(ctx context.Context, p Purger, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn(ctx, "failed to purge idempotency keys", "error", err)
				}
				continue
			}
			if n > 0 {
				logger.Debug(ctx, "purged idempotency keys", "count", n)
			}
		}
	}
}
