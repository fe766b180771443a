package frameloads

import (
	"time"

	"frameload-sync/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LogProgress returns a progress sink that logs at most every interval.
// The first and last unit of each phase are always logged.
func LogProgress(logger *zap.Logger, interval time.Duration) reconcile.ProgressFunc {
	every := &rate.Sometimes{Interval: interval}
	return func(current, total int, label string) {
		entry := func() {
			logger.Info("Reconciliation progress",
				zap.String("phase", label),
				zap.Int("current", current),
				zap.Int("total", total))
		}
		if current == 1 || current == total {
			entry()
			return
		}
		every.Do(entry)
	}
}
