// Package times provides utility functions related to times and timers.
package times

import (
	"context"
	"fmt"
	"time"
)

// Wait sleeps for the given duration, returning early if the context is
// cancelled.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	waitTimer := time.NewTimer(d)
	defer waitTimer.Stop()

	select {
	case <-waitTimer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled during %v wait: %w", d, ctx.Err())
	}
}
