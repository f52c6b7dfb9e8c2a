// Package scheduler drives per-platform channel scans off a single base
// tick, accumulating elapsed time per platform instead of running one
// timer per channel.
package scheduler

import (
	"context"
	"errors"
	"time"

	"recarr/internal/contracts"
	"recarr/internal/utils/logging"
	"recarr/internal/utils/times"
)

// Scheduler fans one coarse ticker out to every registered platform.
// Each platform keeps an elapsed-time accumulator; when it reaches the
// platform's interval, every monitored channel of that platform is
// scanned and the accumulator resets to zero.
//
// The accumulator is bumped before a strict comparison, so the
// effective cadence is interval plus one base tick — even when the base
// tick divides the interval evenly, where an inclusive compare would
// yield exactly the interval. The strict form keeps the gap between
// scans independent of divisibility and is pinned by the cadence test.
// The very first tick always fires a scan because the accumulator
// starts at the interval.
type Scheduler struct {
	baseTick  time.Duration
	platforms []contracts.Platform
	store     contracts.Store

	elapsed map[string]time.Duration
}

func New(store contracts.Store, baseTick time.Duration, platforms ...contracts.Platform) *Scheduler {
	s := &Scheduler{
		baseTick:  baseTick,
		platforms: platforms,
		store:     store,
		elapsed:   make(map[string]time.Duration, len(platforms)),
	}
	for _, p := range platforms {
		// Start saturated so startup scans immediately.
		s.elapsed[p.Source()] = p.Interval()
	}
	return s
}

// Run loops until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	logging.I("Scheduler started with base tick %s across %d platforms", s.baseTick, len(s.platforms))

	for {
		if err := times.Wait(ctx, s.baseTick); err != nil {
			logging.I("Scheduler stopping: %v", err)
			return nil
		}
		s.Tick(ctx)
	}
}

// Tick advances every accumulator by one base tick and scans the
// platforms that came due.
func (s *Scheduler) Tick(ctx context.Context) {
	for _, p := range s.platforms {
		s.elapsed[p.Source()] += s.baseTick
		if s.elapsed[p.Source()] <= p.Interval() {
			continue
		}
		s.elapsed[p.Source()] = 0
		s.scanPlatform(ctx, p)
	}
}

// scanPlatform runs one channel sweep. A failing channel is logged and
// skipped so the rest of the sweep still happens.
func (s *Scheduler) scanPlatform(ctx context.Context, p contracts.Platform) {
	channels, err := s.store.ChannelStore().ListMonitoring(p.Source())
	if err != nil {
		logging.E("Failed to list monitored channels for %s: %v", p.Source(), err)
		return
	}
	if len(channels) == 0 {
		logging.D(2, "No monitored channels for %s", p.Source())
		return
	}

	logging.D(1, "Scanning %d channels on %s", len(channels), p.Source())

	var errs []error
	for _, ch := range channels {
		if ctx.Err() != nil {
			return
		}
		if err := p.UpdateVideosData(ctx, ch); err != nil {
			errs = append(errs, err)
		}
	}

	if joined := errors.Join(errs...); joined != nil {
		logging.W("Scan of %s finished with errors: %v", p.Source(), joined)
	}
}
