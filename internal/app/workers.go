package app

import (
	"context"
	"time"

	"recarr/internal/contracts"
	"recarr/internal/models"
	"recarr/internal/platform"
	"recarr/internal/utils/logging"
	"recarr/internal/utils/times"
)

// RevalidateWorker periodically refreshes videos whose state depends on
// upstream signals the channel feed may no longer carry: Pending
// recoveries waiting for their VOD, Scheduled streams that may have
// been deleted, and archived files reconciled against storage.
type RevalidateWorker struct {
	store     contracts.Store
	platforms *platform.Registry
	tick      time.Duration
}

func NewRevalidateWorker(store contracts.Store, platforms *platform.Registry, tick time.Duration) *RevalidateWorker {
	return &RevalidateWorker{store: store, platforms: platforms, tick: tick}
}

func (w *RevalidateWorker) Run(ctx context.Context) error {
	logging.I("Revalidation worker started with tick %s", w.tick)

	for {
		if err := times.Wait(ctx, w.tick); err != nil {
			logging.I("Revalidation worker stopping: %v", err)
			return nil
		}
		w.Tick(ctx)
	}
}

func (w *RevalidateWorker) Tick(ctx context.Context) {
	vids, err := w.store.VideoStore().ListByStatus(
		models.StatusPending,
		models.StatusScheduled,
		models.StatusArchived,
		models.StatusMissing,
	)
	if err != nil {
		logging.E("Failed to list videos for revalidation: %v", err)
		return
	}

	for _, v := range vids {
		if ctx.Err() != nil {
			return
		}

		p, err := w.platforms.Get(v.Source)
		if err != nil {
			logging.E("Cannot revalidate video %q: %v", v.ID, err)
			continue
		}
		if err := p.UpdateVideoData(ctx, v); err != nil {
			logging.W("Revalidation of video %q did not complete, retrying next tick: %v", v.ID, err)
		}
	}
}

// ChannelInfoWorker refreshes display metadata for channels that opted
// into automatic updates. Platforms whose fetcher cannot provide
// channel info are skipped.
type ChannelInfoWorker struct {
	store     contracts.Store
	platforms *platform.Registry
	fetchers  map[string]contracts.ChannelInfoFetcher
	tick      time.Duration
}

func NewChannelInfoWorker(store contracts.Store, platforms *platform.Registry, fetchers map[string]contracts.ChannelInfoFetcher, tick time.Duration) *ChannelInfoWorker {
	return &ChannelInfoWorker{store: store, platforms: platforms, fetchers: fetchers, tick: tick}
}

func (w *ChannelInfoWorker) Run(ctx context.Context) error {
	logging.I("Channel info worker started with tick %s", w.tick)

	for {
		if err := times.Wait(ctx, w.tick); err != nil {
			logging.I("Channel info worker stopping: %v", err)
			return nil
		}
		w.Tick(ctx)
	}
}

func (w *ChannelInfoWorker) Tick(ctx context.Context) {
	for _, p := range w.platforms.All() {
		fetcher, ok := w.fetchers[p.Source()]
		if !ok {
			continue
		}

		channels, err := w.store.ChannelStore().ListMonitoring(p.Source())
		if err != nil {
			logging.E("Failed to list channels for %s info refresh: %v", p.Source(), err)
			continue
		}

		for _, ch := range channels {
			if ctx.Err() != nil {
				return
			}
			if !ch.AutoUpdateInfo {
				continue
			}

			info, err := fetcher.FetchChannelInfo(ctx, ch)
			if err != nil {
				logging.W("Info fetch for channel %q did not complete, retrying next tick: %v", ch.ID, err)
				continue
			}
			if info == nil {
				continue
			}

			if info.ChannelName != "" {
				ch.ChannelName = info.ChannelName
			}
			if info.Avatar != "" {
				ch.Avatar = info.Avatar
			}
			if info.Banner != "" {
				ch.Banner = info.Banner
			}

			if err := w.store.ChannelStore().UpdateInfo(ch); err != nil {
				logging.E("Failed to update info for channel %q: %v", ch.ID, err)
				continue
			}
			logging.D(1, "Refreshed display info for channel %q (%s)", ch.ID, p.Source())
		}
	}
}
