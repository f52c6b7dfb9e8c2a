// Package platform holds the per-platform classifiers: each consumes
// raw availability/liveness signals and advances video lifecycle state.
package platform

import (
	"context"
	"fmt"
	"time"

	"recarr/internal/contracts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// signalEvent is a notification side effect collected while a decision
// table runs, delivered only after the transition commits.
type signalEvent int

const (
	evNone signalEvent = iota
	evSkipped
	evRejected
	evSourceRemoved
)

// classifier is the decision-table engine shared by every platform.
// Platform-specific knobs (signal acquisition, interval, recoverability,
// watch URL construction) are injected by the concrete platform types.
type classifier struct {
	source      string
	interval    time.Duration
	recoverable bool

	store    contracts.Store
	fetcher  contracts.SignalFetcher
	storage  contracts.StorageChecker
	notifier contracts.Notifier

	sourceURL func(v *models.Video) string
}

func (c *classifier) Source() string          { return c.source }
func (c *classifier) Interval() time.Duration { return c.interval }
func (c *classifier) Recoverable() bool       { return c.recoverable }

func (c *classifier) SourceURL(v *models.Video) string { return c.sourceURL(v) }

// UpdateVideosData discovers new or live content for one channel and
// refreshes every video the channel feed still reports.
func (c *classifier) UpdateVideosData(ctx context.Context, ch *models.Channel) error {
	signals, err := c.fetcher.FetchChannelSignals(ctx, ch)
	if err != nil {
		// Transient: retried on the next due tick, never a video error.
		return fmt.Errorf("signal fetch failed for channel %q (%s): %w", ch.ID, c.source, err)
	}
	if signals == nil {
		logging.D(1, "Channel %q (%s) temporarily unavailable, skipping scan", ch.ID, c.source)
		return nil
	}

	vs := c.store.VideoStore()

	for _, sig := range signals {
		if sig == nil || sig.VideoID == "" {
			logging.E("Channel %q (%s) produced an invalid signal entry", ch.ID, c.source)
			continue
		}

		exists, err := vs.Exists(c.source, sig.VideoID)
		if err != nil {
			logging.E("Failed to check video %q: %v", sig.VideoID, err)
			continue
		}

		if !exists {
			created := &models.Video{
				ID:        sig.VideoID,
				Source:    c.source,
				ChannelID: ch.ID,
				Status:    models.StatusUnknown,
			}
			if err := vs.AddOrUpdate(created); err != nil {
				logging.E("Failed to create video %q for channel %q: %v", sig.VideoID, ch.ID, err)
				continue
			}
			logging.I("Discovered new content %q on channel %q (%s)", sig.VideoID, ch.ID, c.source)
		} else {
			cur, hasRows, err := vs.GetByID(c.source, sig.VideoID)
			if err != nil || !hasRows {
				logging.E("Failed to load video %q: %v", sig.VideoID, err)
				continue
			}
			// Content already progressing through the pipeline (or
			// parked in Skipped/Reject) is no longer feed-trackable.
			if cur.Status.BeyondFeedWindow() {
				logging.D(2, "Video %q already past feed window (%s), skipping", cur.ID, cur.Status)
				continue
			}
		}

		if err := c.classify(ctx, ch, sig.VideoID, sig); err != nil {
			logging.E("Failed to classify video %q: %v", sig.VideoID, err)
		}
	}

	return nil
}

// UpdateVideoData refreshes one known video: metadata, source status and
// file reconciliation.
func (c *classifier) UpdateVideoData(ctx context.Context, v *models.Video) error {
	sig, err := c.fetcher.FetchVideoSignal(ctx, v)
	if err != nil {
		return fmt.Errorf("signal fetch failed for video %q (%s): %w", v.ID, c.source, err)
	}
	if sig == nil {
		// Temporarily unavailable is not deletion.
		logging.D(1, "Video %q (%s) temporarily unavailable, skipping refresh", v.ID, c.source)
		return nil
	}

	ch, hasRows, err := c.store.ChannelStore().GetByID(c.source, v.ChannelID)
	if err != nil {
		return fmt.Errorf("failed to load channel %q: %w", v.ChannelID, err)
	}
	if !hasRows {
		logging.E("Video %q references unknown channel %q", v.ID, v.ChannelID)
		return nil
	}

	return c.classify(ctx, ch, v.ID, sig)
}

// classify applies the decision table to the video's current row and
// fires any collected notifications after the transition commits.
func (c *classifier) classify(ctx context.Context, ch *models.Channel, videoID string, sig *models.RawSignal) error {
	var events []signalEvent

	updated, err := c.store.VideoStore().Mutate(c.source, videoID, func(cur *models.Video) error {
		events = applySignal(cur, ch, sig)
		c.reconcileFile(ctx, cur)
		return nil
	})
	if err != nil {
		return err
	}

	for _, ev := range events {
		switch ev {
		case evSkipped, evRejected:
			c.notifier.NotifySkipped(ch, updated)
		case evSourceRemoved:
			c.notifier.NotifySourceRemoved(ch, updated)
		}
	}
	return nil
}

// applySignal is the decision table: one branch per semantic signal
// category. It mutates the reloaded row and reports which notification
// events fired for the first time.
func applySignal(cur *models.Video, ch *models.Channel, sig *models.RawSignal) []signalEvent {
	var events []signalEvent

	// Metadata refresh. From the first deletion signal onward the last
	// known-good title/description copy is preserved; deletion signals
	// carry placeholder metadata that must never land.
	if cur.SourceStatus != models.StatusDeleted && sig.Kind != models.SignalDeleted {
		if sig.Title != "" {
			cur.Title = sig.Title
		}
		if sig.Description != "" {
			cur.Description = sig.Description
		}
		if sig.Thumbnail != "" && sig.Thumbnail != cur.Thumbnail {
			cur.Thumbnail = sig.Thumbnail
		}
	}
	if sig.PublishedAt != nil && cur.PublishedAt == nil {
		cur.PublishedAt = sig.PublishedAt
	}

	switch sig.Kind {
	case models.SignalUpcoming:
		cur.IsLiveStream = true
		cur.SourceStatus = models.StatusExist
		if sig.ScheduledStartTime != nil {
			cur.ScheduledStartTime = sig.ScheduledStartTime
		}
		if cur.Status < models.StatusScheduled {
			cur.Status = models.StatusScheduled
		}

	case models.SignalLive:
		cur.IsLiveStream = true
		cur.SourceStatus = models.StatusExist
		if cur.ActualStartTime == nil {
			start := time.Now()
			if sig.ActualStartTime != nil {
				start = *sig.ActualStartTime
			}
			cur.ActualStartTime = &start
		}

		if cur.Status <= models.StatusScheduled {
			if sig.MemberOnly && !ch.UseCookiesFile {
				cur.Status = models.StatusReject
				cur.Note = "member-only content and channel has no cookies file configured"
				events = append(events, evRejected)
			} else {
				// Dispatch request: the orchestrator's next tick turns
				// WaitingToRecord into a recording job.
				cur.Status = models.StatusWaitingToRecord
			}
		}

	case models.SignalEnded:
		// Stream finished but the VOD is not yet downloadable.
		cur.IsLiveStream = true
		cur.SourceStatus = models.StatusExist
		if cur.Status <= models.StatusScheduled {
			cur.Status = models.StatusPending
		}

	case models.SignalWasLive:
		cur.IsLiveStream = true
		cur.SourceStatus = models.StatusExist
		if cur.Status <= models.StatusScheduled {
			cur.Status = models.StatusWaitingToDownload
		}

	case models.SignalNotLiveStream:
		cur.IsLiveStream = false
		cur.SourceStatus = models.StatusExist
		if ch.SkipNotLiveStream {
			if cur.Status != models.StatusSkipped {
				cur.Status = models.StatusSkipped
				events = append(events, evSkipped)
			}
		} else if cur.Status <= models.StatusScheduled {
			if sig.MemberOnly && !ch.UseCookiesFile {
				cur.Status = models.StatusReject
				cur.Note = "restricted upload and channel has no cookies file configured"
				events = append(events, evRejected)
			} else {
				cur.Status = models.StatusWaitingToDownload
			}
		}

	case models.SignalDeleted:
		if cur.SourceStatus != models.StatusDeleted {
			cur.SourceStatus = models.StatusDeleted
			events = append(events, evSourceRemoved)
		}

	default:
		logging.E("Video %q carries unknown signal kind %q", cur.ID, sig.Kind)
	}

	if cur.Status < models.StatusUnknown {
		// Should be impossible, but a bad status must not kill the loop.
		logging.E("Video %q observed with negative status %d", cur.ID, cur.Status)
	}

	return events
}

// reconcileFile cross-checks persisted-file existence against the
// lifecycle state.
func (c *classifier) reconcileFile(ctx context.Context, cur *models.Video) {
	if cur.Filename == "" {
		return
	}

	exists, err := c.storage.FileExists(ctx, cur.Filename)
	if err != nil {
		logging.W("Storage check failed for %q, skipping reconciliation: %v", cur.Filename, err)
		return
	}

	switch {
	// Missing sits inside the archive window but a reappeared file must
	// still restore it to Archived.
	case exists && (!cur.Status.InArchiveWindow() || cur.Status == models.StatusMissing):
		cur.Status = models.StatusArchived
		cur.StampArchived(time.Now())
		logging.I("Video %q has a persisted file, corrected to Archived", cur.ID)

	case !exists && cur.Status.InArchiveWindow() &&
		cur.Status != models.StatusMissing && cur.Status != models.StatusError:
		cur.Status = models.StatusMissing
		cur.Note = fmt.Sprintf("expected file %q absent from storage", cur.Filename)
		logging.W("Video %q regressed to Missing: file %q absent", cur.ID, cur.Filename)
	}
}
