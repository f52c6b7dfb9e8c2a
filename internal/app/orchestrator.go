// Package app wires the control loops: the record/upload orchestrator
// and the auxiliary refresh workers.
package app

import (
	"context"
	"fmt"
	"time"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/jobs"
	"recarr/internal/models"
	"recarr/internal/platform"
	"recarr/internal/utils/logging"
	"recarr/internal/utils/times"
)

// Orchestrator is the record/upload control loop. Each tick runs a
// fixed ordered sequence: reconcile failures first, then dispatch new
// work, then monitor and retire finished work. The ordering keeps a
// just-failed job from being redispatched in the same tick before its
// failure is recorded.
type Orchestrator struct {
	store     contracts.Store
	jobs      contracts.JobService
	platforms *platform.Registry
	notifier  contracts.Notifier

	// recorders maps a source label to its live-recording downloader.
	// vodDownloader is the generic metadata/download tool used for
	// finished broadcasts and plain uploads across all platforms.
	recorders     map[string]contracts.Downloader
	vodDownloader contracts.Downloader

	tick         time.Duration
	monitorFloor time.Duration
	retireDelay  time.Duration

	registryPrimary  string
	registryFallback string
}

type OrchestratorOpts struct {
	Tick             time.Duration
	MonitorFloor     time.Duration
	RetireDelay      time.Duration
	RegistryPrimary  string
	RegistryFallback string
}

func NewOrchestrator(
	store contracts.Store,
	js contracts.JobService,
	platforms *platform.Registry,
	notifier contracts.Notifier,
	recorders map[string]contracts.Downloader,
	vodDownloader contracts.Downloader,
	opts OrchestratorOpts,
) *Orchestrator {
	if opts.Tick <= 0 {
		opts.Tick = consts.DefaultOrchTick
	}
	if opts.MonitorFloor <= 0 {
		opts.MonitorFloor = consts.DefaultMonitorFloor
	}
	if opts.RetireDelay <= 0 {
		opts.RetireDelay = consts.DefaultRetireDelay
	}
	if opts.RegistryPrimary == "" {
		opts.RegistryPrimary = consts.RegistryPrimary
	}
	if opts.RegistryFallback == "" {
		opts.RegistryFallback = consts.RegistryFallback
	}

	return &Orchestrator{
		store:            store,
		jobs:             js,
		platforms:        platforms,
		notifier:         notifier,
		recorders:        recorders,
		vodDownloader:    vodDownloader,
		tick:             opts.Tick,
		monitorFloor:     opts.MonitorFloor,
		retireDelay:      opts.RetireDelay,
		registryPrimary:  opts.RegistryPrimary,
		registryFallback: opts.RegistryFallback,
	}
}

// Run loops until the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	logging.I("Orchestrator started with tick %s", o.tick)

	for {
		if err := times.Wait(ctx, o.tick); err != nil {
			logging.I("Orchestrator stopping: %v", err)
			return nil
		}
		o.Tick(ctx)
	}
}

// Tick executes one full pass of the ordered sequence. Per-video
// failures are converted into Error state with a note, never allowed to
// abort the pass for other videos.
func (o *Orchestrator) Tick(ctx context.Context) {
	o.reconcileFailures(ctx)
	o.dispatchRecordings(ctx)
	o.dispatchDownloads(ctx)
	o.retireFinished(ctx)
	o.monitorUploads(ctx)
}

// reconcileFailures probes every in-flight recording/downloading job
// old enough to have been provisioned. A failed job regresses the video
// to Pending when the platform can recover the content another way, and
// errors it out otherwise.
func (o *Orchestrator) reconcileFailures(ctx context.Context) {
	vids, err := o.store.VideoStore().ListByStatus(models.StatusRecording, models.StatusDownloading)
	if err != nil {
		logging.E("Failed to list in-flight videos: %v", err)
		return
	}

	for _, v := range vids {
		if ctx.Err() != nil {
			return
		}
		if age := jobAge(v); age < o.monitorFloor {
			logging.D(2, "Job for video %q only %s old, below probe floor", v.ID, age)
			continue
		}

		failed, err := o.jobs.IsJobFailed(ctx, v.ID)
		if err != nil {
			logging.W("Failure probe for video %q did not complete, retrying next tick: %v", v.ID, err)
			continue
		}
		if !failed {
			continue
		}

		p, perr := o.platforms.Get(v.Source)
		recoverable := perr == nil && p.Recoverable()

		if _, err := o.store.VideoStore().Mutate(v.Source, v.ID, func(cur *models.Video) error {
			if recoverable {
				cur.Status = models.StatusPending
				cur.Note = "job failed, queued for recovery through the archive path"
			} else {
				cur.MarkError("job", fmt.Errorf("backend reported the job failed"))
			}
			return nil
		}); err != nil {
			logging.E("Failed to record job failure for video %q: %v", v.ID, err)
			continue
		}

		if recoverable {
			logging.W("Job for video %q (%s) failed, regressed to Pending for recovery", v.ID, v.Source)
		} else {
			logging.E("Job for video %q (%s) failed with no recovery path", v.ID, v.Source)
		}
	}
}

// dispatchRecordings starts a recording job for every video waiting on
// one and advances it to Recording.
func (o *Orchestrator) dispatchRecordings(ctx context.Context) {
	vids, err := o.store.VideoStore().ListByStatus(models.StatusWaitingToRecord)
	if err != nil {
		logging.E("Failed to list videos waiting to record: %v", err)
		return
	}

	for _, v := range vids {
		if ctx.Err() != nil {
			return
		}

		rec, ok := o.recorders[v.Source]
		if !ok {
			o.failVideo(v, "record dispatch", fmt.Errorf("no recorder configured for source %q", v.Source))
			continue
		}
		o.dispatch(ctx, v, rec, models.StatusRecording, true)
	}
}

// dispatchDownloads is the symmetric pass for finished broadcasts and
// plain uploads, using the generic downloader.
func (o *Orchestrator) dispatchDownloads(ctx context.Context) {
	vids, err := o.store.VideoStore().ListByStatus(models.StatusWaitingToDownload)
	if err != nil {
		logging.E("Failed to list videos waiting to download: %v", err)
		return
	}

	for _, v := range vids {
		if ctx.Err() != nil {
			return
		}
		o.dispatch(ctx, v, o.vodDownloader, models.StatusDownloading, false)
	}
}

// dispatch runs one downloader dispatch and records the outcome. A
// dispatch failure moves the video to Error instead of propagating.
func (o *Orchestrator) dispatch(ctx context.Context, v *models.Video, dl contracts.Downloader, next models.VideoStatus, notifyStart bool) {
	ch, hasRows, err := o.store.ChannelStore().GetByID(v.Source, v.ChannelID)
	if err != nil {
		logging.E("Failed to load channel %q for video %q: %v", v.ChannelID, v.ID, err)
		return
	}
	if !hasRows {
		o.failVideo(v, "dispatch", fmt.Errorf("video references unknown channel %q", v.ChannelID))
		return
	}

	filename, err := dl.CreateJob(ctx, v, ch.UseCookiesFile)
	if err != nil {
		o.failVideo(v, "dispatch", err)
		return
	}

	updated, err := o.store.VideoStore().Mutate(v.Source, v.ID, func(cur *models.Video) error {
		cur.Status = next
		cur.Filename = filename
		if cur.ActualStartTime == nil {
			now := time.Now()
			cur.ActualStartTime = &now
		}
		return nil
	})
	if err != nil {
		logging.E("Failed to advance video %q to %s: %v", v.ID, next, err)
		return
	}

	logging.I("Dispatched %s job for video %q on channel %q, filename %q", next, v.ID, ch.ChannelName, filename)
	if notifyStart {
		o.notifier.NotifyRecordStart(ch, updated)
	}
}

// retireFinished collects succeeded recording/downloading jobs, hands
// each file to the upload job and retires the finished job resource.
func (o *Orchestrator) retireFinished(ctx context.Context) {
	vids, err := o.store.VideoStore().ListByStatus(models.StatusRecording, models.StatusDownloading)
	if err != nil {
		logging.E("Failed to list in-flight videos: %v", err)
		return
	}

	first := true
	for _, v := range vids {
		if ctx.Err() != nil {
			return
		}

		succeeded, err := o.jobs.IsJobSucceeded(ctx, v.ID)
		if err != nil {
			logging.W("Success probe for video %q did not complete, retrying next tick: %v", v.ID, err)
			continue
		}
		if !succeeded {
			continue
		}

		if !first {
			if err := times.Wait(ctx, o.retireDelay); err != nil {
				return
			}
		}
		first = false

		o.retireOne(ctx, v)
	}
}

// retireOne advances one succeeded recording/download: latest-video
// bookkeeping, archive stamp, upload handoff, then job retirement.
func (o *Orchestrator) retireOne(ctx context.Context, v *models.Video) {
	if err := o.store.ChannelStore().UpdateLatestVideo(v.Source, v.ChannelID, v.ID); err != nil {
		logging.E("Failed to update latest video for channel %q: %v", v.ChannelID, err)
	}

	if err := o.dispatchUpload(ctx, v); err != nil {
		o.failVideo(v, "upload dispatch", err)
		return
	}

	if _, err := o.store.VideoStore().Mutate(v.Source, v.ID, func(cur *models.Video) error {
		cur.StampArchived(time.Now())
		cur.Status = models.StatusUploading
		return nil
	}); err != nil {
		logging.E("Failed to advance video %q to Uploading: %v", v.ID, err)
		return
	}

	// Deliberately conservative: the content was captured, but losing
	// track of a job resource needs operator attention.
	if err := o.jobs.RemoveCompletedJobs(ctx, v); err != nil {
		o.failVideo(v, "job retirement", err)
		return
	}

	logging.S("Video %q finished capture, upload in flight", v.ID)
}

// dispatchUpload starts the transfer-to-storage job, with the same
// single registry fallback the downloaders use.
func (o *Orchestrator) dispatchUpload(ctx context.Context, v *models.Video) error {
	spec := contracts.JobSpec{
		DeploymentName: jobs.InstanceName(consts.UploadPrefix, v.ID),
		ContainerName:  consts.ContainerUploader,
		ImageName:      o.registryPrimary + "/" + consts.ImageUploader,
		FileName:       v.Filename,
		Args:           []string{v.Filename},
		MountPath:      consts.MountPath,
	}

	err := o.jobs.CreateJob(ctx, spec)
	if err == nil {
		return nil
	}

	logging.W("Upload job %q failed to create, retrying with fallback registry: %v", spec.DeploymentName, err)

	spec.ImageName = o.registryFallback + "/" + consts.ImageUploader
	if fbErr := o.jobs.CreateJob(ctx, spec); fbErr != nil {
		return fmt.Errorf("upload job %q failed with primary (%v) and fallback registries: %w",
			spec.DeploymentName, err, fbErr)
	}
	return nil
}

// monitorUploads finishes the round trip: a succeeded upload job means
// the file is in durable storage and the video is Archived.
func (o *Orchestrator) monitorUploads(ctx context.Context) {
	vids, err := o.store.VideoStore().ListByStatus(models.StatusUploading)
	if err != nil {
		logging.E("Failed to list uploading videos: %v", err)
		return
	}

	first := true
	for _, v := range vids {
		if ctx.Err() != nil {
			return
		}

		succeeded, err := o.jobs.IsJobSucceeded(ctx, v.ID)
		if err != nil {
			logging.W("Upload probe for video %q did not complete, retrying next tick: %v", v.ID, err)
			continue
		}
		if !succeeded {
			failed, err := o.jobs.IsJobFailed(ctx, v.ID)
			if err == nil && failed {
				o.failVideo(v, "upload", fmt.Errorf("backend reported the upload job failed"))
			}
			continue
		}

		if !first {
			if err := times.Wait(ctx, o.retireDelay); err != nil {
				return
			}
		}
		first = false

		ch, hasRows, err := o.store.ChannelStore().GetByID(v.Source, v.ChannelID)
		if err != nil || !hasRows {
			logging.E("Failed to load channel %q for video %q: %v", v.ChannelID, v.ID, err)
		}

		updated, err := o.store.VideoStore().Mutate(v.Source, v.ID, func(cur *models.Video) error {
			cur.Status = models.StatusArchived
			cur.StampArchived(time.Now())
			return nil
		})
		if err != nil {
			logging.E("Failed to archive video %q: %v", v.ID, err)
			continue
		}

		o.notifier.NotifyArchived(ch, updated)

		if err := o.jobs.RemoveCompletedJobs(ctx, updated); err != nil {
			o.failVideo(updated, "job retirement", err)
			continue
		}

		logging.S("Video %q archived as %q", updated.ID, updated.Filename)
	}
}

// failVideo converts a per-video failure into Error state with a note.
func (o *Orchestrator) failVideo(v *models.Video, phase string, cause error) {
	logging.E("Video %q failed during %s: %v", v.ID, phase, cause)

	if _, err := o.store.VideoStore().Mutate(v.Source, v.ID, func(cur *models.Video) error {
		cur.MarkError(phase, cause)
		return nil
	}); err != nil {
		logging.E("Failed to record error state for video %q: %v", v.ID, err)
	}
}

// jobAge estimates how long a video's job has been provisioned, using
// the stream start when known and the last row write otherwise.
func jobAge(v *models.Video) time.Duration {
	if v.ActualStartTime != nil {
		return time.Since(*v.ActualStartTime)
	}
	return time.Since(v.UpdatedAt)
}
