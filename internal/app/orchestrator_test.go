package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recarr/internal/contracts"
	"recarr/internal/database"
	"recarr/internal/domain/consts"
	"recarr/internal/jobs"
	"recarr/internal/jobs/downloaders"
	"recarr/internal/models"
	"recarr/internal/platform"
	"recarr/internal/repo"
)

type stubFetcher struct{}

func (stubFetcher) FetchChannelSignals(_ context.Context, _ *models.Channel) ([]*models.RawSignal, error) {
	return nil, nil
}

func (stubFetcher) FetchVideoSignal(_ context.Context, _ *models.Video) (*models.RawSignal, error) {
	return nil, nil
}

type stubStorage struct{}

func (stubStorage) FileExists(_ context.Context, _ string) (bool, error) { return false, nil }

type countingNotifier struct {
	recordStarts int
	archived     int
}

func (n *countingNotifier) NotifyRecordStart(_ *models.Channel, _ *models.Video)  { n.recordStarts++ }
func (n *countingNotifier) NotifyArchived(_ *models.Channel, _ *models.Video)    { n.archived++ }
func (n *countingNotifier) NotifySkipped(_ *models.Channel, _ *models.Video)     {}
func (n *countingNotifier) NotifySourceRemoved(_ *models.Channel, _ *models.Video) {}

type harness struct {
	store    *repo.Store
	jobs     *jobs.MemoryService
	notifier *countingNotifier
	orch     *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "recarr-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := repo.InitStores(db)
	js := jobs.NewMemoryService()
	notifier := &countingNotifier{}

	reg := platform.NewRegistry(
		platform.NewYoutube(store, stubFetcher{}, stubStorage{}, notifier),
		platform.NewTwitch(store, stubFetcher{}, stubStorage{}, notifier),
	)

	recorders := map[string]contracts.Downloader{
		consts.SourceYoutube: downloaders.NewYtarchive(js, "", ""),
		consts.SourceTwitch:  downloaders.NewStreamlink(js, "", ""),
	}
	vod := downloaders.NewYtdlp(js, "", "", func(v *models.Video) string {
		p, err := reg.Get(v.Source)
		if err != nil {
			return ""
		}
		return p.SourceURL(v)
	})

	orch := NewOrchestrator(store, js, reg, notifier, recorders, vod, OrchestratorOpts{
		Tick:         time.Minute,
		MonitorFloor: time.Second,
		RetireDelay:  time.Millisecond,
	})

	return &harness{store: store, jobs: js, notifier: notifier, orch: orch}
}

func (h *harness) seed(t *testing.T, ch *models.Channel, v *models.Video) {
	t.Helper()
	require.NoError(t, h.store.ChannelStore().AddOrUpdate(ch))
	require.NoError(t, h.store.VideoStore().AddOrUpdate(v))
}

func (h *harness) video(t *testing.T, source, id string) *models.Video {
	t.Helper()
	v, hasRows, err := h.store.VideoStore().GetByID(source, id)
	require.NoError(t, err)
	require.True(t, hasRows)
	return v
}

func pastTime(d time.Duration) *time.Time {
	ts := time.Now().Add(-d)
	return &ts
}

func TestTick_DispatchesRecordingJob(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "UCa", Source: consts.SourceYoutube, ChannelName: "chan-a", Monitoring: true},
		&models.Video{ID: "vid1", Source: consts.SourceYoutube, ChannelID: "UCa", Status: models.StatusWaitingToRecord, IsLiveStream: true},
	)

	h.orch.Tick(context.Background())

	got := h.video(t, consts.SourceYoutube, "vid1")
	require.Equal(t, models.StatusRecording, got.Status)
	require.Equal(t, "vid1.mp4", got.Filename)
	require.Equal(t, 1, h.notifier.recordStarts)

	// A second tick must not redispatch or re-notify.
	h.orch.Tick(context.Background())
	require.Equal(t, 1, h.notifier.recordStarts)
}

func TestTick_FailedYoutubeRecordingRegressesToPending(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "UCa", Source: consts.SourceYoutube, Monitoring: true},
		&models.Video{ID: "vid2", Source: consts.SourceYoutube, ChannelID: "UCa", Status: models.StatusWaitingToRecord, IsLiveStream: true, ActualStartTime: pastTime(time.Hour)},
	)

	h.orch.Tick(context.Background())
	require.Equal(t, models.StatusRecording, h.video(t, consts.SourceYoutube, "vid2").Status)

	h.jobs.CompleteJob("vid2", false)
	h.orch.Tick(context.Background())

	got := h.video(t, consts.SourceYoutube, "vid2")
	require.Equal(t, models.StatusPending, got.Status)
	require.NotEmpty(t, got.Note)
}

func TestTick_FailedTwitchRecordingErrorsOut(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "streamer", Source: consts.SourceTwitch, Monitoring: true},
		&models.Video{ID: "tw1", Source: consts.SourceTwitch, ChannelID: "streamer", Status: models.StatusWaitingToRecord, IsLiveStream: true, ActualStartTime: pastTime(time.Hour)},
	)

	h.orch.Tick(context.Background())
	h.jobs.CompleteJob("tw1", false)
	h.orch.Tick(context.Background())

	got := h.video(t, consts.SourceTwitch, "tw1")
	require.Equal(t, models.StatusError, got.Status)
	require.NotEmpty(t, got.Note)
}

func TestTick_FreshJobIsBelowProbeFloor(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "streamer", Source: consts.SourceTwitch, Monitoring: true},
		&models.Video{ID: "tw2", Source: consts.SourceTwitch, ChannelID: "streamer", Status: models.StatusWaitingToRecord, IsLiveStream: true},
	)

	h.orch.Tick(context.Background())

	// Fail the job immediately: the probe floor must keep this tick
	// from reading the failure of a just-provisioned job... so raise
	// the floor above the job's age first.
	h.orch.monitorFloor = time.Hour
	h.jobs.CompleteJob("tw2", false)
	h.orch.Tick(context.Background())

	require.Equal(t, models.StatusRecording, h.video(t, consts.SourceTwitch, "tw2").Status)
}

func TestTick_RoundTripToArchived(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "UCa", Source: consts.SourceYoutube, ChannelName: "chan-a", Monitoring: true},
		&models.Video{ID: "vid3", Source: consts.SourceYoutube, ChannelID: "UCa", Status: models.StatusWaitingToRecord, IsLiveStream: true, ActualStartTime: pastTime(time.Hour)},
	)

	ctx := context.Background()

	h.orch.Tick(ctx) // dispatch recording
	h.jobs.CompleteJob("vid3", true)
	h.orch.Tick(ctx) // retire recording, dispatch upload

	got := h.video(t, consts.SourceYoutube, "vid3")
	require.Equal(t, models.StatusUploading, got.Status)
	require.NotNil(t, got.ArchivedTime)

	ch, _, err := h.store.ChannelStore().GetByID(consts.SourceYoutube, "UCa")
	require.NoError(t, err)
	require.Equal(t, "vid3", ch.LatestVideoID)

	h.jobs.CompleteJob("vid3", true) // upload job finishes
	h.orch.Tick(ctx)

	got = h.video(t, consts.SourceYoutube, "vid3")
	require.Equal(t, models.StatusArchived, got.Status)
	require.NotNil(t, got.ArchivedTime)
	require.Equal(t, 1, h.notifier.archived)

	// Job resource removed exactly once: another tick changes nothing.
	h.orch.Tick(ctx)
	require.Equal(t, models.StatusArchived, h.video(t, consts.SourceYoutube, "vid3").Status)
	require.Equal(t, 1, h.notifier.archived)
}

func TestTick_FailedUploadErrorsButKeepsArchiveStamp(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "UCa", Source: consts.SourceYoutube, Monitoring: true},
		&models.Video{ID: "vid4", Source: consts.SourceYoutube, ChannelID: "UCa", Status: models.StatusWaitingToRecord, IsLiveStream: true, ActualStartTime: pastTime(time.Hour)},
	)

	ctx := context.Background()

	h.orch.Tick(ctx)
	h.jobs.CompleteJob("vid4", true)
	h.orch.Tick(ctx)
	require.Equal(t, models.StatusUploading, h.video(t, consts.SourceYoutube, "vid4").Status)

	// The upload job fails: the video errors out but the capture stamp
	// from the finished recording is preserved.
	h.jobs.CompleteJob("vid4", false)
	h.orch.Tick(ctx)

	got := h.video(t, consts.SourceYoutube, "vid4")
	require.Equal(t, models.StatusError, got.Status)
	require.NotEmpty(t, got.Note)
	require.NotNil(t, got.ArchivedTime)
}

// brokenRetireService simulates a backend that loses permission to
// delete job resources after the upload already succeeded.
type brokenRetireService struct {
	*jobs.MemoryService
}

func (b *brokenRetireService) RemoveCompletedJobs(_ context.Context, v *models.Video) error {
	return fmt.Errorf("job deletion forbidden for video %q", v.ID)
}

func TestTick_RetirementFailureAfterSuccessIsConservative(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "UCa", Source: consts.SourceYoutube, Monitoring: true},
		&models.Video{ID: "vid6", Source: consts.SourceYoutube, ChannelID: "UCa", Status: models.StatusUploading, IsLiveStream: true, Filename: "vid6.mp4", ActualStartTime: pastTime(time.Hour)},
	)

	broken := &brokenRetireService{MemoryService: h.jobs}
	orch := NewOrchestrator(h.store, broken, h.orch.platforms, h.notifier, h.orch.recorders, h.orch.vodDownloader, OrchestratorOpts{
		Tick:         time.Minute,
		MonitorFloor: time.Second,
		RetireDelay:  time.Millisecond,
	})

	// Seed a succeeded upload job under the derived name.
	require.NoError(t, h.jobs.CreateJob(context.Background(), contracts.JobSpec{
		DeploymentName: jobs.InstanceName(consts.UploadPrefix, "vid6"),
		ContainerName:  consts.ContainerUploader,
		Args:           []string{"vid6.mp4"},
	}))
	h.jobs.CompleteJob("vid6", true)

	orch.Tick(context.Background())

	// The content was captured and the archive notification fired, but
	// the lost job resource still demands operator attention.
	got := h.video(t, consts.SourceYoutube, "vid6")
	require.Equal(t, models.StatusError, got.Status)
	require.NotEmpty(t, got.Note)
	require.NotNil(t, got.ArchivedTime)
	require.Equal(t, 1, h.notifier.archived)
}

func TestTick_DispatchesGenericDownloadForVOD(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "UCa", Source: consts.SourceYoutube, Monitoring: true},
		&models.Video{ID: "vid5", Source: consts.SourceYoutube, ChannelID: "UCa", Status: models.StatusWaitingToDownload},
	)

	h.orch.Tick(context.Background())

	got := h.video(t, consts.SourceYoutube, "vid5")
	require.Equal(t, models.StatusDownloading, got.Status)
	require.NotEmpty(t, got.Filename)
}

func TestTick_UnknownRecorderErrorsVideo(t *testing.T) {
	h := newHarness(t)
	h.seed(t,
		&models.Channel{ID: "c1", Source: consts.SourceFC2, Monitoring: true},
		&models.Video{ID: "fc1", Source: consts.SourceFC2, ChannelID: "c1", Status: models.StatusWaitingToRecord, IsLiveStream: true},
	)

	h.orch.Tick(context.Background())

	got := h.video(t, consts.SourceFC2, "fc1")
	require.Equal(t, models.StatusError, got.Status)
	require.NotEmpty(t, got.Note)
}
