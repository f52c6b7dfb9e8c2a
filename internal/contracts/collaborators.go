package contracts

import (
	"context"
	"time"

	"recarr/internal/models"
)

// JobSpec describes one two-container job unit: an init/downloader
// container running the platform tool, and a sidecar uploader that moves
// the finished file to durable storage.
type JobSpec struct {
	DeploymentName string
	ContainerName  string
	ImageName      string
	FileName       string
	Command        []string
	Args           []string
	MountPath      string
	UseCookies     bool
}

// JobService is the backend-agnostic contract for starting, probing and
// retiring jobs. Concrete implementations target different cluster
// backends; core code must not assume which one is active.
type JobService interface {
	// CreateJob starts a job. Creating a job whose derived name is
	// already active is a logged no-op, not an error.
	CreateJob(ctx context.Context, spec JobSpec) error

	// IsJobSucceeded reports zero active replicas with at least one
	// successful completion.
	IsJobSucceeded(ctx context.Context, keyword string) (bool, error)

	// IsJobFailed reports zero active replicas with at least one failure
	// and no successes.
	IsJobFailed(ctx context.Context, keyword string) (bool, error)

	// RemoveCompletedJobs deletes the job resource after its outcome has
	// been consumed. It must re-check IsJobFailed first and return an
	// error rather than silently deleting a failed job.
	RemoveCompletedJobs(ctx context.Context, v *models.Video) error
}

// Downloader builds and dispatches the platform-specific recording or
// downloading job for one video.
type Downloader interface {
	// Prefix is the instance-name prefix shared by every job this
	// downloader creates.
	Prefix() string

	// CreateJob dispatches the job and returns the output filename the
	// job will produce.
	CreateJob(ctx context.Context, v *models.Video, useCookies bool) (filename string, err error)
}

// Platform is one per-platform classifier: it consumes raw availability
// signals and advances video lifecycle state.
type Platform interface {
	Source() string
	Interval() time.Duration

	// UpdateVideosData discovers new or live content for a channel.
	UpdateVideosData(ctx context.Context, c *models.Channel) error

	// UpdateVideoData refreshes one known video.
	UpdateVideoData(ctx context.Context, v *models.Video) error

	// Recoverable reports whether a failed recording job for this
	// platform may regress to Pending for another recovery pass instead
	// of erroring out.
	Recoverable() bool

	// SourceURL builds the platform watch URL for a video, used by the
	// generic downloader.
	SourceURL(v *models.Video) string
}

// SignalFetcher acquires raw platform signals. A nil signal with a nil
// error means "temporarily unavailable", which callers must not conflate
// with deletion.
type SignalFetcher interface {
	FetchChannelSignals(ctx context.Context, c *models.Channel) ([]*models.RawSignal, error)
	FetchVideoSignal(ctx context.Context, v *models.Video) (*models.RawSignal, error)
}

// ChannelInfoFetcher acquires channel display metadata. Fetchers that
// cannot provide it simply don't implement this.
type ChannelInfoFetcher interface {
	FetchChannelInfo(ctx context.Context, c *models.Channel) (*models.ChannelInfo, error)
}

// StorageChecker reconciles lifecycle state against durable storage.
type StorageChecker interface {
	FileExists(ctx context.Context, filename string) (bool, error)
}

// Notifier delivers fire-and-forget transition events. Implementations
// decide rendering and transport; callers only decide when to fire.
type Notifier interface {
	NotifyRecordStart(c *models.Channel, v *models.Video)
	NotifyArchived(c *models.Channel, v *models.Video)
	NotifySkipped(c *models.Channel, v *models.Video)
	NotifySourceRemoved(c *models.Channel, v *models.Video)
}
