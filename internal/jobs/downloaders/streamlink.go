package downloaders

import (
	"context"
	"path"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// Streamlink records live Twitch streams.
type Streamlink struct {
	base
}

// NewStreamlink returns the Twitch live recorder downloader.
func NewStreamlink(js contracts.JobService, primary, fallback string) *Streamlink {
	return &Streamlink{base: newBase(js, primary, fallback)}
}

// Prefix returns the instance-name prefix for streamlink jobs.
func (s *Streamlink) Prefix() string { return consts.DLerStreamlink }

// CreateJob dispatches a streamlink recording job for the video.
func (s *Streamlink) CreateJob(ctx context.Context, v *models.Video, useCookies bool) (string, error) {
	filename := v.ID + ".ts"

	args := []string{
		"--twitch-disable-ads",
		"--twitch-disable-hosting",
		"--retry-streams", "30",
		"--output", path.Join(consts.MountPath, filename),
		"twitch.tv/" + v.ChannelID,
		"best",
	}

	js := spec(s.Prefix(), v.ID, filename, args, useCookies)
	logging.D(1, "Built streamlink job %q for video %q: %v", js.DeploymentName, v.ID, args)

	if err := s.dispatch(ctx, js, consts.ImageStreamlink); err != nil {
		return "", err
	}
	return filename, nil
}
