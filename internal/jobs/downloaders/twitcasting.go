package downloaders

import (
	"context"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// TwitcastingRecorder records live Twitcasting streams.
type TwitcastingRecorder struct {
	base
}

// NewTwitcastingRecorder returns the Twitcasting live recorder downloader.
func NewTwitcastingRecorder(js contracts.JobService, primary, fallback string) *TwitcastingRecorder {
	return &TwitcastingRecorder{base: newBase(js, primary, fallback)}
}

// Prefix returns the instance-name prefix for Twitcasting jobs.
func (t *TwitcastingRecorder) Prefix() string { return consts.DLerTwitcasting }

// CreateJob dispatches a Twitcasting recording job for the video.
func (t *TwitcastingRecorder) CreateJob(ctx context.Context, v *models.Video, useCookies bool) (string, error) {
	filename := v.ID + ".mp4"

	args := []string{
		"record",
		"--output", consts.MountPath,
		"--wait",
		v.ChannelID,
	}

	js := spec(t.Prefix(), v.ID, filename, args, useCookies)
	logging.D(1, "Built twitcasting-record job %q for video %q: %v", js.DeploymentName, v.ID, args)

	if err := t.dispatch(ctx, js, consts.ImageTwitcasting); err != nil {
		return "", err
	}
	return filename, nil
}
