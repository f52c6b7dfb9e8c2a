package downloaders

import (
	"context"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// Ytarchive records live YouTube streams from their start.
type Ytarchive struct {
	base
}

// NewYtarchive returns the YouTube live recorder downloader.
func NewYtarchive(js contracts.JobService, primary, fallback string) *Ytarchive {
	return &Ytarchive{base: newBase(js, primary, fallback)}
}

// Prefix returns the instance-name prefix for ytarchive jobs.
func (y *Ytarchive) Prefix() string { return consts.DLerYtarchive }

// CreateJob dispatches a ytarchive recording job for the video.
func (y *Ytarchive) CreateJob(ctx context.Context, v *models.Video, useCookies bool) (string, error) {
	filename := v.ID + ".mp4"

	args := make([]string, 0, 16)
	args = append(args,
		"--add-metadata",
		"--merge",
		"--retry-frags", "30",
		"--thumbnail",
		"--wait",
		"-o", v.ID,
	)

	if useCookies {
		args = append(args, "-c", CookiesMountFile)
	}

	args = append(args, "https://www.youtube.com/watch?v="+v.ID, "best")

	js := spec(y.Prefix(), v.ID, filename, args, useCookies)
	logging.D(1, "Built ytarchive job %q for video %q: %v", js.DeploymentName, v.ID, args)

	if err := y.dispatch(ctx, js, consts.ImageYtarchive); err != nil {
		return "", err
	}
	return filename, nil
}
