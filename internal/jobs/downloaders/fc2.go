package downloaders

import (
	"context"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// FC2LiveDL records live FC2 streams.
type FC2LiveDL struct {
	base
}

// NewFC2LiveDL returns the FC2 live recorder downloader.
func NewFC2LiveDL(js contracts.JobService, primary, fallback string) *FC2LiveDL {
	return &FC2LiveDL{base: newBase(js, primary, fallback)}
}

// Prefix returns the instance-name prefix for FC2 jobs.
func (f *FC2LiveDL) Prefix() string { return consts.DLerFC2 }

// CreateJob dispatches an fc2-live-dl recording job for the video.
func (f *FC2LiveDL) CreateJob(ctx context.Context, v *models.Video, useCookies bool) (string, error) {
	filename := v.ID + ".mp4"

	args := []string{
		"--save-dir", consts.MountPath,
		"--wait",
		"--quality", "3Mbps",
		"--latency", "mid",
	}

	if useCookies {
		args = append(args, "--cookies", CookiesMountFile)
	}

	args = append(args, "https://live.fc2.com/"+v.ChannelID+"/")

	js := spec(f.Prefix(), v.ID, filename, args, useCookies)
	logging.D(1, "Built fc2-live-dl job %q for video %q: %v", js.DeploymentName, v.ID, args)

	if err := f.dispatch(ctx, js, consts.ImageFC2); err != nil {
		return "", err
	}
	return filename, nil
}
