package downloaders

import (
	"context"
	"errors"
	"path"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// YtdlpDownloader is the generic metadata/VOD download tool used for
// finished streams and regular uploads on every platform. The source URL
// construction is platform-specific and injected at build time.
type YtdlpDownloader struct {
	base
	sourceURL func(v *models.Video) string
}

// NewYtdlp returns the generic yt-dlp downloader.
func NewYtdlp(js contracts.JobService, primary, fallback string, sourceURL func(v *models.Video) string) *YtdlpDownloader {
	return &YtdlpDownloader{
		base:      newBase(js, primary, fallback),
		sourceURL: sourceURL,
	}
}

// Prefix returns the instance-name prefix for yt-dlp jobs.
func (y *YtdlpDownloader) Prefix() string { return consts.DLerYtdlp }

// CreateJob dispatches a yt-dlp download job for the video.
func (y *YtdlpDownloader) CreateJob(ctx context.Context, v *models.Video, useCookies bool) (string, error) {
	url := y.sourceURL(v)
	if url == "" {
		return "", errors.New("no source URL could be built for video " + v.ID)
	}

	filename := v.ID + ".mp4"

	args := make([]string, 0, 16)
	args = append(args,
		"--restrict-filenames",
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mp4",
		"--embed-thumbnail",
		"--embed-metadata",
		"-o", path.Join(consts.MountPath, filename),
	)

	if useCookies {
		args = append(args, "--cookies", CookiesMountFile)
	}

	args = append(args, url)

	js := spec(y.Prefix(), v.ID, filename, args, useCookies)
	logging.D(1, "Built yt-dlp job %q for video %q: %v", js.DeploymentName, v.ID, args)

	if err := y.dispatch(ctx, js, consts.ImageYtdlp); err != nil {
		return "", err
	}
	return filename, nil
}
