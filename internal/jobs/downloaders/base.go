// Package downloaders builds the per-platform recording/downloading job
// specs and dispatches them through the job backend contract.
package downloaders

import (
	"context"
	"fmt"

	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/jobs"
	"recarr/internal/utils/logging"
)

// CookiesMountFile is where the downloader containers expect the
// Netscape cookies file when a channel requests authentication.
const CookiesMountFile = "/cookies/cookies.txt"

// base carries what every concrete downloader shares: the job backend
// and the image registries.
type base struct {
	jobs             contracts.JobService
	registryPrimary  string
	registryFallback string
}

func newBase(js contracts.JobService, primary, fallback string) base {
	if primary == "" {
		primary = consts.RegistryPrimary
	}
	if fallback == "" {
		fallback = consts.RegistryFallback
	}
	return base{jobs: js, registryPrimary: primary, registryFallback: fallback}
}

// dispatch creates the job with the primary registry's image and falls
// back to the secondary registry exactly once on any failure before
// propagating the error.
func (b base) dispatch(ctx context.Context, spec contracts.JobSpec, image string) error {
	spec.ImageName = b.registryPrimary + "/" + image

	err := b.jobs.CreateJob(ctx, spec)
	if err == nil {
		return nil
	}

	logging.W("Job %q failed to create with image %q, retrying with fallback registry: %v",
		spec.DeploymentName, spec.ImageName, err)

	spec.ImageName = b.registryFallback + "/" + image
	if fbErr := b.jobs.CreateJob(ctx, spec); fbErr != nil {
		return fmt.Errorf("job %q failed with primary (%v) and fallback registries: %w",
			spec.DeploymentName, err, fbErr)
	}
	return nil
}

// spec assembles the common two-container job spec fields.
func spec(prefix, videoID, filename string, args []string, useCookies bool) contracts.JobSpec {
	return contracts.JobSpec{
		DeploymentName: jobs.InstanceName(prefix, videoID),
		ContainerName:  consts.ContainerDownloader,
		FileName:       filename,
		Args:           args,
		MountPath:      consts.MountPath,
		UseCookies:     useCookies,
	}
}
