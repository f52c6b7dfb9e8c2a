// Package jobs holds the conventions shared by every concrete job
// backend: deterministic instance naming and job spec validation.
package jobs

import (
	"errors"
	"path"
	"strings"

	"recarr/internal/contracts"
)

// InstanceName derives the job resource name for an id under a
// downloader prefix. Creating and looking up jobs through the same
// derivation gives natural idempotency: a dispatcher always finds the
// job a retried scan already created.
func InstanceName(prefix, id string) string {
	return strings.ToLower(prefix + normalize(id))
}

// normalize strips URL path segments, query strings, file extensions and
// the characters '_' and ':' from an id.
func normalize(id string) string {
	s := id

	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}

	s = strings.TrimSuffix(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}

	s = strings.TrimSuffix(s, path.Ext(s))

	return strings.NewReplacer("_", "", ":", "").Replace(s)
}

// ValidateSpec rejects specs no backend can run.
func ValidateSpec(spec contracts.JobSpec) error {
	if len(spec.Command) == 0 && len(spec.Args) == 0 {
		return errors.New("job spec must carry a command or args")
	}
	if spec.DeploymentName == "" {
		return errors.New("job spec must carry a deployment name")
	}
	return nil
}
