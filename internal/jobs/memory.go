package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"recarr/internal/contracts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// jobRecord tracks one job resource in the in-memory backend.
type jobRecord struct {
	spec      contracts.JobSpec
	active    bool
	succeeded int
	failed    int
}

// MemoryService is an in-memory JobService. It backs dry-run mode and
// tests; real deployments swap in a cluster-backed implementation with
// the same naming convention.
type MemoryService struct {
	mu   sync.Mutex
	jobs map[string]*jobRecord
}

// NewMemoryService returns an empty in-memory job backend.
func NewMemoryService() *MemoryService {
	return &MemoryService{jobs: make(map[string]*jobRecord)}
}

// CreateJob registers a new active job, or no-ops when a job under the
// same derived name is still active.
func (m *MemoryService) CreateJob(_ context.Context, spec contracts.JobSpec) error {
	if err := ValidateSpec(spec); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if j, ok := m.jobs[spec.DeploymentName]; ok && j.active {
		logging.I("Job %q already active, skipping duplicate dispatch", spec.DeploymentName)
		return nil
	}

	m.jobs[spec.DeploymentName] = &jobRecord{spec: spec, active: true}
	return nil
}

// IsJobSucceeded reports zero active replicas and at least one success.
func (m *MemoryService) IsJobSucceeded(_ context.Context, keyword string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.lookup(keyword)
	if !ok {
		return false, nil
	}
	return !j.active && j.succeeded > 0, nil
}

// IsJobFailed reports zero active replicas, at least one failure and no
// successes.
func (m *MemoryService) IsJobFailed(_ context.Context, keyword string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.lookup(keyword)
	if !ok {
		return false, nil
	}
	return !j.active && j.failed > 0 && j.succeeded == 0, nil
}

// RemoveCompletedJobs deletes the video's completed job resources.
// Active jobs are left alone, so retiring a finished recording never
// deletes the upload job just dispatched for the same video. A job
// still marked failed is never silently deleted: the caller needs the
// failure signal to avoid double-processing.
func (m *MemoryService) RemoveCompletedJobs(_ context.Context, v *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(normalize(v.ID))
	for name, j := range m.jobs {
		if !strings.Contains(name, needle) || j.active {
			continue
		}
		if j.failed > 0 && j.succeeded == 0 {
			return fmt.Errorf("refusing to delete failed job %q for video %q", name, v.ID)
		}
		delete(m.jobs, name)
	}
	return nil
}

// CompleteJob finishes a job with the given outcome. Test/dry-run hook.
func (m *MemoryService) CompleteJob(keyword string, succeeded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.lookup(keyword)
	if !ok {
		return
	}
	j.active = false
	if succeeded {
		j.succeeded++
	} else {
		j.failed++
	}
}

// lookup finds a job whose derived name contains the normalized keyword.
func (m *MemoryService) lookup(keyword string) (*jobRecord, bool) {
	_, j, ok := m.lookupName(keyword)
	return j, ok
}

func (m *MemoryService) lookupName(keyword string) (string, *jobRecord, bool) {
	needle := strings.ToLower(normalize(keyword))
	for name, j := range m.jobs {
		if strings.Contains(name, needle) {
			return name, j, true
		}
	}
	return "", nil, false
}
