package jobs

import (
	"context"
	"testing"

	"recarr/internal/contracts"
	"recarr/internal/models"
)

// TestInstanceName checks prefix joining, lowercasing and id normalization.
func TestInstanceName(t *testing.T) {
	cases := []struct {
		prefix, id, want string
	}{
		{"ytarchive", "dQw4w9WgXcQ", "ytarchivedqw4w9wgxcq"},
		{"ytarchive", "https://www.youtube.com/watch?v=abc", "ytarchivewatch"},
		{"twitcastingrecord", "twitcasting.tv/c:someuser/", "twitcastingrecordcsomeuser"},
		{"ytdlp", "clip_01.mp4", "ytdlpclip01"},
		{"streamlink", "Some_Streamer:live", "streamlinksomestreamerlive"},
	}

	for _, tc := range cases {
		if got := InstanceName(tc.prefix, tc.id); got != tc.want {
			t.Errorf("InstanceName(%q, %q) = %q, want %q", tc.prefix, tc.id, got, tc.want)
		}
	}
}

// TestValidateSpec_RejectsEmptyCommandAndArgs ensures a spec with
// neither command nor args never reaches a backend.
func TestValidateSpec_RejectsEmptyCommandAndArgs(t *testing.T) {
	spec := contracts.JobSpec{DeploymentName: "ytdlpabc"}
	if err := ValidateSpec(spec); err == nil {
		t.Fatal("expected error for spec with neither command nor args, got nil")
	}

	spec.Args = []string{"--foo"}
	if err := ValidateSpec(spec); err != nil {
		t.Fatalf("expected args-only spec to pass, got: %v", err)
	}
}

// TestMemoryService_DuplicateDispatchIsNoop verifies CreateJob
// idempotency while a same-named job is active.
func TestMemoryService_DuplicateDispatchIsNoop(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryService()

	spec := contracts.JobSpec{
		DeploymentName: InstanceName("ytarchive", "abc123"),
		Args:           []string{"--wait"},
	}

	if err := m.CreateJob(ctx, spec); err != nil {
		t.Fatalf("first CreateJob failed: %v", err)
	}
	if err := m.CreateJob(ctx, spec); err != nil {
		t.Fatalf("duplicate CreateJob should be a no-op, got: %v", err)
	}

	if len(m.jobs) != 1 {
		t.Fatalf("expected exactly one job, got %d", len(m.jobs))
	}
}

// TestMemoryService_RemoveRefusesFailedJob ensures a failed job is never
// silently deleted.
func TestMemoryService_RemoveRefusesFailedJob(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryService()

	spec := contracts.JobSpec{
		DeploymentName: InstanceName("ytarchive", "abc123"),
		Args:           []string{"--wait"},
	}
	if err := m.CreateJob(ctx, spec); err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	m.CompleteJob("abc123", false)

	failed, err := m.IsJobFailed(ctx, "abc123")
	if err != nil || !failed {
		t.Fatalf("expected job to read as failed, got failed=%v err=%v", failed, err)
	}

	v := &models.Video{ID: "abc123", Source: "Youtube"}
	if err := m.RemoveCompletedJobs(ctx, v); err == nil {
		t.Fatal("expected RemoveCompletedJobs to refuse deleting a failed job")
	}

	// After a success the same call must delete exactly once.
	m.CompleteJob("abc123", true)
	if err := m.RemoveCompletedJobs(ctx, v); err != nil {
		t.Fatalf("expected removal of succeeded job to pass, got: %v", err)
	}
	if len(m.jobs) != 0 {
		t.Fatalf("expected job resource to be removed, have %d", len(m.jobs))
	}
}
