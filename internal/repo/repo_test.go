package repo_test

import (
	"path/filepath"
	"testing"
	"time"

	"recarr/internal/database"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/repo"
)

func newTestStore(t *testing.T) *repo.Store {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "recarr-test.db"))
	if err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return repo.InitStores(db)
}

// TestVideoStore_AddReloadMutate covers the reload-before-write path.
func TestVideoStore_AddReloadMutate(t *testing.T) {
	s := newTestStore(t)
	vs := s.VideoStore()

	v := &models.Video{
		ID:        "vid001",
		Source:    consts.SourceYoutube,
		ChannelID: "UCtest",
		Status:    models.StatusScheduled,
		Title:     "Scheduled stream",
	}
	if err := vs.AddOrUpdate(v); err != nil {
		t.Fatalf("AddOrUpdate failed: %v", err)
	}

	exists, err := vs.Exists(consts.SourceYoutube, "vid001")
	if err != nil || !exists {
		t.Fatalf("expected video to exist, got exists=%v err=%v", exists, err)
	}

	// A stale in-memory copy must not be what Mutate writes from.
	v.Title = "stale local edit"

	got, err := vs.Mutate(consts.SourceYoutube, "vid001", func(cur *models.Video) error {
		if cur.Title != "Scheduled stream" {
			t.Errorf("Mutate did not reload the row, title = %q", cur.Title)
		}
		cur.Status = models.StatusWaitingToRecord
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate failed: %v", err)
	}
	if got.Status != models.StatusWaitingToRecord {
		t.Errorf("expected WaitingToRecord, got %v", got.Status)
	}
	if got.Title != "Scheduled stream" {
		t.Errorf("Mutate overwrote with a stale copy: %q", got.Title)
	}
}

// TestVideoStore_ListByStatus filters on the ordinal status column.
func TestVideoStore_ListByStatus(t *testing.T) {
	s := newTestStore(t)
	vs := s.VideoStore()

	for i, st := range []models.VideoStatus{
		models.StatusRecording,
		models.StatusDownloading,
		models.StatusArchived,
	} {
		v := &models.Video{
			ID:        "vid" + string(rune('a'+i)),
			Source:    consts.SourceTwitch,
			ChannelID: "streamer",
			Status:    st,
		}
		if err := vs.AddOrUpdate(v); err != nil {
			t.Fatalf("AddOrUpdate failed: %v", err)
		}
	}

	videos, err := vs.ListByStatus(models.StatusRecording, models.StatusDownloading)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	for _, v := range videos {
		if v.Status != models.StatusRecording && v.Status != models.StatusDownloading {
			t.Errorf("unexpected status %v in result set", v.Status)
		}
	}
}

// TestVideoStore_TimestampRoundTrip covers nullable time columns.
func TestVideoStore_TimestampRoundTrip(t *testing.T) {
	s := newTestStore(t)
	vs := s.VideoStore()

	sched := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v := &models.Video{
		ID:                 "vodX",
		Source:             consts.SourceFC2,
		ChannelID:          "777",
		Status:             models.StatusScheduled,
		ScheduledStartTime: &sched,
	}
	if err := vs.AddOrUpdate(v); err != nil {
		t.Fatalf("AddOrUpdate failed: %v", err)
	}

	got, hasRows, err := vs.GetByID(consts.SourceFC2, "vodX")
	if err != nil || !hasRows {
		t.Fatalf("GetByID failed: hasRows=%v err=%v", hasRows, err)
	}
	if got.ScheduledStartTime == nil || !got.ScheduledStartTime.Equal(sched) {
		t.Errorf("scheduled start did not round-trip: %v", got.ScheduledStartTime)
	}
	if got.ArchivedTime != nil {
		t.Errorf("expected nil archived time, got %v", got.ArchivedTime)
	}
}

// TestChannelStore_MonitoringFilter ensures non-monitoring channels stay
// out of scan listings.
func TestChannelStore_MonitoringFilter(t *testing.T) {
	s := newTestStore(t)
	cs := s.ChannelStore()

	on := &models.Channel{ID: "UCon", Source: consts.SourceYoutube, ChannelName: "on", Monitoring: true}
	off := &models.Channel{ID: "UCoff", Source: consts.SourceYoutube, ChannelName: "off", Monitoring: false}

	for _, c := range []*models.Channel{on, off} {
		if err := cs.AddOrUpdate(c); err != nil {
			t.Fatalf("AddOrUpdate failed: %v", err)
		}
	}

	channels, err := cs.ListMonitoring(consts.SourceYoutube)
	if err != nil {
		t.Fatalf("ListMonitoring failed: %v", err)
	}
	if len(channels) != 1 || channels[0].ID != "UCon" {
		t.Fatalf("expected only the monitoring channel, got %+v", channels)
	}
}

// TestChannelStore_UpdateLatestVideo updates the back-reference.
func TestChannelStore_UpdateLatestVideo(t *testing.T) {
	s := newTestStore(t)
	cs := s.ChannelStore()

	c := &models.Channel{ID: "UCx", Source: consts.SourceYoutube, Monitoring: true}
	if err := cs.AddOrUpdate(c); err != nil {
		t.Fatalf("AddOrUpdate failed: %v", err)
	}

	if err := cs.UpdateLatestVideo(consts.SourceYoutube, "UCx", "vid42"); err != nil {
		t.Fatalf("UpdateLatestVideo failed: %v", err)
	}

	got, _, err := cs.GetByID(consts.SourceYoutube, "UCx")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.LatestVideoID != "vid42" {
		t.Errorf("expected latest video vid42, got %q", got.LatestVideoID)
	}

	if err := cs.UpdateLatestVideo(consts.SourceYoutube, "nope", "vid42"); err == nil {
		t.Error("expected error updating a missing channel")
	}
}
