package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recarr/internal/database"
	"recarr/internal/models"
	"recarr/internal/repo"
)

type countingPlatform struct {
	source   string
	interval time.Duration
	scans    int
}

func (p *countingPlatform) Source() string          { return p.source }
func (p *countingPlatform) Interval() time.Duration { return p.interval }
func (p *countingPlatform) Recoverable() bool       { return false }

func (p *countingPlatform) SourceURL(_ *models.Video) string { return "" }

func (p *countingPlatform) UpdateVideosData(_ context.Context, _ *models.Channel) error {
	p.scans++
	return nil
}

func (p *countingPlatform) UpdateVideoData(_ context.Context, _ *models.Video) error { return nil }

func newTestStore(t *testing.T) *repo.Store {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "recarr-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return repo.InitStores(db)
}

// The cadence law: the first tick scans immediately, then scans recur
// every interval plus one base tick.
func TestTick_AccumulatorCadence(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ChannelStore().AddOrUpdate(&models.Channel{
		ID: "chan1", Source: "Fakecast", Monitoring: true,
	}))

	// interval = 3 base ticks, so scans land on ticks 1, 5, 9, ...
	p := &countingPlatform{source: "Fakecast", interval: 30 * time.Second}
	s := New(store, 10*time.Second, p)

	ctx := context.Background()
	wantAt := map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 2, 8: 2, 9: 3}

	for tick := 1; tick <= 9; tick++ {
		s.Tick(ctx)
		if want, ok := wantAt[tick]; ok {
			require.Equalf(t, want, p.scans, "scan count after tick %d", tick)
		}
	}
}

func TestTick_IgnoresUnmonitoredChannels(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ChannelStore().AddOrUpdate(&models.Channel{
		ID: "chan1", Source: "Fakecast", Monitoring: false,
	}))

	p := &countingPlatform{source: "Fakecast", interval: 10 * time.Second}
	s := New(store, 10*time.Second, p)

	s.Tick(context.Background())
	require.Zero(t, p.scans)
}

func TestTick_PlatformsRunOnIndependentClocks(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.ChannelStore().AddOrUpdate(&models.Channel{
		ID: "chan1", Source: "Fast", Monitoring: true,
	}))
	require.NoError(t, store.ChannelStore().AddOrUpdate(&models.Channel{
		ID: "chan2", Source: "Slow", Monitoring: true,
	}))

	fast := &countingPlatform{source: "Fast", interval: 10 * time.Second}
	slow := &countingPlatform{source: "Slow", interval: 50 * time.Second}
	s := New(store, 10*time.Second, fast, slow)

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		s.Tick(ctx)
	}

	// Fast fires on ticks 1, 3, 5; slow only on tick 1.
	require.Equal(t, 3, fast.scans)
	require.Equal(t, 1, slow.scans)
}
