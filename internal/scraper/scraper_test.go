package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recarr/internal/models"
)

func TestSignalFromWatchPage(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		meta watchPageMeta
		want models.SignalKind
	}{
		{
			name: "plain upload",
			meta: watchPageMeta{title: "an upload"},
			want: models.SignalNotLiveStream,
		},
		{
			name: "scheduled premiere",
			meta: watchPageMeta{title: "premiere", isLiveBroadcast: true, startDate: "2025-06-01T18:00:00Z"},
			want: models.SignalUpcoming,
		},
		{
			name: "live now",
			meta: watchPageMeta{title: "live", isLiveBroadcast: true, startDate: "2025-06-01T10:00:00Z"},
			want: models.SignalLive,
		},
		{
			name: "finished broadcast",
			meta: watchPageMeta{title: "vod", isLiveBroadcast: true, startDate: "2025-05-30T10:00:00Z", endDate: "2025-05-30T12:00:00Z"},
			want: models.SignalWasLive,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := signalFromWatchPage("vid1", tc.meta, now)
			require.Equal(t, tc.want, sig.Kind)
			require.Equal(t, "vid1", sig.VideoID)
		})
	}
}

func TestSignalFromWatchPage_MemberOnlyAndTimes(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sig := signalFromWatchPage("vid2", watchPageMeta{
		title:                "members stream",
		isLiveBroadcast:      true,
		requiresSubscription: true,
		startDate:            "2025-06-01T18:00:00Z",
	}, now)

	require.Equal(t, models.SignalUpcoming, sig.Kind)
	require.True(t, sig.MemberOnly)
	require.NotNil(t, sig.ScheduledStartTime)
	require.Nil(t, sig.ActualStartTime)
}

func TestStreamID(t *testing.T) {
	f := NewTwitcastingFetcher(nil)

	// Canonical movie URL wins.
	id := f.streamID("caster", &livePageMeta{streamURL: "https://twitcasting.tv/caster/movie/781234567"})
	require.Equal(t, "caster-781234567", id)

	// Start time stamp as fallback.
	id = f.streamID("caster", &livePageMeta{startDate: "2025-06-01T10:30:00Z"})
	require.Equal(t, "caster-20250601103000", id)
}

func TestLastNumericSegment(t *testing.T) {
	require.Equal(t, "123456", lastNumericSegment("https://twitcasting.tv/user/movie/123456"))
	require.Equal(t, "", lastNumericSegment("https://www.twitch.tv/somestreamer"))
	require.Equal(t, "", lastNumericSegment(""))
}
