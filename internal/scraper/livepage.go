package scraper

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly"

	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

// LivePageFetcher derives liveness signals from a channel's public live
// page markup. It serves the platforms without a usable feed: the live
// page either carries live-broadcast markup right now or it doesn't.
type LivePageFetcher struct {
	cookies *CookieManager
	source  string

	// pageURL builds the channel's live page address.
	pageURL func(channelID string) string

	// endedKind is the signal reported for a tracked stream that is no
	// longer live: WasLive where the platform keeps a downloadable VOD,
	// Ended where it doesn't.
	endedKind models.SignalKind
}

func NewTwitchFetcher(cm *CookieManager) *LivePageFetcher {
	return &LivePageFetcher{
		cookies: cm,
		source:  consts.SourceTwitch,
		pageURL: func(channelID string) string {
			return "https://www.twitch.tv/" + channelID
		},
		endedKind: models.SignalWasLive,
	}
}

func NewTwitcastingFetcher(cm *CookieManager) *LivePageFetcher {
	return &LivePageFetcher{
		cookies: cm,
		source:  consts.SourceTwitcasting,
		pageURL: func(channelID string) string {
			return "https://twitcasting.tv/" + channelID
		},
		endedKind: models.SignalEnded,
	}
}

func NewFC2Fetcher(cm *CookieManager) *LivePageFetcher {
	return &LivePageFetcher{
		cookies: cm,
		source:  consts.SourceFC2,
		pageURL: func(channelID string) string {
			return "https://live.fc2.com/" + channelID + "/"
		},
		endedKind: models.SignalEnded,
	}
}

// livePageMeta is the markup lifted off one live page.
type livePageMeta struct {
	reachable       bool
	isLiveBroadcast bool
	title           string
	thumbnail       string
	streamURL       string
	startDate       string
}

// FetchChannelSignals reports at most one signal: the currently running
// broadcast, if any. Ended broadcasts leave no feed trail on these
// platforms.
func (f *LivePageFetcher) FetchChannelSignals(ctx context.Context, c *models.Channel) ([]*models.RawSignal, error) {
	meta, err := f.scrapeLivePage(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}
	if !meta.isLiveBroadcast {
		return []*models.RawSignal{}, nil
	}

	return []*models.RawSignal{{
		VideoID:         f.streamID(c.ID, meta),
		Kind:            models.SignalLive,
		Title:           meta.title,
		Thumbnail:       meta.thumbnail,
		ActualStartTime: parseTime(meta.startDate),
	}}, nil
}

// FetchVideoSignal re-checks a tracked stream against the live page: if
// the page no longer shows this broadcast as live, it has ended.
func (f *LivePageFetcher) FetchVideoSignal(ctx context.Context, v *models.Video) (*models.RawSignal, error) {
	meta, err := f.scrapeLivePage(ctx, v.ChannelID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, nil
	}

	if meta.isLiveBroadcast && f.streamID(v.ChannelID, meta) == v.ID {
		return &models.RawSignal{
			VideoID:         v.ID,
			Kind:            models.SignalLive,
			Title:           meta.title,
			Thumbnail:       meta.thumbnail,
			ActualStartTime: parseTime(meta.startDate),
		}, nil
	}

	return &models.RawSignal{VideoID: v.ID, Kind: f.endedKind}, nil
}

// scrapeLivePage fetches the live page markup. nil meta with nil error
// means temporarily unreachable.
func (f *LivePageFetcher) scrapeLivePage(ctx context.Context, channelID string) (*livePageMeta, error) {
	pageURL := f.pageURL(channelID)

	collector, err := newCollector(ctx, f.cookies, pageURL)
	if err != nil {
		return nil, err
	}

	var (
		meta     livePageMeta
		notFound bool
		netErr   error
	)

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		meta.reachable = true
		meta.isLiveBroadcast = metaTrue(e.ChildAttr(`meta[itemprop="isLiveBroadcast"]`, "content"))
		meta.title = e.ChildAttr(`meta[property="og:title"]`, "content")
		meta.thumbnail = e.ChildAttr(`meta[property="og:image"]`, "content")
		meta.streamURL = e.ChildAttr(`meta[property="og:url"]`, "content")
		meta.startDate = e.ChildAttr(`meta[itemprop="startDate"]`, "content")
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode == http.StatusNotFound {
			notFound = true
			return
		}
		netErr = err
	})

	if err := collector.Visit(pageURL); err != nil && !notFound {
		logging.D(1, "Live page %q unreachable: %v", pageURL, err)
		return nil, nil
	}
	collector.Wait()

	if netErr != nil {
		logging.D(1, "Live page %q unreachable: %v", pageURL, netErr)
		return nil, nil
	}
	if notFound || !meta.reachable {
		return nil, nil
	}
	return &meta, nil
}

// streamID derives a stable broadcast id. The canonical stream URL's
// trailing numeric segment is used when the platform exposes one, and a
// start-time stamp on the channel id otherwise.
func (f *LivePageFetcher) streamID(channelID string, meta *livePageMeta) string {
	if seg := lastNumericSegment(meta.streamURL); seg != "" {
		return channelID + "-" + seg
	}
	if ts := parseTime(meta.startDate); ts != nil {
		return channelID + "-" + ts.UTC().Format("20060102150405")
	}
	// Without either marker, one broadcast per channel per day.
	return channelID + "-" + time.Now().UTC().Format("20060102")
}

func lastNumericSegment(rawURL string) string {
	s := strings.TrimSuffix(rawURL, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if s == "" {
		return ""
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s
}
