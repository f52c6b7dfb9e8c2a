// Package scraper acquires raw platform signals by scraping the public
// web surfaces of each platform.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocolly/colly"
	"golang.org/x/net/publicsuffix"

	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"
)

const scraperUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// YoutubeFetcher derives signals from the channel Atom feed and the
// schema.org markup on watch pages.
type YoutubeFetcher struct {
	cookies *CookieManager
}

func NewYoutubeFetcher(cm *CookieManager) *YoutubeFetcher {
	return &YoutubeFetcher{cookies: cm}
}

// feedEntry is one <entry> parsed out of the channel feed.
type feedEntry struct {
	videoID     string
	title       string
	description string
	thumbnail   string
	published   string
}

// FetchChannelSignals reads the channel feed for discovery, then checks
// each entry's watch page for liveness. The feed carries no liveness
// markup of its own.
func (f *YoutubeFetcher) FetchChannelSignals(ctx context.Context, c *models.Channel) ([]*models.RawSignal, error) {
	feedURL := consts.YoutubeFeedURL + c.ID

	entries, err := f.fetchFeed(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed for channel %q: %w", c.ID, err)
	}
	if entries == nil {
		// Feed endpoint unreachable: temporarily unavailable.
		return nil, nil
	}

	signals := make([]*models.RawSignal, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		sig, err := f.watchPageSignal(ctx, entry.videoID)
		if err != nil {
			logging.W("Watch page check for video %q did not complete: %v", entry.videoID, err)
			continue
		}
		if sig == nil {
			continue
		}

		// The feed copy of the metadata is authoritative for discovery.
		if sig.Title == "" {
			sig.Title = entry.title
		}
		if sig.Description == "" {
			sig.Description = entry.description
		}
		if sig.Thumbnail == "" {
			sig.Thumbnail = entry.thumbnail
		}
		if sig.PublishedAt == nil {
			sig.PublishedAt = parseTime(entry.published)
		}

		signals = append(signals, sig)
	}
	return signals, nil
}

// FetchVideoSignal checks one watch page.
func (f *YoutubeFetcher) FetchVideoSignal(ctx context.Context, v *models.Video) (*models.RawSignal, error) {
	return f.watchPageSignal(ctx, v.ID)
}

// FetchChannelInfo scrapes display metadata off the channel page.
func (f *YoutubeFetcher) FetchChannelInfo(ctx context.Context, c *models.Channel) (*models.ChannelInfo, error) {
	pageURL := "https://www.youtube.com/channel/" + c.ID

	collector, err := f.newCollector(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	info := &models.ChannelInfo{}
	collector.OnHTML("html", func(e *colly.HTMLElement) {
		info.ChannelName = e.ChildAttr(`meta[property="og:title"]`, "content")
		info.Avatar = e.ChildAttr(`meta[property="og:image"]`, "content")
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit channel page %q: %w", pageURL, err)
	}
	collector.Wait()

	if info.ChannelName == "" {
		return nil, nil
	}
	return info, nil
}

// fetchFeed parses the channel Atom feed. A nil slice with nil error
// means the endpoint could not be reached.
func (f *YoutubeFetcher) fetchFeed(ctx context.Context, feedURL string) ([]feedEntry, error) {
	collector, err := f.newCollector(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	var (
		entries  []feedEntry
		fetchErr error
	)

	collector.OnXML("//feed/entry", func(e *colly.XMLElement) {
		entries = append(entries, feedEntry{
			videoID:     e.ChildText("videoId"),
			title:       e.ChildText("title"),
			description: e.ChildText("group/description"),
			thumbnail:   e.ChildAttr("group/thumbnail", "url"),
			published:   e.ChildText("published"),
		})
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(feedURL); err != nil {
		logging.D(1, "Feed %q unreachable: %v", feedURL, err)
		return nil, nil
	}
	collector.Wait()

	if fetchErr != nil {
		logging.D(1, "Feed %q unreachable: %v", feedURL, fetchErr)
		return nil, nil
	}
	return entries, nil
}

// watchPageMeta is the schema.org/Open Graph markup lifted off one
// watch page.
type watchPageMeta struct {
	unavailable          bool
	isLiveBroadcast      bool
	requiresSubscription bool
	startDate            string
	endDate              string
	datePublished        string
	title                string
	description          string
	thumbnail            string
}

// watchPageSignal scrapes one watch page and classifies it. A nil
// signal with nil error means the page was temporarily unreachable.
func (f *YoutubeFetcher) watchPageSignal(ctx context.Context, videoID string) (*models.RawSignal, error) {
	pageURL := "https://www.youtube.com/watch?v=" + videoID

	collector, err := f.newCollector(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	var (
		meta     watchPageMeta
		notFound bool
		netErr   error
	)

	collector.OnHTML("html", func(e *colly.HTMLElement) {
		meta.title = e.ChildAttr(`meta[property="og:title"]`, "content")
		meta.description = e.ChildAttr(`meta[name="description"]`, "content")
		meta.thumbnail = e.ChildAttr(`meta[property="og:image"]`, "content")
		meta.isLiveBroadcast = metaTrue(e.ChildAttr(`meta[itemprop="isLiveBroadcast"]`, "content"))
		meta.requiresSubscription = metaTrue(e.ChildAttr(`meta[itemprop="requiresSubscription"]`, "content"))
		meta.startDate = e.ChildAttr(`meta[itemprop="startDate"]`, "content")
		meta.endDate = e.ChildAttr(`meta[itemprop="endDate"]`, "content")
		meta.datePublished = e.ChildAttr(`meta[itemprop="datePublished"]`, "content")
		if meta.title == "" {
			meta.unavailable = true
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode == http.StatusNotFound {
			notFound = true
			return
		}
		netErr = err
	})

	if err := collector.Visit(pageURL); err != nil && !notFound {
		return nil, nil
	}
	collector.Wait()

	if netErr != nil {
		logging.D(1, "Watch page %q unreachable: %v", pageURL, netErr)
		return nil, nil
	}
	if notFound || meta.unavailable {
		return &models.RawSignal{VideoID: videoID, Kind: models.SignalDeleted}, nil
	}

	return signalFromWatchPage(videoID, meta, time.Now()), nil
}

// signalFromWatchPage maps watch page markup onto a signal category:
// a live broadcast with an end date already ran, one with a future
// start date hasn't begun, anything else live is live now, and pages
// without live markup are plain uploads.
func signalFromWatchPage(videoID string, meta watchPageMeta, now time.Time) *models.RawSignal {
	sig := &models.RawSignal{
		VideoID:            videoID,
		Title:              meta.title,
		Description:        meta.description,
		Thumbnail:          meta.thumbnail,
		MemberOnly:         meta.requiresSubscription,
		PublishedAt:        parseTime(meta.datePublished),
		ScheduledStartTime: parseTime(meta.startDate),
		ActualStartTime:    parseTime(meta.startDate),
	}

	switch {
	case !meta.isLiveBroadcast:
		sig.Kind = models.SignalNotLiveStream
		sig.ScheduledStartTime = nil
		sig.ActualStartTime = nil
	case meta.endDate != "":
		sig.Kind = models.SignalWasLive
	case sig.ScheduledStartTime != nil && sig.ScheduledStartTime.After(now):
		sig.Kind = models.SignalUpcoming
		sig.ActualStartTime = nil
	default:
		sig.Kind = models.SignalLive
		sig.ScheduledStartTime = nil
	}
	return sig
}

// newCollector initializes Colly with any browser cookies for the
// target site.
func (f *YoutubeFetcher) newCollector(ctx context.Context, siteURL string) (*colly.Collector, error) {
	return newCollector(ctx, f.cookies, siteURL)
}

func newCollector(ctx context.Context, cm *CookieManager, siteURL string) (*colly.Collector, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	collector := colly.NewCollector(colly.UserAgent(scraperUserAgent))
	collector.SetCookieJar(jar)

	if cm != nil {
		cookies, err := cm.GetCookies(ctx, siteURL)
		if err != nil {
			return nil, err
		}
		if len(cookies) > 0 {
			if err := collector.SetCookies(siteURL, cookies); err != nil {
				logging.D(1, "Failed to seed cookies for %q: %v", siteURL, err)
			}
		}
	}
	return collector, nil
}

func metaTrue(content string) bool {
	return strings.EqualFold(strings.TrimSpace(content), "true")
}

func parseTime(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		logging.D(2, "Failed to parse timestamp %q: %v", s, err)
		return nil
	}
	return &t
}
