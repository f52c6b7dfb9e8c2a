package platform

import (
	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
)

// Youtube tracks scheduled premieres and livestreams through the channel
// feed. A failed YouTube recording is recoverable: the VOD usually stays
// downloadable after the stream ends.
type Youtube struct {
	classifier
}

func NewYoutube(store contracts.Store, fetcher contracts.SignalFetcher, storage contracts.StorageChecker, notifier contracts.Notifier) *Youtube {
	return &Youtube{classifier{
		source:      consts.SourceYoutube,
		interval:    consts.IntervalYoutube,
		recoverable: true,
		store:       store,
		fetcher:     fetcher,
		storage:     storage,
		notifier:    notifier,
		sourceURL: func(v *models.Video) string {
			return "https://www.youtube.com/watch?v=" + v.ID
		},
	}}
}
