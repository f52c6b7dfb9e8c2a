package platform

import (
	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
)

// Twitcasting broadcasts are short-lived, so the scan interval is tight
// and a missed live window cannot be recovered.
type Twitcasting struct {
	classifier
}

func NewTwitcasting(store contracts.Store, fetcher contracts.SignalFetcher, storage contracts.StorageChecker, notifier contracts.Notifier) *Twitcasting {
	return &Twitcasting{classifier{
		source:      consts.SourceTwitcasting,
		interval:    consts.IntervalTwitcasting,
		recoverable: false,
		store:       store,
		fetcher:     fetcher,
		storage:     storage,
		notifier:    notifier,
		sourceURL: func(v *models.Video) string {
			return "https://twitcasting.tv/" + v.ChannelID
		},
	}}
}
