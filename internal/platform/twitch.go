package platform

import (
	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
)

// Twitch streams vanish (or get trimmed) once they end, so a failed
// recording is not recoverable after the fact.
type Twitch struct {
	classifier
}

func NewTwitch(store contracts.Store, fetcher contracts.SignalFetcher, storage contracts.StorageChecker, notifier contracts.Notifier) *Twitch {
	return &Twitch{classifier{
		source:      consts.SourceTwitch,
		interval:    consts.IntervalTwitch,
		recoverable: false,
		store:       store,
		fetcher:     fetcher,
		storage:     storage,
		notifier:    notifier,
		sourceURL: func(v *models.Video) string {
			return "https://www.twitch.tv/" + v.ChannelID
		},
	}}
}
