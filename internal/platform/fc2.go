package platform

import (
	"recarr/internal/contracts"
	"recarr/internal/domain/consts"
	"recarr/internal/models"
)

// FC2 live channels have no after-the-fact archive, mirroring the
// Twitcasting settings.
type FC2 struct {
	classifier
}

func NewFC2(store contracts.Store, fetcher contracts.SignalFetcher, storage contracts.StorageChecker, notifier contracts.Notifier) *FC2 {
	return &FC2{classifier{
		source:      consts.SourceFC2,
		interval:    consts.IntervalFC2,
		recoverable: false,
		store:       store,
		fetcher:     fetcher,
		storage:     storage,
		notifier:    notifier,
		sourceURL: func(v *models.Video) string {
			return "https://live.fc2.com/" + v.ChannelID + "/"
		},
	}}
}
