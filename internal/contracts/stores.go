// Package contracts defines interfaces that decouple the application layer from storage implementations.
package contracts

import (
	"database/sql"

	"recarr/internal/models"
)

// Store allows access to the main store repo methods.
type Store interface {
	ChannelStore() ChannelStore
	VideoStore() VideoStore
}

// ChannelStore allows access to channel repo methods.
type ChannelStore interface {
	GetDB() *sql.DB

	AddOrUpdate(c *models.Channel) error
	GetByID(source, id string) (c *models.Channel, hasRows bool, err error)
	ListMonitoring(source string) (channels []*models.Channel, err error)
	UpdateLatestVideo(source, channelID, videoID string) error
	UpdateInfo(c *models.Channel) error
}

// VideoStore allows access to video repo methods.
type VideoStore interface {
	GetDB() *sql.DB

	AddOrUpdate(v *models.Video) error
	Exists(source, id string) (bool, error)
	GetByID(source, id string) (v *models.Video, hasRows bool, err error)
	ListByStatus(statuses ...models.VideoStatus) (videos []*models.Video, err error)
	ListByChannel(source, channelID string) (videos []*models.Video, err error)

	// Mutate reloads the video's current row, applies fn to it, and
	// writes it back in one transaction. All lifecycle transitions go
	// through here so that no loop trusts a stale copy.
	Mutate(source, id string, fn func(v *models.Video) error) (*models.Video, error)
}
