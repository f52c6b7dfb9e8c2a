// Package repo provides sqlite-backed implementations of the store
// contracts.
package repo

import (
	"database/sql"

	"recarr/internal/contracts"
)

// Store holds the concrete stores.
type Store struct {
	channelStore *ChannelStore
	videoStore   *VideoStore
}

// InitStores injects the database into each store.
func InitStores(db *sql.DB) *Store {
	return &Store{
		channelStore: GetChannelStore(db),
		videoStore:   GetVideoStore(db),
	}
}

// ChannelStore returns the channel store.
func (s *Store) ChannelStore() contracts.ChannelStore {
	return s.channelStore
}

// VideoStore returns the video store.
func (s *Store) VideoStore() contracts.VideoStore {
	return s.videoStore
}
