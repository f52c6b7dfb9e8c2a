package repo

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// ChannelStore holds a pointer to the sql.DB.
type ChannelStore struct {
	DB *sql.DB
}

// GetChannelStore returns a channel store instance with injected database.
func GetChannelStore(db *sql.DB) *ChannelStore {
	return &ChannelStore{
		DB: db,
	}
}

// GetDB returns the database.
func (cs *ChannelStore) GetDB() *sql.DB {
	return cs.DB
}

var channelColumns = []string{
	consts.QChanID,
	consts.QChanSource,
	consts.QChanName,
	consts.QChanMonitoring,
	consts.QChanUseCookies,
	consts.QChanSkipNotLive,
	consts.QChanAutoUpdate,
	consts.QChanLatestVideo,
	consts.QChanAvatar,
	consts.QChanBanner,
	consts.QChanNote,
	consts.QChanNotifyURLs,
	consts.QChanCreatedAt,
	consts.QChanUpdatedAt,
}

// GetByID retrieves one channel by its platform-scoped identity.
func (cs *ChannelStore) GetByID(source, id string) (*models.Channel, bool, error) {
	query := squirrel.Select(channelColumns...).
		From(consts.DBChannels).
		Where(squirrel.Eq{consts.QChanID: id, consts.QChanSource: source}).
		RunWith(cs.DB)

	c, err := scanChannel(query.QueryRow())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get channel %q: %w", id, err)
	}
	return c, true, nil
}

// ListMonitoring returns all channels of a source with monitoring
// enabled. Channels with monitoring off are never scanned.
func (cs *ChannelStore) ListMonitoring(source string) ([]*models.Channel, error) {
	query := squirrel.Select(channelColumns...).
		From(consts.DBChannels).
		Where(squirrel.Eq{consts.QChanSource: source, consts.QChanMonitoring: true}).
		RunWith(cs.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query monitoring channels for %q: %w", source, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close rows: %v", err)
		}
	}()

	var channels []*models.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channel rows: %w", err)
	}
	return channels, nil
}

// AddOrUpdate inserts the channel or updates the existing row.
func (cs *ChannelStore) AddOrUpdate(c *models.Channel) (err error) {
	if c.ID == "" || c.Source == "" {
		return errors.New("channel must have an ID and a source")
	}

	notifyJSON, err := json.Marshal(c.NotifyURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal notify URLs for channel %q: %w", c.ID, err)
	}

	tx, err := cs.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for channel %q: %v", c.ID, rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Rollback failed for channel %q (original error: %v): %v", c.ID, err, rbErr)
			}
		}
	}()

	now := time.Now()

	var exists int
	err = squirrel.Select("1").
		From(consts.DBChannels).
		Where(squirrel.Eq{consts.QChanID: c.ID, consts.QChanSource: c.Source}).
		RunWith(tx).
		QueryRow().Scan(&exists)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = nil
		c.CreatedAt = now
		c.UpdatedAt = now
		insert := squirrel.Insert(consts.DBChannels).
			Columns(channelColumns...).
			Values(
				c.ID, c.Source, c.ChannelName,
				c.Monitoring, c.UseCookiesFile, c.SkipNotLiveStream, c.AutoUpdateInfo,
				c.LatestVideoID, c.Avatar, c.Banner, c.Note,
				string(notifyJSON), c.CreatedAt, c.UpdatedAt,
			).
			RunWith(tx)
		if _, err = insert.Exec(); err != nil {
			return fmt.Errorf("failed to insert channel %q: %w", c.ID, err)
		}

	case err != nil:
		return fmt.Errorf("failed to check channel %q: %w", c.ID, err)

	default:
		c.UpdatedAt = now
		update := squirrel.Update(consts.DBChannels).
			Set(consts.QChanName, c.ChannelName).
			Set(consts.QChanMonitoring, c.Monitoring).
			Set(consts.QChanUseCookies, c.UseCookiesFile).
			Set(consts.QChanSkipNotLive, c.SkipNotLiveStream).
			Set(consts.QChanAutoUpdate, c.AutoUpdateInfo).
			Set(consts.QChanLatestVideo, c.LatestVideoID).
			Set(consts.QChanAvatar, c.Avatar).
			Set(consts.QChanBanner, c.Banner).
			Set(consts.QChanNote, c.Note).
			Set(consts.QChanNotifyURLs, string(notifyJSON)).
			Set(consts.QChanUpdatedAt, c.UpdatedAt).
			Where(squirrel.Eq{consts.QChanID: c.ID, consts.QChanSource: c.Source}).
			RunWith(tx)
		if _, err = update.Exec(); err != nil {
			return fmt.Errorf("failed to update channel %q: %w", c.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for channel %q: %w", c.ID, err)
	}
	return nil
}

// UpdateLatestVideo records the most recently archived video for a
// channel.
func (cs *ChannelStore) UpdateLatestVideo(source, channelID, videoID string) error {
	query := squirrel.Update(consts.DBChannels).
		Set(consts.QChanLatestVideo, videoID).
		Set(consts.QChanUpdatedAt, time.Now()).
		Where(squirrel.Eq{consts.QChanID: channelID, consts.QChanSource: source}).
		RunWith(cs.DB)

	result, err := query.Exec()
	if err != nil {
		return fmt.Errorf("failed to update latest video for channel %q: %w", channelID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no channel found with ID %q for source %q", channelID, source)
	}
	return nil
}

// UpdateInfo refreshes channel display metadata (name, avatar, banner).
func (cs *ChannelStore) UpdateInfo(c *models.Channel) error {
	query := squirrel.Update(consts.DBChannels).
		Set(consts.QChanName, c.ChannelName).
		Set(consts.QChanAvatar, c.Avatar).
		Set(consts.QChanBanner, c.Banner).
		Set(consts.QChanUpdatedAt, time.Now()).
		Where(squirrel.Eq{consts.QChanID: c.ID, consts.QChanSource: c.Source}).
		RunWith(cs.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to update info for channel %q: %w", c.ID, err)
	}
	return nil
}

// scanChannel scans one row in channelColumns order.
func scanChannel(row rowScanner) (*models.Channel, error) {
	var (
		c          models.Channel
		notifyJSON string
	)

	err := row.Scan(
		&c.ID, &c.Source, &c.ChannelName,
		&c.Monitoring, &c.UseCookiesFile, &c.SkipNotLiveStream, &c.AutoUpdateInfo,
		&c.LatestVideoID, &c.Avatar, &c.Banner, &c.Note,
		&notifyJSON, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if notifyJSON != "" {
		if err := json.Unmarshal([]byte(notifyJSON), &c.NotifyURLs); err != nil {
			logging.E("Failed to unmarshal notify URLs for channel %q: %v", c.ID, err)
		}
	}
	return &c, nil
}
