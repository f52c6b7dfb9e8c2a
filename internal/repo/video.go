package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recarr/internal/domain/consts"
	"recarr/internal/models"
	"recarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// VideoStore holds a pointer to the sql.DB.
type VideoStore struct {
	DB *sql.DB
}

// GetVideoStore returns a video store instance with injected database.
func GetVideoStore(db *sql.DB) *VideoStore {
	return &VideoStore{
		DB: db,
	}
}

// GetDB returns the database.
func (vs *VideoStore) GetDB() *sql.DB {
	return vs.DB
}

// videoColumns is the canonical select column order, matching scanVideo.
var videoColumns = []string{
	consts.QVidID,
	consts.QVidSource,
	consts.QVidChanID,
	consts.QVidStatus,
	consts.QVidSourceStatus,
	consts.QVidIsLive,
	consts.QVidTitle,
	consts.QVidDescription,
	consts.QVidNote,
	consts.QVidThumbnail,
	consts.QVidFilename,
	consts.QVidSize,
	consts.QVidPublishedAt,
	consts.QVidScheduledAt,
	consts.QVidActualStart,
	consts.QVidArchivedTime,
	consts.QVidCreatedAt,
	consts.QVidUpdatedAt,
}

// Exists returns true if the video exists in the database.
func (vs *VideoStore) Exists(source, id string) (bool, error) {
	var one int
	query := squirrel.Select("1").
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: id, consts.QVidSource: source}).
		RunWith(vs.DB)

	err := query.QueryRow().Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to check if video %q exists: %w", id, err)
	}
	return true, nil
}

// GetByID retrieves one video by its platform-scoped identity.
func (vs *VideoStore) GetByID(source, id string) (*models.Video, bool, error) {
	query := squirrel.Select(videoColumns...).
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: id, consts.QVidSource: source}).
		RunWith(vs.DB)

	v, err := scanVideo(query.QueryRow())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to get video %q: %w", id, err)
	}
	return v, true, nil
}

// ListByStatus returns all videos in any of the given lifecycle states.
func (vs *VideoStore) ListByStatus(statuses ...models.VideoStatus) ([]*models.Video, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	vals := make([]int, 0, len(statuses))
	for _, s := range statuses {
		vals = append(vals, int(s))
	}

	query := squirrel.Select(videoColumns...).
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidStatus: vals}).
		OrderBy(consts.QVidUpdatedAt).
		RunWith(vs.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query videos by status: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close rows: %v", err)
		}
	}()

	return collectVideos(rows)
}

// ListByChannel returns all videos belonging to one channel.
func (vs *VideoStore) ListByChannel(source, channelID string) ([]*models.Video, error) {
	query := squirrel.Select(videoColumns...).
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidSource: source, consts.QVidChanID: channelID}).
		RunWith(vs.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query videos for channel %q: %w", channelID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close rows: %v", err)
		}
	}()

	return collectVideos(rows)
}

// AddOrUpdate inserts the video or updates the existing row.
func (vs *VideoStore) AddOrUpdate(v *models.Video) (err error) {
	if v.ID == "" || v.Source == "" {
		return errors.New("video must have an ID and a source")
	}

	tx, err := vs.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for video %q: %v", v.ID, rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Rollback failed for video %q (original error: %v): %v", v.ID, err, rbErr)
			}
		}
	}()

	if err = upsertVideo(tx, v); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for video %q: %w", v.ID, err)
	}
	return nil
}

// Mutate reloads the video's current row, applies fn, and writes the
// result back in one transaction. Lifecycle transitions must use this
// rather than writing a previously-read copy.
func (vs *VideoStore) Mutate(source, id string, fn func(v *models.Video) error) (v *models.Video, err error) {
	tx, err := vs.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for video %q: %v", id, rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Rollback failed for video %q (original error: %v): %v", id, err, rbErr)
			}
		}
	}()

	query := squirrel.Select(videoColumns...).
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: id, consts.QVidSource: source}).
		RunWith(tx)

	v, err = scanVideo(query.QueryRow())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no video found with ID %q for source %q", id, source)
	} else if err != nil {
		return nil, fmt.Errorf("failed to reload video %q: %w", id, err)
	}

	if err = fn(v); err != nil {
		return nil, err
	}

	if err = upsertVideo(tx, v); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit mutation for video %q: %w", id, err)
	}
	return v, nil
}

// ******************************** Private ***************************************************************************************

// upsertVideo writes all mutable fields inside an open transaction.
func upsertVideo(tx *sql.Tx, v *models.Video) error {
	now := time.Now()

	var exists int
	err := squirrel.Select("1").
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: v.ID, consts.QVidSource: v.Source}).
		RunWith(tx).
		QueryRow().Scan(&exists)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		v.CreatedAt = now
		v.UpdatedAt = now
		insert := squirrel.Insert(consts.DBVideos).
			Columns(videoColumns...).
			Values(
				v.ID, v.Source, v.ChannelID,
				int(v.Status), int(v.SourceStatus), v.IsLiveStream,
				v.Title, v.Description, v.Note, v.Thumbnail,
				v.Filename, v.Size,
				nullTime(v.PublishedAt), nullTime(v.ScheduledStartTime),
				nullTime(v.ActualStartTime), nullTime(v.ArchivedTime),
				v.CreatedAt, v.UpdatedAt,
			).
			RunWith(tx)
		if _, err := insert.Exec(); err != nil {
			return fmt.Errorf("failed to insert video %q: %w", v.ID, err)
		}
		return nil

	case err != nil:
		return fmt.Errorf("failed to check video %q: %w", v.ID, err)

	default:
		v.UpdatedAt = now
		update := squirrel.Update(consts.DBVideos).
			Set(consts.QVidChanID, v.ChannelID).
			Set(consts.QVidStatus, int(v.Status)).
			Set(consts.QVidSourceStatus, int(v.SourceStatus)).
			Set(consts.QVidIsLive, v.IsLiveStream).
			Set(consts.QVidTitle, v.Title).
			Set(consts.QVidDescription, v.Description).
			Set(consts.QVidNote, v.Note).
			Set(consts.QVidThumbnail, v.Thumbnail).
			Set(consts.QVidFilename, v.Filename).
			Set(consts.QVidSize, v.Size).
			Set(consts.QVidPublishedAt, nullTime(v.PublishedAt)).
			Set(consts.QVidScheduledAt, nullTime(v.ScheduledStartTime)).
			Set(consts.QVidActualStart, nullTime(v.ActualStartTime)).
			Set(consts.QVidArchivedTime, nullTime(v.ArchivedTime)).
			Set(consts.QVidUpdatedAt, v.UpdatedAt).
			Where(squirrel.Eq{consts.QVidID: v.ID, consts.QVidSource: v.Source}).
			RunWith(tx)
		if _, err := update.Exec(); err != nil {
			return fmt.Errorf("failed to update video %q: %w", v.ID, err)
		}
		return nil
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanVideo scans one row in videoColumns order.
func scanVideo(row rowScanner) (*models.Video, error) {
	var (
		v                                    models.Video
		status, sourceStatus                 int
		published, scheduled, actual, archvd sql.NullTime
	)

	err := row.Scan(
		&v.ID, &v.Source, &v.ChannelID,
		&status, &sourceStatus, &v.IsLiveStream,
		&v.Title, &v.Description, &v.Note, &v.Thumbnail,
		&v.Filename, &v.Size,
		&published, &scheduled, &actual, &archvd,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Status = models.VideoStatus(status)
	v.SourceStatus = models.VideoStatus(sourceStatus)
	v.PublishedAt = timePtr(published)
	v.ScheduledStartTime = timePtr(scheduled)
	v.ActualStartTime = timePtr(actual)
	v.ArchivedTime = timePtr(archvd)
	return &v, nil
}

func collectVideos(rows *sql.Rows) ([]*models.Video, error) {
	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate video rows: %w", err)
	}
	return videos, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
