// Package models holds structs for modelling data, e.g. Channel data, Video data, etc.
package models

import "time"

// Channel is the top level model for a monitored upstream source.
type Channel struct {
	ID                string    `db:"id"`
	Source            string    `db:"source"`
	ChannelName       string    `db:"channel_name"`
	Monitoring        bool      `db:"monitoring"`
	UseCookiesFile    bool      `db:"use_cookies_file"`
	SkipNotLiveStream bool      `db:"skip_not_live_stream"`
	AutoUpdateInfo    bool      `db:"auto_update_info"`
	LatestVideoID     string    `db:"latest_video_id"`
	Avatar            string    `db:"avatar"`
	Banner            string    `db:"banner"`
	Note              string    `db:"note"`
	NotifyURLs        []string  `db:"notify_urls"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
