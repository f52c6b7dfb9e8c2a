package consts

// Tables
const (
	DBChannels = "channels"
	DBVideos   = "videos"
)

// Channels
const (
	QChanID          = "id"
	QChanSource      = "source"
	QChanName        = "channel_name"
	QChanMonitoring  = "monitoring"
	QChanUseCookies  = "use_cookies_file"
	QChanSkipNotLive = "skip_not_live_stream"
	QChanAutoUpdate  = "auto_update_info"
	QChanLatestVideo = "latest_video_id"
	QChanAvatar      = "avatar"
	QChanBanner      = "banner"
	QChanNote        = "note"
	QChanNotifyURLs  = "notify_urls"
	QChanCreatedAt   = "created_at"
	QChanUpdatedAt   = "updated_at"
)

// Videos
const (
	QVidID           = "id"
	QVidSource       = "source"
	QVidChanID       = "channel_id"
	QVidStatus       = "status"
	QVidSourceStatus = "source_status"
	QVidIsLive       = "is_live_stream"
	QVidTitle        = "title"
	QVidDescription  = "description"
	QVidNote         = "note"
	QVidThumbnail    = "thumbnail"
	QVidFilename     = "filename"
	QVidSize         = "size"
	QVidPublishedAt  = "published_at"
	QVidScheduledAt  = "scheduled_start_time"
	QVidActualStart  = "actual_start_time"
	QVidArchivedTime = "archived_time"
	QVidCreatedAt    = "created_at"
	QVidUpdatedAt    = "updated_at"
)
