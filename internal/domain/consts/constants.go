// Package consts holds various global, unchanging values.
package consts

import "time"

// Platform source tags. Stored verbatim in the videos/channels tables,
// do not alter.
const (
	SourceYoutube     = "Youtube"
	SourceTwitch      = "Twitch"
	SourceTwitcasting = "Twitcasting"
	SourceFC2         = "FC2"
)

// Downloader tool names. Each doubles as the job instance-name prefix.
const (
	DLerYtarchive   = "ytarchive"
	DLerStreamlink  = "streamlink"
	DLerTwitcasting = "twitcastingrecord"
	DLerFC2         = "fc2livedl"
	DLerYtdlp       = "ytdlp"
)

// Container image tags, resolved against a registry at dispatch time.
const (
	ImageYtarchive   = "ytarchive:latest"
	ImageStreamlink  = "streamlink:latest"
	ImageTwitcasting = "twitcasting-record:latest"
	ImageFC2         = "fc2-live-dl:latest"
	ImageYtdlp       = "yt-dlp:latest"
	ImageUploader    = "uploader:latest"
)

// Default container registries. The fallback is attempted exactly once
// when a job fails to create with the primary.
const (
	RegistryPrimary  = "ghcr.io/recarr"
	RegistryFallback = "registry.hub.docker.com/recarr"
)

// Job container layout.
const (
	ContainerDownloader = "downloader"
	ContainerUploader   = "uploader"
	MountPath           = "/download"
	UploadPrefix        = "upload"
)

// Default scan intervals per platform.
const (
	IntervalYoutube     = 5 * time.Minute
	IntervalTwitch      = 1 * time.Minute
	IntervalTwitcasting = 30 * time.Second
	IntervalFC2         = 30 * time.Second
)

// Loop cadences and guards.
const (
	DefaultBaseTick     = 10 * time.Second // scheduler step size
	DefaultOrchTick     = 1 * time.Minute  // orchestrator cadence
	DefaultMonitorFloor = 5 * time.Minute  // min job age before failure probes
	DefaultRetireDelay  = 30 * time.Second // pause between retiring finished items
	DefaultHTTPTimeout  = 10 * time.Second
)

// YouTube feed endpoint for channel discovery scans.
const YoutubeFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id="
