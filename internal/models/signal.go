package models

import "time"

// SignalKind is the semantic category of a raw platform signal, the key
// into each classifier's decision table.
type SignalKind string

const (
	SignalUpcoming      SignalKind = "upcoming"       // scheduled, not yet started
	SignalLive          SignalKind = "live"           // currently streaming
	SignalEnded         SignalKind = "ended"          // finished, VOD not yet ready
	SignalWasLive       SignalKind = "was_live"       // previously live, VOD available
	SignalNotLiveStream SignalKind = "not_livestream" // regular upload
	SignalDeleted       SignalKind = "deleted"        // removed or empty upstream
)

// RawSignal is one availability/liveness/metadata snapshot acquired from
// an external platform. A nil *RawSignal from a fetcher means
// "temporarily unavailable", never "deleted".
type RawSignal struct {
	VideoID            string
	Kind               SignalKind
	Title              string
	Description        string
	Thumbnail          string
	MemberOnly         bool
	PublishedAt        *time.Time
	ScheduledStartTime *time.Time
	ActualStartTime    *time.Time
}

// ChannelInfo is a channel display-metadata snapshot, fetched for
// channels with auto_update_info enabled.
type ChannelInfo struct {
	ChannelName string
	Avatar      string
	Banner      string
}
