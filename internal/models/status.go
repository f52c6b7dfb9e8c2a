package models

// VideoStatus is the shared ordinal type behind both Video.Status and
// Video.SourceStatus. The numeric values form an explicit total order:
// comparisons like `v.Status >= StatusRecording` mean "has reached the
// recording phase", so the spacing below is load-bearing. Do not reorder.
type VideoStatus int

// Processing axis (Video.Status). Skipped and Reject sit above Scheduled
// so that the feed-tracking guard `status > StatusScheduled` excludes
// them. Missing and Error sit between Archived and Expired: both are
// reachable from Archived and remain revisitable by an operator.
const (
	StatusUnknown           VideoStatus = 0
	StatusPending           VideoStatus = 10
	StatusScheduled         VideoStatus = 20
	StatusSkipped           VideoStatus = 24
	StatusReject            VideoStatus = 26
	StatusWaitingToRecord   VideoStatus = 30
	StatusRecording         VideoStatus = 40
	StatusWaitingToDownload VideoStatus = 50
	StatusDownloading       VideoStatus = 60
	StatusUploading         VideoStatus = 70
	StatusArchived          VideoStatus = 80
	StatusPermanentArchived VideoStatus = 85
	StatusMissing           VideoStatus = 90
	StatusError             VideoStatus = 95
	StatusExpired           VideoStatus = 100
)

// Source axis (Video.SourceStatus). A separate numeric band: these never
// appear in Video.Status and the pipeline states never appear in
// Video.SourceStatus (StatusUnknown and StatusReject are shared by both
// axes).
const (
	StatusExist   VideoStatus = 500
	StatusEdited  VideoStatus = 510
	StatusDeleted VideoStatus = 530
)

var statusNames = map[VideoStatus]string{
	StatusUnknown:           "Unknown",
	StatusPending:           "Pending",
	StatusScheduled:         "Scheduled",
	StatusSkipped:           "Skipped",
	StatusReject:            "Reject",
	StatusWaitingToRecord:   "WaitingToRecord",
	StatusRecording:         "Recording",
	StatusWaitingToDownload: "WaitingToDownload",
	StatusDownloading:       "Downloading",
	StatusUploading:         "Uploading",
	StatusArchived:          "Archived",
	StatusPermanentArchived: "PermanentArchived",
	StatusMissing:           "Missing",
	StatusError:             "Error",
	StatusExpired:           "Expired",
	StatusExist:             "Exist",
	StatusEdited:            "Edited",
	StatusDeleted:           "Deleted",
}

func (s VideoStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Invalid"
}

// InArchiveWindow reports whether the persisted file for this video is
// expected to exist in storage.
func (s VideoStatus) InArchiveWindow() bool {
	return s >= StatusArchived && s < StatusExpired
}

// BeyondFeedWindow reports whether a video has progressed past the point
// where a channel feed scan may still reclassify it.
func (s VideoStatus) BeyondFeedWindow() bool {
	return s > StatusScheduled
}
