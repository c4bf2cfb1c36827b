package jobs

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Action names a backend operation a job drives.
type Action string

const (
	// ActionUploadProcess uploads a local file and runs full processing.
	ActionUploadProcess Action = "upload_process"
	// ActionGenerateSubtitles asks the backend for subtitles on an
	// already uploaded video.
	ActionGenerateSubtitles Action = "generate_subtitles"
	// ActionGenerateThumbnails asks for on-demand thumbnails.
	ActionGenerateThumbnails Action = "generate_thumbnails"
	// ActionEnhanceAudio asks for on-demand audio enhancement.
	ActionEnhanceAudio Action = "enhance_audio"
)

type EnqueueRequest struct {
	Source    string
	Action    Action
	DedupeKey string
	Payload   JobPayload
}

// JobPayload carries the inputs of one backend action. MediaFile is set
// for upload jobs, VideoID for actions on an already uploaded video.
type JobPayload struct {
	MediaFile string `json:"media_file,omitempty"`
	VideoID   string `json:"video_id,omitempty"`
	Language  string `json:"language,omitempty"`
	Style     string `json:"style,omitempty"`
}

// DedupeKey is the conventional in-flight guard key for an action on a
// video: one outstanding job per (video, action) pair.
func (p JobPayload) DedupeKey(action Action) string {
	target := p.VideoID
	if target == "" {
		target = p.MediaFile
	}
	return target + "|" + string(action)
}

type ProcessingJob struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	Action    Action     `json:"action"`
	DedupeKey string     `json:"dedupe_key"`
	Payload   JobPayload `json:"payload"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
