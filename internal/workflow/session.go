// Package workflow sequences the upload → process → fetch-results
// interaction with the backend and tracks the per-video session state
// shown to the user.
package workflow

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cliplab/clipstudio/internal/api"
)

// State is the lifecycle position of one upload/process session.
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateUploaded   State = "uploaded"
	StateProcessing State = "processing"
	StateProcessed  State = "processed"
)

// ReleaseFunc frees the local preview resource created for a selected
// file. Called exactly once when the preview is superseded or cleared.
type ReleaseFunc func()

// Session is the transient, non-persisted client-side state for one
// video's upload lifecycle. It is discarded, never resumed.
type Session struct {
	mu       sync.Mutex
	id       string
	state    State
	filePath string
	videoID  string
	progress int
	result   *api.Video
	release  ReleaseFunc
}

func NewSession() *Session {
	return &Session{
		id:    uuid.NewString(),
		state: StateIdle,
	}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// SelectFile attaches a local file to the session, discarding any prior
// selection and releasing its preview resource. release may be nil.
func (s *Session) SelectFile(path string, release ReleaseFunc) {
	s.mu.Lock()
	prior := s.release
	s.filePath = path
	s.release = release
	s.videoID = ""
	s.result = nil
	s.progress = 0
	s.state = StateIdle
	s.mu.Unlock()

	if prior != nil {
		prior()
	}
}

// Clear resets the session to idle from any state, releasing the preview
// resource and dropping the video ID and processed result.
func (s *Session) Clear() {
	s.mu.Lock()
	prior := s.release
	s.filePath = ""
	s.videoID = ""
	s.result = nil
	s.progress = 0
	s.state = StateIdle
	s.release = nil
	s.mu.Unlock()

	if prior != nil {
		prior()
	}
}

// Snapshot is a copy of the session state for display.
type Snapshot struct {
	ID       string
	State    State
	FilePath string
	VideoID  string
	Progress int
	Result   *api.Video
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:       s.id,
		State:    s.state,
		FilePath: s.filePath,
		VideoID:  s.videoID,
		Progress: s.progress,
		Result:   s.result,
	}
}

func (s *Session) FilePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filePath
}

func (s *Session) VideoID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.videoID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Result() *api.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) setProgress(percent int) {
	s.mu.Lock()
	s.progress = percent
	s.mu.Unlock()
}

func (s *Session) beginUpload() {
	s.mu.Lock()
	s.videoID = ""
	s.result = nil
	s.progress = 0
	s.state = StateUploading
	s.mu.Unlock()
}

func (s *Session) completeUpload(videoID string) {
	s.mu.Lock()
	s.videoID = videoID
	s.state = StateUploaded
	s.mu.Unlock()
}

func (s *Session) completeProcessing(result *api.Video) {
	s.mu.Lock()
	s.result = result
	s.state = StateProcessed
	s.mu.Unlock()
}
