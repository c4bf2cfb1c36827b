package workflow

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/cliplab/clipstudio/internal/api"
	"github.com/cliplab/clipstudio/pkg/log"
)

// Backend is the slice of the API client the orchestrator drives.
type Backend interface {
	UploadVideo(ctx context.Context, path string, fn api.ProgressFunc) (string, error)
	Process(ctx context.Context, videoID string, options api.ProcessingOptions) error
	GetVideo(ctx context.Context, videoID string) (*api.Video, error)
}

// Orchestrator runs the three-stage upload → process → fetch sequence.
// Stages are strictly ordered per session; a failed stage drops the
// session back to its previous stable state and is never retried here.
// Repeated triggers for an in-flight stage coalesce through singleflight,
// keyed by session or video plus the action name, so a double-clicked
// control cannot start the same work twice.
type Orchestrator struct {
	backend Backend
	group   singleflight.Group
}

func NewOrchestrator(backend Backend) *Orchestrator {
	return &Orchestrator{backend: backend}
}

// Upload sends the session's selected file and records the backend's video
// ID. Progress percentages land in the session snapshot as they arrive.
func (o *Orchestrator) Upload(ctx context.Context, session *Session) (string, error) {
	path := session.FilePath()
	if path == "" {
		return "", fmt.Errorf("no file selected")
	}

	v, err, _ := o.group.Do(session.ID()+"|upload", func() (any, error) {
		session.beginUpload()

		videoID, err := o.backend.UploadVideo(ctx, path, func(percent int) {
			session.setProgress(percent)
		})
		if err != nil {
			session.setState(StateIdle)
			return "", err
		}

		session.completeUpload(videoID)
		return videoID, nil
	})
	if err != nil {
		log.Error("Upload failed for %s: %v", path, err)
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return v.(string), nil
}

// ProcessAndFetch asks the backend to process the uploaded video, then
// fetches the resulting record. Requires a completed upload.
func (o *Orchestrator) ProcessAndFetch(ctx context.Context, session *Session, options api.ProcessingOptions) (*api.Video, error) {
	videoID := session.VideoID()
	if videoID == "" {
		return nil, fmt.Errorf("no uploaded video to process")
	}

	v, err, _ := o.group.Do(videoID+"|process", func() (any, error) {
		session.setState(StateProcessing)

		if err := o.backend.Process(ctx, videoID, options); err != nil {
			session.setState(StateUploaded)
			return nil, err
		}

		video, err := o.backend.GetVideo(ctx, videoID)
		if err != nil {
			session.setState(StateUploaded)
			return nil, err
		}

		session.completeProcessing(video)
		return video, nil
	})
	if err != nil {
		log.Error("Processing failed for video %s: %v", videoID, err)
		return nil, fmt.Errorf("processing failed: %w", err)
	}
	return v.(*api.Video), nil
}

// Run drives the full sequence for a freshly selected file.
func (o *Orchestrator) Run(ctx context.Context, session *Session, options api.ProcessingOptions) (*api.Video, error) {
	if _, err := o.Upload(ctx, session); err != nil {
		return nil, err
	}
	return o.ProcessAndFetch(ctx, session, options)
}
