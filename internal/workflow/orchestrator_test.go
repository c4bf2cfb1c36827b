package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliplab/clipstudio/internal/api"
)

type fakeBackend struct {
	uploadFn  func(ctx context.Context, path string, fn api.ProgressFunc) (string, error)
	processFn func(ctx context.Context, videoID string, options api.ProcessingOptions) error
	getFn     func(ctx context.Context, videoID string) (*api.Video, error)
}

func (f *fakeBackend) UploadVideo(ctx context.Context, path string, fn api.ProgressFunc) (string, error) {
	return f.uploadFn(ctx, path, fn)
}

func (f *fakeBackend) Process(ctx context.Context, videoID string, options api.ProcessingOptions) error {
	return f.processFn(ctx, videoID, options)
}

func (f *fakeBackend) GetVideo(ctx context.Context, videoID string) (*api.Video, error) {
	return f.getFn(ctx, videoID)
}

func happyBackend() *fakeBackend {
	return &fakeBackend{
		uploadFn: func(_ context.Context, _ string, fn api.ProgressFunc) (string, error) {
			if fn != nil {
				fn(50)
				fn(100)
			}
			return "vid-1", nil
		},
		processFn: func(context.Context, string, api.ProcessingOptions) error { return nil },
		getFn: func(_ context.Context, videoID string) (*api.Video, error) {
			return &api.Video{ID: videoID, Status: "completed"}, nil
		},
	}
}

func TestOrchestrator_FullSequence(t *testing.T) {
	o := NewOrchestrator(happyBackend())
	session := NewSession()
	session.SelectFile("/tmp/clip.mp4", nil)

	video, err := o.Run(context.Background(), session, api.ProcessingOptions{})
	require.NoError(t, err)

	snap := session.Snapshot()
	assert.Equal(t, StateProcessed, snap.State)
	assert.Equal(t, "vid-1", snap.VideoID, "terminal state keeps the stage-1 video id")
	require.NotNil(t, snap.Result)
	assert.Equal(t, "completed", snap.Result.Status)
	assert.Equal(t, 100, snap.Progress)
	assert.Same(t, video, snap.Result)
}

func TestOrchestrator_UploadFailureFallsBackToIdle(t *testing.T) {
	backend := happyBackend()
	backend.uploadFn = func(context.Context, string, api.ProgressFunc) (string, error) {
		return "", assert.AnError
	}

	o := NewOrchestrator(backend)
	session := NewSession()
	session.SelectFile("/tmp/clip.mp4", nil)

	_, err := o.Upload(context.Background(), session)
	require.Error(t, err)

	snap := session.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.VideoID)
	assert.Equal(t, "/tmp/clip.mp4", snap.FilePath, "selected file survives a failed upload")
}

func TestOrchestrator_ProcessFailureFallsBackToUploaded(t *testing.T) {
	backend := happyBackend()
	backend.processFn = func(context.Context, string, api.ProcessingOptions) error {
		return assert.AnError
	}

	o := NewOrchestrator(backend)
	session := NewSession()
	session.SelectFile("/tmp/clip.mp4", nil)

	_, err := o.Upload(context.Background(), session)
	require.NoError(t, err)

	_, err = o.ProcessAndFetch(context.Background(), session, api.ProcessingOptions{})
	require.Error(t, err)

	snap := session.Snapshot()
	assert.Equal(t, StateUploaded, snap.State)
	assert.Equal(t, "vid-1", snap.VideoID)
	assert.Nil(t, snap.Result)
}

func TestOrchestrator_ProcessWithoutUpload(t *testing.T) {
	o := NewOrchestrator(happyBackend())
	session := NewSession()

	_, err := o.ProcessAndFetch(context.Background(), session, api.ProcessingOptions{})
	require.Error(t, err)
}

func TestOrchestrator_DoubleTriggerCoalesces(t *testing.T) {
	var processCalls atomic.Int32
	release := make(chan struct{})

	backend := happyBackend()
	backend.processFn = func(context.Context, string, api.ProcessingOptions) error {
		processCalls.Add(1)
		<-release
		return nil
	}

	o := NewOrchestrator(backend)
	session := NewSession()
	session.SelectFile("/tmp/clip.mp4", nil)
	_, err := o.Upload(context.Background(), session)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = o.ProcessAndFetch(context.Background(), session, api.ProcessingOptions{})
		}()
	}

	// let both goroutines reach the singleflight gate, then release
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), processCalls.Load(), "concurrent triggers must share one request")
}

func TestOrchestrator_NewUploadDiscardsPriorResult(t *testing.T) {
	o := NewOrchestrator(happyBackend())
	session := NewSession()
	session.SelectFile("/tmp/first.mp4", nil)

	_, err := o.Run(context.Background(), session, api.ProcessingOptions{})
	require.NoError(t, err)
	require.NotNil(t, session.Result())

	session.SelectFile("/tmp/second.mp4", nil)
	snap := session.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.VideoID)
	assert.Nil(t, snap.Result, "no state from the prior sequence may leak in")
	assert.Zero(t, snap.Progress)
}
