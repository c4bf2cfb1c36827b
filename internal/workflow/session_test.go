package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_ClearReleasesPreviewAndResets(t *testing.T) {
	session := NewSession()

	released := 0
	session.SelectFile("/tmp/clip.mp4", func() { released++ })
	session.completeUpload("vid-9")

	session.Clear()

	assert.Equal(t, 1, released, "clearing must release the preview resource")
	snap := session.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.FilePath)
	assert.Empty(t, snap.VideoID)
	assert.Nil(t, snap.Result)
}

func TestSession_ClearWithoutPreviewHook(t *testing.T) {
	session := NewSession()
	session.SelectFile("/tmp/clip.mp4", nil)
	session.Clear()

	assert.Equal(t, StateIdle, session.State())
}

func TestSession_ReselectingReleasesPriorPreview(t *testing.T) {
	session := NewSession()

	firstReleased := 0
	session.SelectFile("/tmp/first.mp4", func() { firstReleased++ })

	secondReleased := 0
	session.SelectFile("/tmp/second.mp4", func() { secondReleased++ })

	assert.Equal(t, 1, firstReleased, "superseded preview must be released")
	assert.Zero(t, secondReleased)
	assert.Equal(t, "/tmp/second.mp4", session.FilePath())
}

func TestSession_IDsAreUnique(t *testing.T) {
	assert.NotEqual(t, NewSession().ID(), NewSession().ID())
}
