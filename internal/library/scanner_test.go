package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanner_FindsClipsAndSidecars(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "intro.mp4"))
	writeFile(t, filepath.Join(dir, "intro.en.srt"))
	writeFile(t, filepath.Join(dir, "raw", "outtake.mov"))
	writeFile(t, filepath.Join(dir, "notes.txt"))

	s := NewScanner([]SourceConfig{{ID: "src", Name: "Footage", Path: dir}})
	lib, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, lib.Sources, 1)
	assert.Equal(t, 2, lib.Sources[0].ClipCount)
	require.Len(t, lib.Clips, 2)

	byName := make(map[string]Clip)
	for _, c := range lib.Clips {
		byName[c.Name] = c
	}

	intro, ok := byName["intro"]
	require.True(t, ok)
	assert.True(t, intro.HasSubtitles)
	assert.False(t, intro.Uploadable)
	require.Len(t, intro.SubtitleFiles, 1)

	outtake, ok := byName["outtake"]
	require.True(t, ok)
	assert.False(t, outtake.HasSubtitles)
	assert.True(t, outtake.Uploadable)
}

func TestScanner_SidecarMustMatchClipStem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "clip.mp4"))
	writeFile(t, filepath.Join(dir, "clipdirector-cut.srt"))

	s := NewScanner([]SourceConfig{{ID: "src", Path: dir}})
	lib, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, lib.Clips, 1)
	assert.True(t, lib.Clips[0].Uploadable, "an unrelated subtitle file must not claim the clip")
}

func TestScanner_SkipsMissingSourceDir(t *testing.T) {
	s := NewScanner([]SourceConfig{{ID: "gone", Path: "/nonexistent/footage"}})
	lib, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lib.Sources)
	assert.Empty(t, lib.Clips)
}

func TestScanner_CacheServesUntilInvalidated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.mp4"))

	s := NewScanner([]SourceConfig{{ID: "src", Path: dir}}, WithCacheTTL(time.Hour))

	first, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Clips, 1)

	writeFile(t, filepath.Join(dir, "two.mp4"))

	cached, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached.Clips, 1, "cached scan must not see the new file yet")

	s.Invalidate()
	fresh, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, fresh.Clips, 2)
}

func TestCleanClipName(t *testing.T) {
	cases := map[string]string{
		"beach_day.final":           "beach day final",
		"interview-1080p x264":      "interview",
		"holiday.clip.WEB-DL.2160p": "holiday clip",
		"plain":                     "plain",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanClipName(in), "input %q", in)
	}
}
