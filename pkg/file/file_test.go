package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "clip.srt", ReplaceExt("clip.mp4", "srt"))
	assert.Equal(t, "clip.en.srt", ReplaceExt("clip.mp4", ".en.srt"))
	assert.Equal(t, filepath.Join("a", "clip.srt"), ReplaceExt(filepath.Join("a", "clip.mp4"), "srt"))
	assert.Equal(t, "noext.srt", ReplaceExt("noext", "srt"))
	assert.Equal(t, "", ReplaceExt("", "srt"))
}

func TestHasExt(t *testing.T) {
	assert.True(t, HasExt("Clip.MP4", ".mp4"))
	assert.True(t, HasExt("clip.mov", "mov", "mp4"))
	assert.False(t, HasExt("clip.srt", ".mp4"))
	assert.False(t, HasExt("clip", ".mp4"))
}

func TestFindWithExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mp4", "b.txt", filepath.Join("sub", "c.MOV")} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	found, err := FindWithExt(dir, ".mp4", ".mov")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.mp4"),
		filepath.Join(dir, "sub", "c.MOV"),
	}, found)
}
