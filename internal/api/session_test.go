package api

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_PersistsTokenAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	first := NewSession(path)
	require.NoError(t, first.Init("tok-abc"))

	second := NewSession(path)
	assert.Equal(t, "tok-abc", second.Token())
	assert.True(t, second.Authenticated())
}

func TestSession_ClearRemovesToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	s := NewSession(path)
	require.NoError(t, s.Init("tok-abc"))
	require.NoError(t, s.Clear())

	assert.False(t, s.Authenticated())

	// a fresh session must not resurrect the cleared token
	again := NewSession(path)
	assert.Empty(t, again.Token())
}

func TestSession_ClearIsIdempotent(t *testing.T) {
	s := NewSession(filepath.Join(t.TempDir(), "token"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}

func TestSession_MemoryOnlyWithoutPath(t *testing.T) {
	s := NewSession("")
	require.NoError(t, s.Init("tok-mem"))
	assert.Equal(t, "tok-mem", s.Token())
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
}
