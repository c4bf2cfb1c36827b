package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliplab/clipstudio/internal/jobs"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleJob(id string, status jobs.Status) *jobs.ProcessingJob {
	now := time.Now().UTC().Truncate(time.Second)
	return &jobs.ProcessingJob{
		ID:        id,
		Source:    "manual",
		Action:    jobs.ActionGenerateSubtitles,
		DedupeKey: "vid-1|generate_subtitles",
		Payload:   jobs.JobPayload{VideoID: "vid-1", Language: "en", Style: "clean"},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSQLiteStore_UpsertAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("job-1", jobs.StatusPending)
	require.NoError(t, store.UpsertJob(ctx, job))

	loaded, err := store.LoadJobs(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.Action, got.Action)
	assert.Equal(t, job.Payload, got.Payload)
	assert.Equal(t, jobs.StatusPending, got.Status)
}

func TestSQLiteStore_UpsertUpdatesStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("job-1", jobs.StatusPending)
	require.NoError(t, store.UpsertJob(ctx, job))

	job.Status = jobs.StatusFailed
	job.Error = "backend unavailable"
	job.UpdatedAt = job.UpdatedAt.Add(time.Minute)
	require.NoError(t, store.UpsertJob(ctx, job))

	loaded, err := store.LoadJobs(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, jobs.StatusFailed, loaded[0].Status)
	assert.Equal(t, "backend unavailable", loaded[0].Error)
}

func TestSQLiteStore_DeleteJob(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertJob(ctx, sampleJob("job-1", jobs.StatusSuccess)))
	require.NoError(t, store.DeleteJob(ctx, "job-1"))
	// deleting a missing job is not an error
	require.NoError(t, store.DeleteJob(ctx, "job-1"))

	loaded, err := store.LoadJobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSQLiteStore_QueueHydrationResumesRunningJobs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "jobs.db")

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.UpsertJob(context.Background(), sampleJob("job-7", jobs.StatusRunning)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	q := jobs.NewQueue(1, reopened)
	got, ok := q.Get("job-7")
	require.True(t, ok, "hydrated queue must know the persisted job")
	assert.Equal(t, jobs.StatusPending, got.Status,
		"a job left running by a dead process goes back to pending")
}

func TestSQLiteStore_RejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	require.Error(t, err)
}
