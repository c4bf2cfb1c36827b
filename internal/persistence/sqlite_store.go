// Package persistence stores job history in a local SQLite database so a
// restarted process can list past work and resume interrupted jobs.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cliplab/clipstudio/internal/jobs"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL DEFAULT '',
	action      TEXT NOT NULL DEFAULT '',
	dedupe_key  TEXT NOT NULL DEFAULT '',
	payload     TEXT NOT NULL DEFAULT '{}',
	status      TEXT NOT NULL DEFAULT 'pending',
	error       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadJobs(ctx context.Context) ([]*jobs.ProcessingJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, action, dedupe_key, payload, status, error, created_at, updated_at
		FROM jobs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var ret []*jobs.ProcessingJob
	for rows.Next() {
		var (
			job        jobs.ProcessingJob
			action     string
			status     string
			rawPayload string
			createdAt  time.Time
			updatedAt  time.Time
		)
		if err := rows.Scan(&job.ID, &job.Source, &action, &job.DedupeKey,
			&rawPayload, &status, &job.Error, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if err := json.Unmarshal([]byte(rawPayload), &job.Payload); err != nil {
			return nil, fmt.Errorf("decode payload for job %s: %w", job.ID, err)
		}
		job.Action = jobs.Action(action)
		job.Status = jobs.Status(status)
		job.CreatedAt = createdAt
		job.UpdatedAt = updatedAt
		ret = append(ret, &job)
	}
	return ret, rows.Err()
}

func (s *SQLiteStore) UpsertJob(ctx context.Context, job *jobs.ProcessingJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("job id is required")
	}
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, source, action, dedupe_key, payload, status, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			action = excluded.action,
			dedupe_key = excluded.dedupe_key,
			payload = excluded.payload,
			status = excluded.status,
			error = excluded.error,
			updated_at = excluded.updated_at`,
		job.ID, job.Source, string(job.Action), job.DedupeKey, string(payload),
		string(job.Status), job.Error, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", job.ID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteJob(ctx context.Context, jobID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, jobID); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}
	return nil
}
