package jobs

import "context"

// Store persists job states so a restarted process can list and resume
// them.
type Store interface {
	LoadJobs(ctx context.Context) ([]*ProcessingJob, error)
	UpsertJob(ctx context.Context, job *ProcessingJob) error
	DeleteJob(ctx context.Context, jobID string) error
}
