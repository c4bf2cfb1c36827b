// Package watch schedules periodic scans of the configured footage
// directories and enqueues upload jobs for clips without subtitles.
package watch

import (
	"context"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/cliplab/clipstudio/internal/config"
	"github.com/cliplab/clipstudio/internal/jobs"
	"github.com/cliplab/clipstudio/internal/library"
	"github.com/cliplab/clipstudio/pkg/log"
)

// Enqueuer registers background work found during a scan.
type Enqueuer interface {
	Enqueue(req jobs.EnqueueRequest) (*jobs.ProcessingJob, bool)
}

type watchService struct {
	cfg      config.Config
	scanner  *library.Scanner
	queue    Enqueuer
	cronExpr string
	cron     *cron.Cron
}

func NewWatchService(
	cfg config.Config,
	scanner *library.Scanner,
	queue Enqueuer,
	cron *cron.Cron,
) watchService {
	return watchService{
		cfg:      cfg,
		scanner:  scanner,
		queue:    queue,
		cronExpr: cfg.Watch.CronExpr,
		cron:     cron,
	}
}

var singleflightGroup singleflight.Group

func (s watchService) Schedule(
	ctx context.Context,
) error {
	log.Info("Run WatchService")

	runFunc := func() {
		_, _, _ = singleflightGroup.Do("run", func() (any, error) {
			if err := s.RunOnce(ctx); err != nil {
				log.Error("Watch scan failed: %v", err)
			}
			return nil, nil
		})
	}
	_, err := s.cron.AddFunc(s.cronExpr, runFunc)
	return err
}

// RunOnce scans every watched directory and enqueues an upload job for
// each clip still lacking a subtitle sidecar. Already-enqueued clips
// coalesce through the queue's dedupe key.
func (s watchService) RunOnce(ctx context.Context) error {
	s.scanner.Invalidate()
	lib, err := s.scanner.Scan(ctx)
	if err != nil {
		return err
	}

	enqueued := 0
	for _, clip := range lib.Clips {
		if !clip.Uploadable {
			continue
		}

		payload := jobs.JobPayload{
			MediaFile: clip.MediaPath,
			Language:  s.cfg.Subtitle.Language,
			Style:     s.cfg.Subtitle.Style,
		}
		job, created := s.queue.Enqueue(jobs.EnqueueRequest{
			Source:    "watch",
			Action:    jobs.ActionUploadProcess,
			DedupeKey: payload.DedupeKey(jobs.ActionUploadProcess),
			Payload:   payload,
		})
		if created {
			enqueued++
			log.Info("Enqueued upload job %s for %s", job.ID, clip.MediaPath)
		}
	}

	log.Info("Watch scan found %d clips, enqueued %d upload jobs", len(lib.Clips), enqueued)
	return nil
}
