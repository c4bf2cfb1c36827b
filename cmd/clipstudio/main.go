package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/cliplab/clipstudio/internal/api"
	"github.com/cliplab/clipstudio/internal/config"
	"github.com/cliplab/clipstudio/internal/editor"
	"github.com/cliplab/clipstudio/internal/jobs"
	"github.com/cliplab/clipstudio/internal/library"
	"github.com/cliplab/clipstudio/internal/persistence"
	"github.com/cliplab/clipstudio/internal/subtitle"
	"github.com/cliplab/clipstudio/internal/watch"
	"github.com/cliplab/clipstudio/internal/workflow"
	"github.com/cliplab/clipstudio/pkg/file"
	"github.com/cliplab/clipstudio/pkg/log"
)

const usage = `Usage: clipstudio <command> [args]

Commands:
  login <email> <password>            Sign in and persist the auth token
  logout                              Drop the persisted auth token
  register <email> <password> <first> <last>
  upload <file>                       Upload a video and run processing
  videos                              List your uploaded videos
  status <videoID>                    Show processing status
  subtitles <videoID> [language]      Print the video's subtitles as SRT
  export <videoID> <srt|json> [dir]   Save subtitles to a file
  jobs                                List background job history
  watch                               Watch configured dirs and auto-upload
`

func main() {
	_ = godotenv.Load()

	log.InitLogger(log.ParseLevel(os.Getenv("CLIPSTUDIO_LOG_LEVEL")))

	cfg, err := config.NewFromEnv()
	if err != nil {
		fatal("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	client, err := api.NewClient(
		&api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout},
		api.NewSession(cfg.API.TokenPath),
	)
	if err != nil {
		fatal("Failed to create API client: %v", err)
	}

	a := app{cfg: *cfg, client: client}
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "login":
		err = a.login(ctx, args)
	case "logout":
		err = client.Logout()
	case "register":
		err = a.register(ctx, args)
	case "upload":
		err = a.upload(ctx, args)
	case "videos":
		err = a.videos(ctx)
	case "status":
		err = a.status(ctx, args)
	case "subtitles":
		err = a.subtitles(ctx, args)
	case "export":
		err = a.export(ctx, args)
	case "jobs":
		err = a.jobs()
	case "watch":
		err = a.watch(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "clipstudio: "+format+"\n", args...)
	os.Exit(1)
}

type app struct {
	cfg    config.Config
	client *api.Client
}

func (a app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: clipstudio login <email> <password>")
	}
	resp, err := a.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s %s <%s>\n", resp.User.FirstName, resp.User.LastName, resp.User.Email)
	return nil
}

func (a app) register(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: clipstudio register <email> <password> <first> <last>")
	}
	err := a.client.Register(ctx, api.RegisterRequest{
		Email:     args[0],
		Password:  args[1],
		FirstName: args[2],
		LastName:  args[3],
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created, you can now log in")
	return nil
}

func (a app) processingOptions() api.ProcessingOptions {
	return api.ProcessingOptions{
		GenerateSubtitles: api.Bool(true),
		SubtitleLanguage:  api.String(a.cfg.Subtitle.Language),
		SubtitleStyle:     api.String(a.cfg.Subtitle.Style),
	}
}

func (a app) upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: clipstudio upload <file>")
	}

	session := workflow.NewSession()
	session.SelectFile(args[0], nil)

	orchestrator := workflow.NewOrchestrator(a.client)
	video, err := orchestrator.Run(ctx, session, a.processingOptions())
	if err != nil {
		return err
	}

	fmt.Printf("Uploaded and processed: video %s (%s)\n", video.ID, video.Status)
	return nil
}

func (a app) videos(ctx context.Context) error {
	videos, err := a.client.GetUserVideos(ctx)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		fmt.Println("No videos uploaded yet")
		return nil
	}
	for _, v := range videos {
		fmt.Printf("%s\t%s\t%s\n", v.ID, v.Status, v.Filename)
	}
	return nil
}

func (a app) status(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: clipstudio status <videoID>")
	}
	status, err := a.client.GetProcessingStatus(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s (%.0f%%)\n", status.Status, status.Progress)
	if status.Error != "" {
		fmt.Printf("error: %s\n", status.Error)
	}
	return nil
}

func (a app) subtitles(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: clipstudio subtitles <videoID> [language]")
	}
	language := ""
	if len(args) == 2 {
		language = args[1]
	}

	segments, err := a.client.GetSubtitles(ctx, args[0], language)
	if err != nil {
		return err
	}
	os.Stdout.Write(subtitle.EncodeSRT(segments))
	return nil
}

func (a app) export(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: clipstudio export <videoID> <srt|json> [dir]")
	}
	dir := "."
	if len(args) == 3 {
		dir = args[2]
	}

	segments, err := a.client.GetSubtitles(ctx, args[0], a.cfg.Subtitle.Language)
	if err != nil {
		return err
	}

	store := subtitle.NewStore(a.cfg.Subtitle.Language, a.cfg.Subtitle.Style)
	store.Load(segments)

	path, err := editor.NewSession(store).SaveExport(dir, editor.Format(args[1]))
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// jobs prints the persisted job history, oldest first.
func (a app) jobs() error {
	if a.cfg.Jobs.DBPath == "" {
		return fmt.Errorf("CLIPSTUDIO_JOB_DB is empty, no job history kept")
	}

	store, err := persistence.NewSQLiteStore(a.cfg.Jobs.DBPath)
	if err != nil {
		return fmt.Errorf("open job store: %w", err)
	}
	defer store.Close()

	history, err := store.LoadJobs(context.Background())
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("No jobs recorded")
		return nil
	}
	for _, job := range history {
		target := job.Payload.VideoID
		if target == "" {
			target = job.Payload.MediaFile
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Status, job.Action, target,
			job.UpdatedAt.Format("2006-01-02 15:04:05"))
		if job.Error != "" {
			fmt.Printf("\terror: %s\n", job.Error)
		}
	}
	return nil
}

// watch runs the background mode: a job queue backed by SQLite history,
// plus a cron-scheduled scan of the watched directories that feeds it.
func (a app) watch(ctx context.Context) error {
	if len(a.cfg.Watch.Dirs) == 0 {
		return fmt.Errorf("CLIPSTUDIO_WATCH_DIRS is empty, nothing to watch")
	}

	var store jobs.Store
	if a.cfg.Jobs.DBPath != "" {
		sqliteStore, err := persistence.NewSQLiteStore(a.cfg.Jobs.DBPath)
		if err != nil {
			return fmt.Errorf("open job store: %w", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}

	queue := jobs.NewQueue(a.cfg.Jobs.Workers, store)
	queue.Start(a.executeJob)
	defer queue.Stop()

	sources := make([]library.SourceConfig, 0, len(a.cfg.Watch.Dirs))
	for i, dir := range a.cfg.Watch.Dirs {
		sources = append(sources, library.SourceConfig{
			ID:   fmt.Sprintf("dir-%d", i),
			Name: dir,
			Path: dir,
		})
	}
	scanner := library.NewScanner(sources)

	c := cron.New()
	svc := watch.NewWatchService(a.cfg, scanner, queue, c)
	if err := svc.Schedule(ctx); err != nil {
		return err
	}

	// first scan immediately, then on the cron schedule
	if err := svc.RunOnce(ctx); err != nil {
		log.Error("Initial scan failed: %v", err)
	}
	c.Start()
	defer c.Stop()

	log.Info("Watching %d directories, press Ctrl+C to stop", len(a.cfg.Watch.Dirs))
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

// executeJob dispatches one queued job against the backend.
func (a app) executeJob(ctx context.Context, job *jobs.ProcessingJob) error {
	payload := job.Payload

	switch job.Action {
	case jobs.ActionUploadProcess:
		session := workflow.NewSession()
		session.SelectFile(payload.MediaFile, nil)

		orchestrator := workflow.NewOrchestrator(a.client)
		video, err := orchestrator.Run(ctx, session, api.ProcessingOptions{
			GenerateSubtitles: api.Bool(true),
			SubtitleLanguage:  api.String(payload.Language),
			SubtitleStyle:     api.String(payload.Style),
		})
		if err != nil {
			return err
		}
		return a.saveSidecar(ctx, video.ID, payload)

	case jobs.ActionGenerateSubtitles:
		return a.client.GenerateSubtitles(ctx, payload.VideoID, payload.Language, payload.Style)

	case jobs.ActionGenerateThumbnails:
		return a.client.GenerateThumbnails(ctx, payload.VideoID, api.ThumbnailOptions{})

	case jobs.ActionEnhanceAudio:
		return a.client.EnhanceAudio(ctx, payload.VideoID, api.AudioEnhanceOptions{})

	default:
		return fmt.Errorf("unknown job action %q", job.Action)
	}
}

// saveSidecar writes the processed subtitles next to the source clip so
// the next scan sees it as done.
func (a app) saveSidecar(ctx context.Context, videoID string, payload jobs.JobPayload) error {
	segments, err := a.client.GetSubtitles(ctx, videoID, payload.Language)
	if err != nil {
		return err
	}

	path := file.ReplaceExt(payload.MediaFile, "."+payload.Language+".srt")
	if err := os.WriteFile(path, subtitle.EncodeSRT(segments), 0o644); err != nil {
		return fmt.Errorf("write subtitle sidecar: %w", err)
	}
	log.Info("Wrote subtitle sidecar %s for video %s", path, videoID)
	return nil
}
