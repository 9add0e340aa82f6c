package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/config"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/publish"
	"github.com/JoshEngleman/nfl-dfs-visualizer/internal/service"
)

const runTimeout = 15 * time.Minute

// Pipeline is the part of the pipeline service the scheduled jobs drive.
type Pipeline interface {
	RebuildIfChanged(ctx context.Context, csvPath string) (*service.BuildResult, bool, error)
	Deploy(ctx context.Context, target publish.Target) (*publish.Result, error)
	FormatDeploy(res *publish.Result) string
	GetStatus() (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	pipeline    Pipeline
	cfg         config.Schedule
	sendMessage func(string) error
}

func NewScheduler(pipeline Pipeline, cfg config.Schedule, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Error("Failed to load location", "timezone", cfg.Timezone, "error", err)
		location = time.Local
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		pipeline:    pipeline,
		cfg:         cfg,
		sendMessage: sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	if s.cfg.CSV == "" {
		return fmt.Errorf("SCHEDULE_CSV must be set")
	}

	// Rebuild whenever the projections file changes
	_, err := s.s.NewJob(
		gocron.CronJob(s.cfg.Cron, false),
		gocron.NewTask(s.rebuild),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create rebuild job: %w", err)
	}

	// Morning status - daily 8:00
	_, err = s.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(8, 0, 0))),
		gocron.NewTask(s.sendStatus),
	)
	if err != nil {
		return fmt.Errorf("failed to create status job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) rebuild() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("Scheduled rebuild failed", "error", err)
		s.notify(fmt.Sprintf("⚠️ Scheduled rebuild failed: %v", err))
	}
}

// RunOnce rebuilds from the scheduled CSV if it changed, deploys when
// enabled, and sends a summary. It reports whether a build happened.
func (s *Scheduler) RunOnce(ctx context.Context) (bool, error) {
	res, built, err := s.pipeline.RebuildIfChanged(ctx, s.cfg.CSV)
	if err != nil {
		return false, err
	}
	if !built {
		return false, nil
	}

	msg := service.FormatBuild(res)
	if s.cfg.Deploy {
		up, err := s.pipeline.Deploy(ctx, publish.TargetAll)
		if err != nil {
			return true, err
		}
		msg += "\n" + s.pipeline.FormatDeploy(up)
	}
	s.notify("🏈 *Report rebuilt*\n\n" + msg)
	return true, nil
}

func (s *Scheduler) sendStatus() {
	status, err := s.pipeline.GetStatus()
	if err != nil {
		slog.Error("Failed to get status", "error", err)
		return
	}
	s.notify(status)
}

func (s *Scheduler) notify(text string) {
	if s.sendMessage == nil {
		slog.Info("Scheduled run", "summary", text)
		return
	}
	if err := s.sendMessage(text); err != nil {
		slog.Error("Failed to send notification", "error", err)
	}
}
