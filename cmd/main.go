package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"weeklyworks/internal/config"
	"weeklyworks/internal/githubapi"
	"weeklyworks/internal/logger"
	"weeklyworks/internal/notifier"
	"weeklyworks/internal/schedule"
	"weeklyworks/internal/weekly"
	"weeklyworks/pkg/models"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	envFile := flag.String("env", ".env", "optional .env file with tokens")
	flag.Parse()

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}

	slog.Info("Weekly PR summary service started",
		"log_file", cfg.Log.File,
		"log_level", cfg.Log.Level,
		"repositories", len(cfg.GitHub.Repositories),
		"interval_hours", cfg.Schedule.IntervalHours,
		"disable_delay", cfg.Schedule.DisableDelay)

	ghClient, err := githubapi.NewClient(cfg.GitHub)
	if err != nil {
		slog.Error("Invalid GitHub configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner, name, err := cfg.GitHub.Repositories[0].Split()
	if err != nil {
		slog.Error("Invalid repository", "repo", cfg.GitHub.Repositories[0].Name, "error", err)
		os.Exit(1)
	}
	if err := ghClient.TestConnection(ctx, owner, name); err != nil {
		slog.Error("GitHub connection test failed", "error", err)
		os.Exit(1)
	}
	slog.Info("GitHub connection test succeeded")

	slackNotifier := notifier.NewSlackNotifier(notifier.NewSlackClient(cfg.Slack), cfg.Slack.Color, slog.Default())
	job := weekly.NewJob(ghClient, ghClient, slackNotifier)

	run(ctx, cfg, job, ghClient)
	slog.Info("Shutdown complete.")
}

type repositoryResolver interface {
	GetRepository(ctx context.Context, owner, repo string) (models.Repository, error)
}

// run drives the weekly job for every configured repository until ctx is done.
func run(ctx context.Context, cfg *config.Config, job *weekly.Job, resolver repositoryResolver) {
	scheduler := schedule.New(cfg.Schedule.Interval(), cfg.Schedule.DisableDelay)
	scheduler.Run(ctx, func(ctx context.Context) {
		tickAll(ctx, job, resolver, cfg.GitHub.Repositories)
	})
}

// tickAll runs one tick per repository. A failing repository is logged and
// does not stop the others. Nothing is requested from GitHub unless the job
// is due.
func tickAll(ctx context.Context, job *weekly.Job, resolver repositoryResolver, repos []config.Repository) {
	if !job.Due() {
		slog.Info("Not a notification day, skipping tick")
		return
	}

	for _, r := range repos {
		owner, name, err := r.Split()
		if err != nil {
			slog.Error("Invalid repository", "repo", r.Name, "error", err)
			continue
		}

		repo, err := resolver.GetRepository(ctx, owner, name)
		if err != nil {
			slog.Error("Error resolving repository", "repo", r.Name, "error", err)
			continue
		}

		if err := job.Tick(ctx, repo, r.Channel); err != nil {
			slog.Error("Weekly tick failed", "repo", r.Name, "error", err)
		}
	}
}
