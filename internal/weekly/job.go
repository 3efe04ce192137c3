// Package weekly runs one repository's weekly summary tick.
package weekly

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"weeklyworks/internal/config"
	"weeklyworks/internal/notifier"
	"weeklyworks/internal/report"
	"weeklyworks/internal/schedule"
	"weeklyworks/pkg/models"
)

// PullRequestLister fetches the closed pull requests of a repository.
type PullRequestLister interface {
	ListClosedPRs(ctx context.Context, owner, repo string) ([]models.PullRequest, error)
}

// RepoConfigLoader reads the configuration stored in a repository.
type RepoConfigLoader interface {
	LoadRepoConfig(ctx context.Context, owner, repo string) (config.RepoConfig, error)
}

type Job struct {
	PRs      PullRequestLister
	Configs  RepoConfigLoader
	Notifier notifier.Notifier
	Now      func() time.Time
}

func NewJob(prs PullRequestLister, configs RepoConfigLoader, n notifier.Notifier) *Job {
	return &Job{PRs: prs, Configs: configs, Notifier: n, Now: time.Now}
}

// Due reports whether the current tick should produce a summary.
func (j *Job) Due() bool {
	return schedule.ShouldNotify(j.Now())
}

// Tick posts the weekly summary for repo when today is Sunday (UTC).
// fallbackChannel is used when the repository has no channel of its own.
// Fetch and config errors are returned; delivery failures are not.
func (j *Job) Tick(ctx context.Context, repo models.Repository, fallbackChannel string) error {
	now := j.Now()
	if !schedule.ShouldNotify(now) {
		slog.Debug("Not a notification day", "repo", repo.FullName, "weekday", now.UTC().Weekday().String())
		return nil
	}

	prs, err := j.PRs.ListClosedPRs(ctx, repo.Owner, repo.Name)
	if err != nil {
		return fmt.Errorf("fetch closed pull requests: %w", err)
	}
	slog.Info("Total closed PRs", "repo", repo.FullName, "total", len(prs))

	window := report.NewWindow(now)
	msg := report.BuildMessage(repo, prs, window)
	slog.Info("PRs merged this week", "repo", repo.FullName, "count", msg.Count,
		"start", window.Start.Format(time.RFC3339), "end", window.End.Format(time.RFC3339))

	channel, err := j.resolveChannel(ctx, repo, fallbackChannel)
	if err != nil {
		return err
	}
	if channel == "" {
		slog.Info("No channel configured, skipping notification", "repo", repo.FullName)
		return nil
	}

	j.Notifier.Deliver(ctx, channel, msg)
	return nil
}

func (j *Job) resolveChannel(ctx context.Context, repo models.Repository, fallback string) (string, error) {
	if j.Configs == nil {
		return fallback, nil
	}
	rc, err := j.Configs.LoadRepoConfig(ctx, repo.Owner, repo.Name)
	if err != nil {
		return "", fmt.Errorf("load repository config: %w", err)
	}
	if rc.Channel != "" {
		return rc.Channel, nil
	}
	return fallback, nil
}
