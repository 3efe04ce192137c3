package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntervalHours = 24
	DefaultColor         = "#2eb886"
	DefaultRepoConfig    = ".github/WeeklyWorks.yml"
)

// Config represents the application configuration
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Slack    SlackConfig    `yaml:"slack"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
}

type GitHubConfig struct {
	Token        string       `yaml:"token"`
	BaseURL      string       `yaml:"base_url"`
	RepoConfig   string       `yaml:"repo_config"`
	Repositories []Repository `yaml:"repositories"`
}

// Repository is one watched repository. Channel is a fallback used when the
// repository does not carry its own config file.
type Repository struct {
	Name    string `yaml:"name"`
	Channel string `yaml:"channel"`
}

// Split returns the owner and repository parts of "owner/name".
func (r Repository) Split() (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(r.Name), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository %q must be in owner/name form", r.Name)
	}
	return owner, name, nil
}

type SlackConfig struct {
	Token  string `yaml:"token"`
	APIURL string `yaml:"api_url"`
	Color  string `yaml:"color"`
}

type ScheduleConfig struct {
	IntervalHours int  `yaml:"interval_hours"`
	DisableDelay  bool `yaml:"disable_delay"`
}

// Interval returns the tick interval as a duration.
func (s ScheduleConfig) Interval() time.Duration {
	return time.Duration(s.IntervalHours) * time.Hour
}

type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	Stdout     bool   `yaml:"stdout"`
}

// RepoConfig is the per-repository file stored inside the watched repository.
// An empty Channel disables delivery for that repository.
type RepoConfig struct {
	Channel string `yaml:"channel"`
}

// ParseRepoConfig decodes the per-repository config file.
func ParseRepoConfig(data []byte) (RepoConfig, error) {
	var rc RepoConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return RepoConfig{}, fmt.Errorf("parse repository config: %w", err)
	}
	rc.Channel = strings.TrimSpace(rc.Channel)
	return rc, nil
}

// Load reads the configuration file, applies environment overrides and
// defaults, and validates the result. envFile may be empty or missing.
func Load(path, envFile string) (*Config, error) {
	loadEnvFile(envFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse configuration file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile copies .env entries into the process environment without
// overriding variables that are already set.
func loadEnvFile(envFile string) {
	if envFile == "" {
		return
	}
	envMap, err := godotenv.Read(envFile)
	if err != nil {
		slog.Debug("No env file loaded", "path", envFile, "error", err)
		return
	}
	for k, v := range envMap {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, v)
		}
	}
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv("GITHUB_TOKEN"); ok {
		c.GitHub.Token = v
	}
	if v, ok := os.LookupEnv("SLACK_BOT_TOKEN"); ok {
		c.Slack.Token = v
	}
	if v, ok := os.LookupEnv("DISABLE_DELAY"); ok {
		c.Schedule.DisableDelay = truthy(v)
	}

	originalGH, originalSlack := c.GitHub.Token, c.Slack.Token
	c.GitHub.Token = strings.TrimSpace(c.GitHub.Token)
	c.Slack.Token = strings.TrimSpace(c.Slack.Token)
	if c.GitHub.Token != originalGH || c.Slack.Token != originalSlack {
		slog.Debug("Trimmed spaces from API tokens in config.")
	}
}

func (c *Config) applyDefaults() {
	if c.Schedule.IntervalHours == 0 {
		c.Schedule.IntervalHours = DefaultIntervalHours
	}
	if c.Slack.Color == "" {
		c.Slack.Color = DefaultColor
	}
	if c.GitHub.RepoConfig == "" {
		c.GitHub.RepoConfig = DefaultRepoConfig
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that the configuration can drive a scheduler run.
func (c *Config) Validate() error {
	if c.Slack.Token == "" {
		return fmt.Errorf("slack token is required (slack.token or SLACK_BOT_TOKEN)")
	}
	if len(c.GitHub.Repositories) == 0 {
		return fmt.Errorf("at least one repository must be configured")
	}
	for _, r := range c.GitHub.Repositories {
		if _, _, err := r.Split(); err != nil {
			return err
		}
	}
	// The Sunday gate only catches every week when ticks are at most a day apart.
	if c.Schedule.IntervalHours < 0 || c.Schedule.IntervalHours > 24 {
		return fmt.Errorf("schedule.interval_hours must be between 1 and 24, got %d", c.Schedule.IntervalHours)
	}
	return nil
}

// truthy treats any non-empty value other than an explicit false as true.
func truthy(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return true
	}
	return b
}
