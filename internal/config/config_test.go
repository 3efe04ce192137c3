package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GITHUB_TOKEN", "SLACK_BOT_TOKEN", "DISABLE_DELAY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	configContent := `
github:
  token: "gh-token"
  base_url: "https://ghe.example.com/api/v3/"
  repositories:
    - name: "acme/widgets"
      channel: "#widgets"
    - name: "acme/gadgets"

slack:
  token: "xoxb-test"
  color: "#ff0000"

schedule:
  interval_hours: 12
  disable_delay: true

log:
  file: "logs/app.log"
  level: "debug"
  format: "json"
  max_size_mb: 100
  max_backups: 3
  max_age_days: 30
  compress: true
  stdout: true
`
	path := writeTemp(t, "config.yaml", configContent)

	config, err := Load(path, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if config.GitHub.Token != "gh-token" {
		t.Errorf("Expected github token 'gh-token', got '%s'", config.GitHub.Token)
	}
	if config.GitHub.BaseURL != "https://ghe.example.com/api/v3/" {
		t.Errorf("Unexpected base url '%s'", config.GitHub.BaseURL)
	}
	if len(config.GitHub.Repositories) != 2 {
		t.Fatalf("Expected 2 repositories, got %d", len(config.GitHub.Repositories))
	}
	if config.GitHub.Repositories[0].Channel != "#widgets" {
		t.Errorf("Expected channel '#widgets', got '%s'", config.GitHub.Repositories[0].Channel)
	}
	if config.GitHub.RepoConfig != DefaultRepoConfig {
		t.Errorf("Expected default repo config path, got '%s'", config.GitHub.RepoConfig)
	}
	if config.Slack.Color != "#ff0000" {
		t.Errorf("Expected color '#ff0000', got '%s'", config.Slack.Color)
	}
	if config.Schedule.Interval() != 12*time.Hour {
		t.Errorf("Expected 12h interval, got %v", config.Schedule.Interval())
	}
	if !config.Schedule.DisableDelay {
		t.Error("Expected disable_delay to be true")
	}
	if config.Log.File != "logs/app.log" {
		t.Errorf("Expected log file 'logs/app.log', got '%s'", config.Log.File)
	}
	if !config.Log.Stdout {
		t.Errorf("Expected stdout to be true, got %v", config.Log.Stdout)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "config.yaml", `
github:
  repositories:
    - name: "acme/widgets"
slack:
  token: "xoxb-test"
`)

	config, err := Load(path, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.Schedule.IntervalHours != DefaultIntervalHours {
		t.Errorf("Expected default interval %d, got %d", DefaultIntervalHours, config.Schedule.IntervalHours)
	}
	if config.Slack.Color != DefaultColor {
		t.Errorf("Expected default color, got '%s'", config.Slack.Color)
	}
	if config.Log.Level != "info" {
		t.Errorf("Expected default level 'info', got '%s'", config.Log.Level)
	}
	if config.Schedule.DisableDelay {
		t.Error("Expected delay to be enabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SLACK_BOT_TOKEN", "  xoxb-env  ")
	t.Setenv("GITHUB_TOKEN", "gh-env")
	t.Setenv("DISABLE_DELAY", "1")

	path := writeTemp(t, "config.yaml", `
github:
  token: "gh-file"
  repositories:
    - name: "acme/widgets"
slack:
  token: "xoxb-file"
`)

	config, err := Load(path, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.Slack.Token != "xoxb-env" {
		t.Errorf("Expected trimmed env slack token, got '%s'", config.Slack.Token)
	}
	if config.GitHub.Token != "gh-env" {
		t.Errorf("Expected env github token, got '%s'", config.GitHub.Token)
	}
	if !config.Schedule.DisableDelay {
		t.Error("Expected DISABLE_DELAY=1 to disable the delay")
	}
}

func TestLoad_EnvFileDoesNotOverrideProcessEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "gh-process")
	envFile := writeTemp(t, ".env", "GITHUB_TOKEN=gh-dotenv\nSLACK_BOT_TOKEN=xoxb-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("SLACK_BOT_TOKEN") })

	path := writeTemp(t, "config.yaml", `
github:
  repositories:
    - name: "acme/widgets"
`)

	config, err := Load(path, envFile)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.GitHub.Token != "gh-process" {
		t.Errorf("Expected process env to win, got '%s'", config.GitHub.Token)
	}
	if config.Slack.Token != "xoxb-dotenv" {
		t.Errorf("Expected slack token from .env, got '%s'", config.Slack.Token)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", "github: [unterminated")
	if _, err := Load(path, ""); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			GitHub:   GitHubConfig{Repositories: []Repository{{Name: "acme/widgets"}}},
			Slack:    SlackConfig{Token: "xoxb"},
			Schedule: ScheduleConfig{IntervalHours: 24},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing slack token", func(c *Config) { c.Slack.Token = "" }, true},
		{"no repositories", func(c *Config) { c.GitHub.Repositories = nil }, true},
		{"malformed repository", func(c *Config) { c.GitHub.Repositories[0].Name = "widgets" }, true},
		{"nested repository path", func(c *Config) { c.GitHub.Repositories[0].Name = "acme/widgets/extra" }, true},
		{"interval above a day", func(c *Config) { c.Schedule.IntervalHours = 48 }, true},
		{"negative interval", func(c *Config) { c.Schedule.IntervalHours = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRepository_Split(t *testing.T) {
	owner, name, err := Repository{Name: " acme/widgets "}.Split()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if owner != "acme" || name != "widgets" {
		t.Errorf("Expected acme/widgets, got %s/%s", owner, name)
	}
}

func TestDefaultRepoConfigPath(t *testing.T) {
	// GitHub paths are case-sensitive; existing repositories keep WeeklyWorks.yml.
	if DefaultRepoConfig != ".github/WeeklyWorks.yml" {
		t.Errorf("Expected '.github/WeeklyWorks.yml', got '%s'", DefaultRepoConfig)
	}
}

func TestParseRepoConfig(t *testing.T) {
	rc, err := ParseRepoConfig([]byte("channel: \" #weekly \"\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rc.Channel != "#weekly" {
		t.Errorf("Expected channel '#weekly', got '%s'", rc.Channel)
	}

	rc, err = ParseRepoConfig([]byte("other: value\n"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rc.Channel != "" {
		t.Errorf("Expected empty channel, got '%s'", rc.Channel)
	}

	if _, err := ParseRepoConfig([]byte("channel: [")); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestTruthy(t *testing.T) {
	tests := map[string]bool{
		"":      false,
		"false": false,
		"0":     false,
		"true":  true,
		"1":     true,
		"yes":   true,
	}
	for in, want := range tests {
		if got := truthy(in); got != want {
			t.Errorf("truthy(%q) = %v, want %v", in, got, want)
		}
	}
}
