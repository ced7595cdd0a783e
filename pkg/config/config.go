// Package config loads devlog settings from .devlog.yaml, DEVLOG_* environment
// variables, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/devlog/pkg/rollup"
)

// Config holds all devlog configuration.
type Config struct {
	Vault     VaultConfig     `mapstructure:"vault"`
	Jira      JiraConfig      `mapstructure:"jira"`
	Daily     DailyConfig     `mapstructure:"daily"`
	Rollover  RolloverConfig  `mapstructure:"rollover"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// VaultConfig locates the daily log and summaries.
type VaultConfig struct {
	Path       string `mapstructure:"path"`
	Folder     string `mapstructure:"folder"`
	ReportFile string `mapstructure:"report_file"`
	// SummaryFolder defaults to Folder when empty.
	SummaryFolder string `mapstructure:"summary_folder"`
}

// JiraConfig holds issue tracker access settings.
type JiraConfig struct {
	Domain     string        `mapstructure:"domain"`
	Email      string        `mapstructure:"email"`
	APIToken   string        `mapstructure:"api_token"`
	JQL        string        `mapstructure:"jql"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DailyConfig tunes the daily report.
type DailyConfig struct {
	SkipWeekends bool `mapstructure:"skip_weekends"`
}

// RolloverConfig tunes monthly rollovers.
type RolloverConfig struct {
	// Auto rolls the previous month over before each daily report.
	Auto         bool   `mapstructure:"auto"`
	UniqueIssues string `mapstructure:"unique_issues"`
	KeepPreamble bool   `mapstructure:"keep_preamble"`
	Archive      bool   `mapstructure:"archive"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig enables OTLP export. An empty endpoint keeps telemetry off.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	Environment  string  `mapstructure:"environment"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Sentinel validation errors.
var (
	// ErrEmptyVaultPath indicates vault.path is empty.
	ErrEmptyVaultPath = errors.New("vault.path must not be empty")
	// ErrEmptyReportFile indicates vault.report_file is empty.
	ErrEmptyReportFile = errors.New("vault.report_file must not be empty")
	// ErrInvalidMaxResults indicates jira.max_results is not positive.
	ErrInvalidMaxResults = errors.New("jira.max_results must be positive")
	// ErrInvalidTimeout indicates jira.timeout is not positive.
	ErrInvalidTimeout = errors.New("jira.timeout must be positive")
	// ErrInvalidUniquePolicy indicates rollover.unique_issues is neither "first" nor "last".
	ErrInvalidUniquePolicy = errors.New(`rollover.unique_issues must be "first" or "last"`)
	// ErrInvalidLogLevel indicates an unknown logging.level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn, or error")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vault.Path) == "" {
		return ErrEmptyVaultPath
	}

	if strings.TrimSpace(c.Vault.ReportFile) == "" {
		return ErrEmptyReportFile
	}

	if c.Jira.MaxResults <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxResults, c.Jira.MaxResults)
	}

	if c.Jira.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Jira.Timeout)
	}

	_, err := rollup.ParseUniquePolicy(c.Rollover.UniqueIssues)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUniquePolicy, c.Rollover.UniqueIssues)
	}

	_, err = c.Logging.SlogLevel()
	if err != nil {
		return err
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// UniquePolicy returns the parsed rollover.unique_issues value.
func (c *Config) UniquePolicy() rollup.UniquePolicy {
	policy, err := rollup.ParseUniquePolicy(c.Rollover.UniqueIssues)
	if err != nil {
		return rollup.UniqueLast
	}

	return policy
}

// VaultRoot returns vault.path with a leading "~" expanded to the home directory.
func (c *Config) VaultRoot() string {
	return expandHome(c.Vault.Path)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
