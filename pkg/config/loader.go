package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".devlog"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for devlog settings.
const envPrefix = "DEVLOG"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// legacyEnv maps config keys to the unprefixed variables the Jira tooling
// already reads. The DEVLOG_ form is checked first.
var legacyEnv = map[string]string{
	"jira.email":              "JIRA_EMAIL",
	"jira.api_token":          "JIRA_API_TOKEN",
	"jira.domain":             "JIRA_DOMAIN",
	"telemetry.otlp_endpoint": "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	err := bindLegacyEnv(viperCfg)
	if err != nil {
		return nil, err
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, homeErr := os.UserHomeDir()
		if homeErr == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func bindLegacyEnv(viperCfg *viper.Viper) error {
	for key, legacy := range legacyEnv {
		prefixed := envPrefix + envKeySeparator + strings.ToUpper(strings.ReplaceAll(key, ".", envKeySeparator))

		err := viperCfg.BindEnv(key, prefixed, legacy)
		if err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	return nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("vault.path", DefaultVaultPath)
	viperCfg.SetDefault("vault.folder", DefaultVaultFolder)
	viperCfg.SetDefault("vault.report_file", DefaultReportFile)
	viperCfg.SetDefault("vault.summary_folder", "")

	viperCfg.SetDefault("jira.domain", "")
	viperCfg.SetDefault("jira.email", "")
	viperCfg.SetDefault("jira.api_token", "")
	viperCfg.SetDefault("jira.jql", DefaultJQL)
	viperCfg.SetDefault("jira.max_results", DefaultJiraMaxResults)
	viperCfg.SetDefault("jira.timeout", DefaultJiraTimeout)

	viperCfg.SetDefault("daily.skip_weekends", DefaultSkipWeekends)

	viperCfg.SetDefault("rollover.auto", DefaultRolloverAuto)
	viperCfg.SetDefault("rollover.unique_issues", DefaultUniqueIssues)
	viperCfg.SetDefault("rollover.keep_preamble", DefaultKeepPreamble)
	viperCfg.SetDefault("rollover.archive", DefaultRolloverArchive)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", DefaultLogJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.environment", DefaultEnvironment)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
}
