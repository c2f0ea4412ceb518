package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/apiaryworks/hivedash/internal/errors"
	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	GitHub     GitHubConfig
	Analytics  AnalyticsConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	APIToken        string        `mapstructure:"api_token"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GitHubConfig identifies the repository the sensor fleet publishes into.
// Owner and Repo are required; Token is optional and only attached to
// fingerprint lookups (content fetches go through the public raw path).
type GitHubConfig struct {
	Owner          string        `mapstructure:"owner"`
	Repo           string        `mapstructure:"repo"`
	Branch         string        `mapstructure:"branch"`
	Token          string        `mapstructure:"token"`
	DataFile       string        `mapstructure:"data_file"`
	ConfigFile     string        `mapstructure:"config_file"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	RawBaseURL     string        `mapstructure:"raw_base_url"`
}

// AnalyticsConfig holds the alert thresholds for the fleet
type AnalyticsConfig struct {
	HighTempThreshold      float64 `mapstructure:"high_temp_threshold"`
	LowTempThreshold       float64 `mapstructure:"low_temp_threshold"`
	HighHumidityThreshold  float64 `mapstructure:"high_humidity_threshold"`
	LowWeightThreshold     float64 `mapstructure:"low_weight_threshold"`
	LowEfficiencyThreshold float64 `mapstructure:"low_efficiency_threshold"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("HIVEDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.api_token", "")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// GitHub defaults. Owner, repo and token default to empty so the
	// keys are known to viper and bindable from the environment.
	viper.SetDefault("github.owner", "")
	viper.SetDefault("github.repo", "")
	viper.SetDefault("github.token", "")
	viper.SetDefault("github.branch", "main")
	viper.SetDefault("github.data_file", "beehive_data.json")
	viper.SetDefault("github.config_file", "hives_config.json")
	viper.SetDefault("github.poll_interval", "30s")
	viper.SetDefault("github.request_timeout", "10s")
	viper.SetDefault("github.api_base_url", "https://api.github.com")
	viper.SetDefault("github.raw_base_url", "https://raw.githubusercontent.com")

	// Analytics defaults
	viper.SetDefault("analytics.high_temp_threshold", 38.0)
	viper.SetDefault("analytics.low_temp_threshold", 30.0)
	viper.SetDefault("analytics.high_humidity_threshold", 80.0)
	viper.SetDefault("analytics.low_weight_threshold", 30.0)
	viper.SetDefault("analytics.low_efficiency_threshold", 0.01)

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	missing := []string{}
	if config.GitHub.Owner == "" {
		missing = append(missing, "github.owner")
	}
	if config.GitHub.Repo == "" {
		missing = append(missing, "github.repo")
	}
	if len(missing) > 0 {
		return errors.NewConfigurationError(
			fmt.Sprintf("missing required configuration: %s", strings.Join(missing, ", ")), nil)
	}
	if config.GitHub.PollInterval <= 0 {
		return errors.NewConfigurationError("github.poll_interval must be positive", nil)
	}
	if config.GitHub.RequestTimeout <= 0 {
		return errors.NewConfigurationError("github.request_timeout must be positive", nil)
	}
	return nil
}
