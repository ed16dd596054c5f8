package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`

	Host string `toml:"host"`
	Port int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// external services
	FirebaseApiUrl   string `toml:"firebase_api_url"`
	FitbitApiUrl     string `toml:"fitbit_api_url"`
	FitbitUserID     string `toml:"fitbit_user_id"`
	PoseEstimatorUrl string `toml:"pose_estimator_url"`

	CorsAllowedOrigins          []string `toml:"cors_allowed_origins"`
	LoginRateLimitAllowedPerMin int      `toml:"login_rate_limit_allowed_per_min"`

	// trainer
	TrainerMaxSessions          int     `toml:"trainer_max_sessions"`
	TrainerSampleBuffer         int     `toml:"trainer_sample_buffer"`
	TrainerIdleTimeoutSec       int     `toml:"trainer_idle_timeout_sec"`
	TrainerFinishedRetentionSec int     `toml:"trainer_finished_retention_sec"`
	RepDownThreshold            float64 `toml:"rep_down_threshold"`
	RepUpThreshold              float64 `toml:"rep_up_threshold"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = "development"
	case "prod", "production":
		cfg = t.Production
		env = "production"
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	cfg.Environment = env
	cfg.setDefaults()

	return cfg, nil
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.TrainerMaxSessions == 0 {
		c.TrainerMaxSessions = 32
	}
	if c.TrainerSampleBuffer == 0 {
		c.TrainerSampleBuffer = 64
	}
	if c.TrainerIdleTimeoutSec == 0 {
		c.TrainerIdleTimeoutSec = 120
	}
	if c.TrainerFinishedRetentionSec == 0 {
		c.TrainerFinishedRetentionSec = 600
	}
	if c.RepDownThreshold == 0 {
		c.RepDownThreshold = 150
	}
	if c.RepUpThreshold == 0 {
		c.RepUpThreshold = 40
	}
	if c.LoginRateLimitAllowedPerMin == 0 {
		c.LoginRateLimitAllowedPerMin = 15
	}
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.RepUpThreshold >= c.RepDownThreshold {
		return errors.New("rep up threshold must be lower than rep down threshold")
	}
	if c.TrainerSampleBuffer < 1 {
		return errors.New("trainer sample buffer must be positive")
	}
	return nil
}
