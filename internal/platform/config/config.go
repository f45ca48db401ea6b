package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "parkwatch/internal/platform/errors"
)

// Config holds all application configuration.
type Config struct {
	Zones     ZonesConfig     `mapstructure:"zones"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Stopwatch StopwatchConfig `mapstructure:"stopwatch"`
	Commander CommanderConfig `mapstructure:"commander"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Sampling  RateConfig      `mapstructure:"sampling"`
	Display   RateConfig      `mapstructure:"display"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type ZonesConfig struct {
	// File is a YAML zone layout. Empty selects the built-in course layout.
	File string `mapstructure:"file"`
}

type DetectorConfig struct {
	SpeedThreshold float64 `mapstructure:"speed_threshold"`
}

type StopwatchConfig struct {
	UseExternalClock bool `mapstructure:"use_external_clock"`
	AutoStart        bool `mapstructure:"auto_start"`
}

type CommanderConfig struct {
	Plugin  string        `mapstructure:"plugin"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeedConfig struct {
	NATSURL string `mapstructure:"nats_url"`
	Subject string `mapstructure:"subject"`
	Replay  string `mapstructure:"replay"`
}

type RateConfig struct {
	RateHz float64 `mapstructure:"rate_hz"`
}

// Interval converts the rate into a ticker period.
func (r RateConfig) Interval() time.Duration {
	return time.Duration(float64(time.Second) / r.RateHz)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from an optional file and environment variables.
// An explicit path must exist; without one, parkwatch.yaml is searched in
// the working directory and ./configs.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("zones.file", "")
	v.SetDefault("detector.speed_threshold", 0.0005)
	v.SetDefault("stopwatch.use_external_clock", true)
	v.SetDefault("stopwatch.auto_start", true)
	v.SetDefault("commander.plugin", "")
	v.SetDefault("commander.timeout", 2*time.Second)
	v.SetDefault("feed.nats_url", "")
	v.SetDefault("feed.subject", "parkwatch.odom")
	v.SetDefault("feed.replay", "")
	v.SetDefault("sampling.rate_hz", 100.0)
	v.SetDefault("display.rate_hz", 60.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", filepath.Join(".parkwatch", "parkwatch.log"))
	v.SetDefault("metrics.addr", "")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %v", apperrors.ErrInvalidConfig, path, err)
		}
	} else {
		v.SetConfigName("parkwatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
			}
		}
	}

	// Environment variables: PARKWATCH_FEED_NATS_URL → feed.nats_url
	v.SetEnvPrefix("PARKWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		base := filepath.Dir(used)
		cfg.Zones.File = resolve(base, cfg.Zones.File)
		cfg.Feed.Replay = resolve(base, cfg.Feed.Replay)
		cfg.Commander.Plugin = resolve(base, cfg.Commander.Plugin)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// Validate checks that configuration values are present and sane.
func (c Config) Validate() error {
	var errs []string

	if !(c.Detector.SpeedThreshold > 0) {
		errs = append(errs, fmt.Sprintf("detector.speed_threshold must be positive, got %g", c.Detector.SpeedThreshold))
	}
	if c.Commander.Timeout <= 0 {
		errs = append(errs, "commander.timeout must be positive")
	}
	if c.Sampling.RateHz <= 0 || c.Sampling.RateHz > 1000 {
		errs = append(errs, fmt.Sprintf("sampling.rate_hz must be in (0, 1000], got %g", c.Sampling.RateHz))
	}
	if c.Display.RateHz <= 0 || c.Display.RateHz > 240 {
		errs = append(errs, fmt.Sprintf("display.rate_hz must be in (0, 240], got %g", c.Display.RateHz))
	}
	if c.Feed.NATSURL != "" && strings.TrimSpace(c.Feed.Subject) == "" {
		errs = append(errs, "feed.subject is required with feed.nats_url")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", apperrors.ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}
