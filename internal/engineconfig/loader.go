package engineconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Loader loads Config using Viper: defaults, then an optional YAML file, then
// WEBCAM_-prefixed environment variables (highest precedence).
type Loader struct {
	viper  *viper.Viper
	logger *logrus.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("WEBCAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{
		viper:  v,
		logger: logrus.New(),
	}
}

// Load reads configuration from configPath, falling back to defaults if the
// file does not exist. An empty configPath skips the file entirely.
func (l *Loader) Load(configPath string) (*Config, error) {
	l.setDefaults()

	if configPath != "" {
		l.viper.SetConfigFile(configPath)
		if err := l.viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				l.logger.Warn("configuration file not found, using defaults")
			} else if os.IsNotExist(err) {
				l.logger.Warn("configuration file not found, using defaults")
			} else {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	l.logger.Info("configuration loaded successfully")
	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.viper.SetDefault("worker.poll_interval_seconds", 0.5)
	l.viper.SetDefault("worker.enumeration_timeout_seconds", 2.0)
	l.viper.SetDefault("worker.restart_throttle_seconds", 2.0)

	l.viper.SetDefault("linux.device_range", []int{0, 9})
	l.viper.SetDefault("linux.probe_concurrency", 4)

	l.viper.SetDefault("resolutions.file_path", "")

	l.viper.SetDefault("logging.level", "info")
	l.viper.SetDefault("logging.format", "text")
	l.viper.SetDefault("logging.file_enabled", false)
	l.viper.SetDefault("logging.file_path", "")
	l.viper.SetDefault("logging.max_file_size", 10485760)
	l.viper.SetDefault("logging.backup_count", 5)
	l.viper.SetDefault("logging.console_enabled", true)
}

// Viper returns the underlying *viper.Viper for advanced use.
func (l *Loader) Viper() *viper.Viper {
	return l.viper
}

// DefaultConfig returns a Config populated purely from defaults, with no file
// or environment overlay — useful for tests and for callers that never call
// Load.
func DefaultConfig() *Config {
	cfg, err := NewLoader().Load("")
	if err != nil {
		// Defaults alone must always validate; a failure here is a
		// programmer error in setDefaults, not a runtime condition.
		panic(fmt.Sprintf("engineconfig: default configuration is invalid: %v", err))
	}
	return cfg
}
