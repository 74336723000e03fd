package engineconfig

import "fmt"

// LoggingConfig mirrors logging.LoggingConfig; duplicated here (rather than
// imported) to avoid a dependency cycle between engineconfig and logging.
type LoggingConfig struct {
	Level          string `mapstructure:"level"`
	Format         string `mapstructure:"format"`
	FileEnabled    bool   `mapstructure:"file_enabled"`
	FilePath       string `mapstructure:"file_path"`
	MaxFileSize    int    `mapstructure:"max_file_size"`
	BackupCount    int    `mapstructure:"backup_count"`
	ConsoleEnabled bool   `mapstructure:"console_enabled"`
}

// WorkerConfig controls the manager's background worker.
type WorkerConfig struct {
	// PollIntervalSeconds is how often the worker re-enumerates devices.
	PollIntervalSeconds float64 `mapstructure:"poll_interval_seconds"`
	// EnumerationTimeoutSeconds bounds a single enumeration pass.
	EnumerationTimeoutSeconds float64 `mapstructure:"enumeration_timeout_seconds"`
	// RestartThrottleSeconds is the minimum spacing between open attempts
	// for the same device, enforced by a rate.Limiter per DeviceId.
	RestartThrottleSeconds float64 `mapstructure:"restart_throttle_seconds"`
}

// LinuxBackendConfig controls the V4L2-based backend's device probing.
type LinuxBackendConfig struct {
	// DeviceRange is the inclusive [min,max] /dev/videoN index range probed
	// on every enumeration pass; hotplug events only trigger an earlier pass.
	DeviceRange []int `mapstructure:"device_range"`
	// ProbeConcurrency bounds the errgroup fan-out used to probe candidate
	// device nodes concurrently.
	ProbeConcurrency int `mapstructure:"probe_concurrency"`
}

// ResolutionsConfig controls persistence of the ResolutionSelection registry.
type ResolutionsConfig struct {
	// FilePath is where selected resolutions are persisted as YAML. Empty
	// disables persistence (selections then live only as long as the
	// process does).
	FilePath string `mapstructure:"file_path"`
}

// Config aggregates every ambient/domain-stack setting for the engine. It
// intentionally has no fields for recording, streaming, or any wire protocol
// concern — none of those exist in this library's scope.
type Config struct {
	Worker      WorkerConfig       `mapstructure:"worker"`
	Linux       LinuxBackendConfig `mapstructure:"linux"`
	Resolutions ResolutionsConfig  `mapstructure:"resolutions"`
	Logging     LoggingConfig      `mapstructure:"logging"`
}

// ToLoggingConfig projects the embedded logging settings as a standalone
// struct with the same field layout as logging.LoggingConfig, to be passed to
// logging.SetupLogging by callers that import both packages.
func (c *Config) ToLoggingConfig() LoggingConfig {
	return c.Logging
}

func validateConfig(c *Config) error {
	if c.Worker.PollIntervalSeconds <= 0 {
		return fmt.Errorf("worker.poll_interval_seconds must be positive, got %v", c.Worker.PollIntervalSeconds)
	}
	if c.Worker.EnumerationTimeoutSeconds <= 0 {
		return fmt.Errorf("worker.enumeration_timeout_seconds must be positive, got %v", c.Worker.EnumerationTimeoutSeconds)
	}
	if c.Worker.RestartThrottleSeconds < 0 {
		return fmt.Errorf("worker.restart_throttle_seconds must not be negative, got %v", c.Worker.RestartThrottleSeconds)
	}
	if len(c.Linux.DeviceRange) != 0 && len(c.Linux.DeviceRange) != 2 {
		return fmt.Errorf("linux.device_range must have exactly 2 elements [min,max], got %d", len(c.Linux.DeviceRange))
	}
	if len(c.Linux.DeviceRange) == 2 && c.Linux.DeviceRange[0] > c.Linux.DeviceRange[1] {
		return fmt.Errorf("linux.device_range min (%d) must not exceed max (%d)", c.Linux.DeviceRange[0], c.Linux.DeviceRange[1])
	}
	return nil
}

// String renders a human-readable summary for startup logging.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{worker_poll=%.3fs, enum_timeout=%.3fs, restart_throttle=%.3fs, device_range=%v, resolutions_file=%q, log_level=%s}",
		c.Worker.PollIntervalSeconds,
		c.Worker.EnumerationTimeoutSeconds,
		c.Worker.RestartThrottleSeconds,
		c.Linux.DeviceRange,
		c.Resolutions.FilePath,
		c.Logging.Level,
	)
}
