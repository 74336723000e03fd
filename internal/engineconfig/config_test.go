package engineconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, validateConfig(cfg))
	assert.Equal(t, []int{0, 9}, cfg.Linux.DeviceRange)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Worker.PollIntervalSeconds)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webcam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker:\n  poll_interval_seconds: 1.5\nlogging:\n  level: debug\n"), 0644))

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.Worker.PollIntervalSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsNonPositivePollInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Worker.PollIntervalSeconds = 0
	assert.Error(t, validateConfig(cfg))
}

func TestValidateRejectsMalformedDeviceRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Linux.DeviceRange = []int{1, 2, 3}
	assert.Error(t, validateConfig(cfg))
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webcam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))

	reloaded := make(chan *Config, 1)
	watcher, err := NewWatcher(path, func(c *Config) error {
		reloaded <- c
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
