package webcam

import (
	"os"
	"sync"

	"github.com/camerarecorder/webcam/internal/backend"
	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/engineconfig"
	"github.com/camerarecorder/webcam/internal/logging"
	"github.com/camerarecorder/webcam/internal/manager"
	"github.com/camerarecorder/webcam/internal/resolutions"
)

var apiLog = logging.GetLogger("webcam")

var (
	globalMu       sync.Mutex
	globalManager  *manager.Manager
	globalRefCount int
	globalRegistry *resolutions.Registry
)

// LibraryToken keeps the engine's background worker alive. Creating the
// first token constructs the Manager; closing the last one tears it down.
// A zero-value LibraryToken is not usable; obtain one with NewLibraryToken.
type LibraryToken struct {
	closeOnce sync.Once
}

// NewLibraryToken increments the library's reference count, constructing
// the Manager on the first call.
func NewLibraryToken() *LibraryToken {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalRefCount == 0 {
		globalManager = newManager()
	}
	globalRefCount++
	return &LibraryToken{}
}

// Close releases this token's reference. Once the last outstanding token
// is closed, the background worker is stopped and joined. Close is
// idempotent: calling it more than once on the same token has no further
// effect.
func (t *LibraryToken) Close() error {
	var err error
	t.closeOnce.Do(func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		globalRefCount--
		if globalRefCount <= 0 {
			globalRefCount = 0
			if globalManager != nil {
				err = globalManager.Close()
				globalManager = nil
			}
		}
	})
	return err
}

func newManager() *manager.Manager {
	cfg := loadConfig()
	if setupErr := logging.SetupLogging(toLoggingConfig(cfg.Logging)); setupErr != nil {
		apiLog.WithError(setupErr).Warn("failed to configure logging, continuing with defaults")
	}
	apiLog.WithField("config", cfg.String()).Info("starting webcam capture engine")

	// The registry is created once and shared by every later Manager, so
	// selections survive the last LibraryToken being closed.
	if globalRegistry == nil {
		globalRegistry = resolutions.New(cfg.Resolutions.FilePath)
	}
	return manager.New(cfg, backend.New(cfg), globalRegistry)
}

func loadConfig() *engineconfig.Config {
	loader := engineconfig.NewLoader()
	cfg, err := loader.Load(os.Getenv("WEBCAM_CONFIG_FILE"))
	if err != nil {
		apiLog.WithError(err).Warn("failed to load config, using defaults")
		return engineconfig.DefaultConfig()
	}
	return cfg
}

func toLoggingConfig(c engineconfig.LoggingConfig) *logging.LoggingConfig {
	return &logging.LoggingConfig{
		Level:          c.Level,
		Format:         c.Format,
		FileEnabled:    c.FileEnabled,
		FilePath:       c.FilePath,
		MaxFileSize:    c.MaxFileSize,
		BackupCount:    c.BackupCount,
		ConsoleEnabled: c.ConsoleEnabled,
	}
}

// Handle is the application's strong reference to a Request, returned by
// OpenWebcam. Multiple handles to the same DeviceId share the same
// underlying Request and therefore the same frames.
type Handle struct {
	req      *manager.Request
	released bool
	mu       sync.Mutex
}

// Image returns the current capture status: NotInitYetStatus, LiveStatus,
// or CaptureErrorStatus. It never blocks and always returns immediately.
func (h *Handle) Image() CaptureStatus {
	return h.req.Status()
}

// Equal reports whether h and other refer to the same underlying Request.
func (h *Handle) Equal(other *Handle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.req == other.req
}

// Close releases this handle's reference to its Request. Once every
// Handle for a given device is closed, the Manager's worker prunes that
// device's Request on its next iteration. Close is idempotent.
func (h *Handle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.req.DecRef()
}

func activeManager() *manager.Manager {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager
}

// OpenWebcam returns a Handle to id, creating the underlying Request on
// first use. Requires at least one outstanding LibraryToken; returns nil
// if the library is not currently kept alive.
func OpenWebcam(id DeviceId) *Handle {
	m := activeManager()
	if m == nil {
		apiLog.Warn("OpenWebcam called with no outstanding LibraryToken")
		return nil
	}
	req := m.OpenWebcam(id)
	req.IncRef()
	return &Handle{req: req}
}

// AllWebcamsInfo returns a snapshot of every currently-plugged device's
// Info. Returns nil if the library is not currently kept alive.
func AllWebcamsInfo() []Info {
	m := activeManager()
	if m == nil {
		return nil
	}
	return m.AllInfo()
}

// GetName returns id's display name, if it is currently known.
func GetName(id DeviceId) (string, bool) {
	m := activeManager()
	if m == nil {
		return "", false
	}
	return m.Name(id)
}

// GetSelectedResolution returns the user's chosen resolution for id, or a
// sensible default if none has been chosen yet.
func GetSelectedResolution(id DeviceId) Resolution {
	m := activeManager()
	if m == nil {
		return core.NewResolution(1, 1)
	}
	return m.GetSelectedResolution(id)
}

// SetSelectedResolution records the resolution to use for id, restarting
// any currently-open capture for it so the change takes effect promptly.
func SetSelectedResolution(id DeviceId, res Resolution) {
	m := activeManager()
	if m == nil {
		return
	}
	m.SetSelectedResolution(id, res)
}

// Tick drives the lazy background-worker lifecycle rule and must be
// called at most once per application frame.
func Tick() {
	m := activeManager()
	if m == nil {
		return
	}
	m.Tick()
}
