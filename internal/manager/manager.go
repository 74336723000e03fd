package manager

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/camerarecorder/webcam/internal/backend"
	"github.com/camerarecorder/webcam/internal/common"
	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/engineconfig"
	"github.com/camerarecorder/webcam/internal/logging"
	"github.com/camerarecorder/webcam/internal/resolutions"
	"golang.org/x/time/rate"
)

// closeTimeout bounds how long Close waits for the worker goroutine and any
// open captures to tear down before giving up.
const closeTimeout = 5 * time.Second

var _ common.Stoppable = (*Manager)(nil)

var log = logging.GetLogger("manager")

// entry is the Manager's bookkeeping for one DeviceId: its Request (shared
// with external Handles) and, if currently open, its Capture. Only the
// Manager ever touches capture; entry.mu guards it since the worker reads
// and writes it outside the requests-table lock — each iteration copies a
// snapshot of the table under that lock and then drives I/O outside it, so
// the lock is never held while opening or closing a capture.
type entry struct {
	request *Request

	mu      sync.Mutex
	capture *Capture
}

// Manager owns the request table, the info cache, and the lazily-started
// worker goroutine that enumerates devices and drives captures: an atomic
// running flag, a cancellable loop goroutine, and a device-table diff each
// pass.
type Manager struct {
	backend     backend.PlatformBackend
	resolutions *resolutions.Registry
	cfg         *engineconfig.Config

	requestsMu sync.Mutex
	requests   map[string]*entry

	infoMu   sync.RWMutex
	info     []core.Info
	infoById map[string]core.Info

	infoRequested atomic.Bool

	workerMu      sync.Mutex
	workerRunning bool
	workerCancel  context.CancelFunc
	workerDone    chan struct{}
	workerWake    chan struct{}
	hotplug       io.Closer

	limitersMu sync.Mutex
	limiters   map[string]*rate.Limiter
}

// New constructs a Manager. The worker is not started until the first
// Tick observes a reason to run it (the lazy worker rule).
func New(cfg *engineconfig.Config, be backend.PlatformBackend, reg *resolutions.Registry) *Manager {
	return &Manager{
		backend:     be,
		resolutions: reg,
		cfg:         cfg,
		requests:    make(map[string]*entry),
		infoById:    make(map[string]core.Info),
		limiters:    make(map[string]*rate.Limiter),
	}
}

// OpenWebcam returns the Request for id, creating one in state NotInitYet
// if this is the first call for that device. It never blocks on I/O.
func (m *Manager) OpenWebcam(id core.DeviceId) *Request {
	m.requestsMu.Lock()
	defer m.requestsMu.Unlock()

	e, ok := m.requests[id.String()]
	if !ok {
		e = &entry{request: newRequest(id)}
		m.requests[id.String()] = e
	}
	return e.request
}

// AllInfo returns a snapshot of the info cache and marks that info was
// requested, which the lazy worker rule uses to decide whether to keep
// running even with no open requests.
func (m *Manager) AllInfo() []core.Info {
	m.infoRequested.Store(true)

	m.infoMu.RLock()
	defer m.infoMu.RUnlock()
	out := make([]core.Info, len(m.info))
	copy(out, m.info)
	return out
}

// Name returns id's display name from the info cache.
func (m *Manager) Name(id core.DeviceId) (string, bool) {
	m.infoMu.RLock()
	defer m.infoMu.RUnlock()
	info, ok := m.infoById[id.String()]
	if !ok {
		return "", false
	}
	return info.Name, true
}

// GetSelectedResolution returns the user's selection for id, falling back
// to the device's largest known resolution, or 1x1 if id is unknown.
func (m *Manager) GetSelectedResolution(id core.DeviceId) core.Resolution {
	if res, ok := m.resolutions.Get(id); ok {
		return res
	}

	m.infoMu.RLock()
	info, ok := m.infoById[id.String()]
	m.infoMu.RUnlock()
	if ok {
		if largest, ok := info.LargestResolution(); ok {
			return largest
		}
	}
	return core.NewResolution(1, 1)
}

// SetSelectedResolution records a new selection and, if it actually
// changed, restarts any currently open capture for id so the new
// resolution takes effect on the next worker iteration.
func (m *Manager) SetSelectedResolution(id core.DeviceId, res core.Resolution) {
	if !m.resolutions.Set(id, res) {
		return
	}

	m.requestsMu.Lock()
	e, ok := m.requests[id.String()]
	m.requestsMu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.capture != nil {
		if err := e.capture.Close(); err != nil {
			log.WithError(err).WithField("device", id.String()).Debug("error closing capture for resolution change")
		}
		e.capture = nil
	}
	var s core.CaptureStatus = core.NotInitYet
	e.request.setStatus(s)
}

// Tick drives the lazy worker lifecycle rule: the worker runs only while
// at least one Request is externally referenced, or info was requested
// since the previous tick.
func (m *Manager) Tick() {
	hasReferencedRequest := false
	m.requestsMu.Lock()
	for _, e := range m.requests {
		if e.request.refCount() > 0 {
			hasReferencedRequest = true
			break
		}
	}
	m.requestsMu.Unlock()

	infoRequested := m.infoRequested.Swap(false)

	if hasReferencedRequest || infoRequested {
		m.ensureWorkerRunning()
	} else {
		m.stopWorker()
	}
}

// Close forcibly stops the worker regardless of the lazy rule and closes
// every open capture. Called when the last LibraryToken is released. It
// goes through common.StopWithTimeout so shutdown is bounded by a timeout
// rather than blocking indefinitely on a stuck worker or capture.
func (m *Manager) Close() error {
	return common.StopWithTimeout(m, closeTimeout)
}

// Stop implements common.Stoppable. ctx bounds how long it waits for the
// worker goroutine to exit; capture teardown itself is not I/O-bound (it
// just cancels the backend stream and joins its goroutines) so it isn't
// separately context-gated.
func (m *Manager) Stop(ctx context.Context) error {
	stopped := make(chan struct{})
	go func() {
		m.stopWorker()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	m.requestsMu.Lock()
	entries := make([]*entry, 0, len(m.requests))
	for _, e := range m.requests {
		entries = append(entries, e)
	}
	m.requestsMu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		if e.capture != nil {
			_ = e.capture.Close()
			e.capture = nil
		}
		e.mu.Unlock()
	}
	return nil
}

// ActiveCaptureCount returns how many requests currently own an open
// Capture. Used by internal/diagnostics; takes the requests lock briefly and
// then each entry's own lock. The worker holds an entry's lock while opening
// or closing that entry's capture, so a call can wait for such an operation
// to finish.
func (m *Manager) ActiveCaptureCount() int {
	m.requestsMu.Lock()
	entries := make([]*entry, 0, len(m.requests))
	for _, e := range m.requests {
		entries = append(entries, e)
	}
	m.requestsMu.Unlock()

	count := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.capture != nil {
			count++
		}
		e.mu.Unlock()
	}
	return count
}

// WorkerRunning reports whether the background worker goroutine is
// currently active.
func (m *Manager) WorkerRunning() bool {
	m.workerMu.Lock()
	defer m.workerMu.Unlock()
	return m.workerRunning
}

func (m *Manager) ensureWorkerRunning() {
	m.workerMu.Lock()
	defer m.workerMu.Unlock()
	if m.workerRunning {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.workerCancel = cancel
	m.workerDone = make(chan struct{})
	m.workerWake = make(chan struct{}, 1)
	m.workerRunning = true

	wake := m.workerWake
	if notifier, ok := m.backend.(backend.HotplugNotifier); ok {
		closer, err := notifier.WatchHotplug(func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		if err != nil {
			log.WithError(err).Debug("hotplug notifications unavailable, falling back to polling only")
		} else {
			m.hotplug = closer
		}
	}

	go m.runWorker(ctx, m.workerDone, wake)
}

func (m *Manager) stopWorker() {
	m.workerMu.Lock()
	if !m.workerRunning {
		m.workerMu.Unlock()
		return
	}
	cancel := m.workerCancel
	done := m.workerDone
	hotplug := m.hotplug
	m.hotplug = nil
	m.workerRunning = false
	m.workerMu.Unlock()

	cancel()
	<-done
	if hotplug != nil {
		_ = hotplug.Close()
	}
}

func (m *Manager) runWorker(ctx context.Context, done chan struct{}, wake <-chan struct{}) {
	defer close(done)

	interval := m.pollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.runWorkerIteration(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runWorkerIteration(ctx)
		case <-wake:
			m.runWorkerIteration(ctx)
		}
	}
}

func (m *Manager) pollInterval() time.Duration {
	if m.cfg == nil || m.cfg.Worker.PollIntervalSeconds <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(m.cfg.Worker.PollIntervalSeconds * float64(time.Second))
}

func (m *Manager) enumerationTimeout() time.Duration {
	if m.cfg == nil || m.cfg.Worker.EnumerationTimeoutSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(m.cfg.Worker.EnumerationTimeoutSeconds * float64(time.Second))
}

func (m *Manager) restartThrottle() rate.Limit {
	if m.cfg == nil || m.cfg.Worker.RestartThrottleSeconds <= 0 {
		return rate.Every(2 * time.Second)
	}
	return rate.Every(time.Duration(m.cfg.Worker.RestartThrottleSeconds * float64(time.Second)))
}

func (m *Manager) limiterFor(id core.DeviceId) *rate.Limiter {
	m.limitersMu.Lock()
	defer m.limitersMu.Unlock()
	l, ok := m.limiters[id.String()]
	if !ok {
		l = rate.NewLimiter(m.restartThrottle(), 1)
		m.limiters[id.String()] = l
	}
	return l
}

// runWorkerIteration is one pass of the worker algorithm: enumerate, mark
// newly-present devices for restart, publish the info cache, prune dead
// request entries, then drive each surviving request toward the right
// state.
func (m *Manager) runWorkerIteration(ctx context.Context) {
	correlationID := logging.GenerateCorrelationID()
	ctx = logging.WithCorrelationID(ctx, correlationID)
	iterLog := log.WithCorrelationID(correlationID)

	enumCtx, cancel := context.WithTimeout(ctx, m.enumerationTimeout())
	freshInfo, err := enumerate(enumCtx, m.backend)
	cancel()
	if err != nil {
		iterLog.WithError(err).DebugWithContext(ctx, "enumeration failed, treating as no devices this pass")
		freshInfo = nil
	}

	freshById := make(map[string]core.Info, len(freshInfo))
	for _, info := range freshInfo {
		freshById[info.Id.String()] = info
	}

	m.infoMu.Lock()
	previousById := m.infoById
	m.info = freshInfo
	m.infoById = freshById
	m.infoMu.Unlock()

	m.requestsMu.Lock()
	for idStr := range freshById {
		if _, wasPresent := previousById[idStr]; !wasPresent {
			if e, ok := m.requests[idStr]; ok {
				var s core.CaptureStatus = core.NotInitYet
				e.request.setStatus(s)
			}
		}
	}

	var pruned []*entry
	for idStr, e := range m.requests {
		if e.request.refCount() == 0 {
			delete(m.requests, idStr)
			pruned = append(pruned, e)
		}
	}

	snapshot := make([]*entry, 0, len(m.requests))
	for _, e := range m.requests {
		snapshot = append(snapshot, e)
	}
	m.requestsMu.Unlock()

	for _, e := range pruned {
		e.mu.Lock()
		if e.capture != nil {
			_ = e.capture.Close()
			e.capture = nil
		}
		e.mu.Unlock()
	}

	for _, e := range snapshot {
		m.processRequest(ctx, e, freshById)
	}
}

func (m *Manager) processRequest(ctx context.Context, e *entry, freshById map[string]core.Info) {
	idStr := e.request.id.String()
	_, present := freshById[idStr]

	e.mu.Lock()
	defer e.mu.Unlock()

	if !present {
		if e.capture != nil {
			_ = e.capture.Close()
			e.capture = nil
		}
		var s core.CaptureStatus = core.CaptureErrorStatus{Err: core.NewUnpluggedError()}
		e.request.setStatus(s)
		return
	}

	switch st := e.request.Status().(type) {
	case core.LiveStatus:
		return
	case core.CaptureErrorStatus:
		if st.Err.Kind == core.ErrKindAlreadyInUse {
			return
		}
	}

	if !m.limiterFor(e.request.id).Allow() {
		return
	}

	restartID := logging.GenerateCorrelationID()
	restartLog := log.WithCorrelationID(restartID).WithField("device", idStr)

	requested := m.GetSelectedResolution(e.request.id)
	openCtx, cancel := context.WithTimeout(ctx, m.enumerationTimeout())
	openCtx = logging.WithCorrelationID(openCtx, restartID)
	c, err := openCapture(openCtx, m.backend, e.request.id, requested, &e.request.status)
	cancel()
	if err != nil {
		classified := classifyOpenError(err)
		if classified.Kind == core.ErrKindUnplugged {
			// The device vanished between enumeration and open; leave the
			// status as-is (NotInitYet) and retry on the next tick once
			// enumeration has had a chance to catch up.
			restartLog.DebugWithContext(ctx, "open attempt found device unplugged, leaving status untouched")
			return
		}
		restartLog.WithError(classified).WarnWithContext(ctx, "capture open failed")
		var s core.CaptureStatus = core.CaptureErrorStatus{Err: classified}
		e.request.setStatus(s)
		return
	}
	restartLog.InfoWithContext(ctx, "capture opened")
	e.capture = c
}

func classifyOpenError(err error) core.CaptureError {
	var ce core.CaptureError
	if errors.As(err, &ce) {
		return ce
	}
	return core.NewUnknownError(err.Error())
}
