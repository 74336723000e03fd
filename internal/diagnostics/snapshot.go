package diagnostics

import (
	"runtime"

	"github.com/camerarecorder/webcam/internal/logging"
	"github.com/shirou/gopsutil/v3/cpu"
)

var log = logging.GetLogger("diagnostics")

// EngineStatus is the minimal view Collect needs from a *manager.Manager,
// kept as an interface so this package never imports internal/manager
// directly.
type EngineStatus interface {
	ActiveCaptureCount() int
	WorkerRunning() bool
}

// Snapshot is a point-in-time operational view of the engine.
type Snapshot struct {
	ActiveCaptures   int
	WorkerRunning    bool
	Goroutines       int
	SystemCPUPercent float64
}

// Collect samples engine, the process's goroutine count, and system-wide
// CPU usage. engine's methods take the engine's own locks (see
// Manager.ActiveCaptureCount, which can wait for a capture open or close in
// progress), and the CPU sample uses interval 0 (gopsutil's non-blocking
// mode, computed from the delta since the previous call) instead of
// blocking for a full second per sample.
func Collect(engine EngineStatus) Snapshot {
	return Snapshot{
		ActiveCaptures:   engine.ActiveCaptureCount(),
		WorkerRunning:    engine.WorkerRunning(),
		Goroutines:       runtime.NumGoroutine(),
		SystemCPUPercent: systemCPUPercent(),
	}
}

func systemCPUPercent() float64 {
	percentages, err := cpu.Percent(0, false)
	if err != nil {
		log.WithError(err).Debug("failed to sample system CPU usage")
		return 0
	}
	if len(percentages) == 0 {
		return 0
	}
	return percentages[0]
}
