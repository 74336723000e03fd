//go:build windows

package backend

import (
	"context"
	"errors"
	"sync"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/engineconfig"
	"github.com/go-ole/go-ole"
)

// New returns the Windows backend. cfg is accepted for signature parity
// with the Linux backend but unused. DirectShow device enumeration and
// capture require COM to be initialized on every thread that touches it;
// this backend carries that guard but, absent a DirectShow graph builder
// dependency, reports no devices until one is wired in.
func New(cfg *engineconfig.Config) PlatformBackend {
	return &windowsBackend{}
}

type windowsBackend struct{}

// comThreadGuard calls CoInitializeEx at most once for the whole process,
// behind a mutex. It does not track OS threads: ensure and release may run
// on different threads, and goroutines on other threads share the one flag.
type comThreadGuard struct {
	mu          sync.Mutex
	initialized bool
}

func (g *comThreadGuard) ensure() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.initialized {
		return nil
	}
	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		return err
	}
	g.initialized = true
	return nil
}

func (g *comThreadGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.initialized {
		return
	}
	ole.CoUninitialize()
	g.initialized = false
}

var globalCOMGuard comThreadGuard

func (b *windowsBackend) ListDevices(ctx context.Context) ([]RawInfo, error) {
	if err := globalCOMGuard.ensure(); err != nil {
		return nil, err
	}
	return nil, nil
}

func (b *windowsBackend) OpenStream(ctx context.Context, id core.DeviceId, requested core.Resolution, sink FrameSink) (StreamHandle, error) {
	if err := globalCOMGuard.ensure(); err != nil {
		return nil, err
	}
	return nil, errors.New("backend: Windows DirectShow capture not yet implemented")
}

// Once this backend produces real frames: DirectShow's default RGB24
// media type is bottom-first (core.BottomFirst), while NV12 media types
// (common on modern webcams) are top-first (core.TopFirst). Decode
// (internal/decode) already handles both; this backend just needs to tag
// each ImageView with the right one.
