// Package backend defines the PlatformBackend contract and dispatches to a
// concrete linux/darwin/windows implementation at compile time via build
// tags, keeping OS-specific device code separate from the device-monitoring
// loop that drives it.
package backend

import (
	"context"
	"io"

	"github.com/camerarecorder/webcam/internal/core"
)

// RawInfo is what a backend reports about one physically present device,
// before the manager wraps it into the public core.Info shape.
type RawInfo struct {
	Name                 string
	Id                   core.DeviceId
	SupportedResolutions []core.Resolution
}

// FrameSink receives one frame's worth of raw, undecoded bytes as they arrive
// off the device. Backends call it from their own delivery goroutine; it
// must not block for long, since a slow sink stalls that device's capture.
type FrameSink func(view core.ImageView)

// StreamHandle represents one open capture stream. Closing it must stop
// delivery to the FrameSink and release any OS resources synchronously.
type StreamHandle interface {
	Close() error
}

// PlatformBackend is the seam between the manager's device-agnostic worker
// loop and OS-specific capture code. Implementations live in
// backend_linux.go, backend_darwin.go and backend_windows.go, selected by
// build tag; New returns whichever one matches the build target.
type PlatformBackend interface {
	// ListDevices enumerates currently present devices and their supported
	// resolutions. It must return quickly and must not block waiting on a
	// device that doesn't respond; ctx bounds the whole call.
	ListDevices(ctx context.Context) ([]RawInfo, error)

	// OpenStream starts delivering frames for id at (approximately)
	// requested to sink, returning a handle the caller closes when done.
	// Resolution negotiation is backend-specific: the returned resolution
	// embedded in each delivered core.ImageView is authoritative, not the
	// one requested.
	OpenStream(ctx context.Context, id core.DeviceId, requested core.Resolution, sink FrameSink) (StreamHandle, error)
}

// HotplugNotifier is optionally implemented by a PlatformBackend that can
// push device-change notifications instead of relying purely on the
// worker's poll interval. The manager type-asserts for this and, if
// present, uses it to trigger an early re-enumeration; its absence just
// means hotplug events are picked up on the next poll tick instead.
type HotplugNotifier interface {
	WatchHotplug(onChange func()) (io.Closer, error)
}
