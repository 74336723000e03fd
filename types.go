package webcam

import "github.com/camerarecorder/webcam/internal/core"

// The engine's value types are defined in internal/core (to let the manager,
// backend, and decode packages share them without an import cycle back to
// this package) and re-exported here as the public API surface.

type (
	// DeviceId is an opaque, hashable identifier minted by the platform
	// backend; stable across unplug/replug for the same physical device.
	DeviceId = core.DeviceId
	// Resolution is an immutable width x height pair, clamped to >= 1x1.
	Resolution = core.Resolution
	// PixelFormat tags the layout of raw bytes produced by a backend.
	PixelFormat = core.PixelFormat
	// RowOrder indicates whether row 0 of an image buffer is the top or
	// bottom of the scene.
	RowOrder = core.RowOrder
	// ImageView is a borrowed view of raw frame bytes.
	ImageView = core.ImageView
	// Image is an owned, immutable decoded RGB24 frame.
	Image = core.Image
	// ImageFactory is the construction policy for the concrete Image type.
	ImageFactory = core.ImageFactory
	// SimpleImageFactory is a ready-to-use ImageFactory for headless use
	// and tests.
	SimpleImageFactory = core.SimpleImageFactory
	// CaptureStatus is the tagged variant a Handle observes.
	CaptureStatus = core.CaptureStatus
	// NotInitYetStatus means no frame has been produced yet for a request.
	NotInitYetStatus = core.NotInitYetStatus
	// LiveStatus carries the most recently decoded frame for a request.
	LiveStatus = core.LiveStatus
	// CaptureErrorStatus carries the reason a request's capture is not live.
	CaptureErrorStatus = core.CaptureErrorStatus
	// CaptureError is the single tagged error type the engine produces.
	CaptureError = core.CaptureError
	// CaptureErrorKind enumerates the reasons a Capture failed or died.
	CaptureErrorKind = core.CaptureErrorKind
	// Info describes one currently-plugged device.
	Info = core.Info
)

const (
	PixelFormatRGB24  = core.PixelFormatRGB24
	PixelFormatBGR24  = core.PixelFormatBGR24
	PixelFormatRGBA24 = core.PixelFormatRGBA24
	PixelFormatNV12   = core.PixelFormatNV12
	PixelFormatYUYV   = core.PixelFormatYUYV
	PixelFormatMJPEG  = core.PixelFormatMJPEG

	TopFirst    = core.TopFirst
	BottomFirst = core.BottomFirst

	ErrKindAlreadyInUse = core.ErrKindAlreadyInUse
	ErrKindUnplugged    = core.ErrKindUnplugged
	ErrKindUnknown      = core.ErrKindUnknown
)

var (
	// NotInitYet is the shared NotInitYetStatus instance.
	NotInitYet = core.NotInitYet

	// NewResolution builds a Resolution, clamping zero dimensions to 1.
	NewResolution = core.NewResolution
	// NewDeviceId wraps a backend-supplied stable key as a DeviceId.
	NewDeviceId = core.NewDeviceId
	// NewAlreadyInUseError builds an ErrKindAlreadyInUse CaptureError.
	NewAlreadyInUseError = core.NewAlreadyInUseError
	// NewUnpluggedError builds an ErrKindUnplugged CaptureError.
	NewUnpluggedError = core.NewUnpluggedError
	// NewUnknownError builds an ErrKindUnknown CaptureError.
	NewUnknownError = core.NewUnknownError
)

// SetImageFactory installs the process-wide ImageFactory. See
// core.SetImageFactory for the single-call precondition.
func SetImageFactory(factory ImageFactory) {
	core.SetImageFactory(factory)
}
