// Package core holds the capture engine's value types: DeviceId, Resolution,
// PixelFormat, ImageView/Image, CaptureStatus, CaptureError, and Info. These
// are shared by the manager, backend, and decode packages as well as by the
// public webcam package (which re-exports them as type aliases), so they
// live here rather than in the public package to avoid an import cycle.
package core
