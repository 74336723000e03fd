//go:build darwin

package backend

import (
	"context"
	"errors"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/engineconfig"
)

// New returns the macOS backend. cfg is accepted for signature parity with
// the Linux backend but unused: AVFoundation device capture requires a cgo
// bridge this module does not yet carry; until that bridge exists this
// backend reports no devices rather than guessing at one.
//
// TODO: replace with a cgo AVFoundation bridge (AVCaptureSession +
// AVCaptureVideoDataOutput) once that dependency is added.
func New(cfg *engineconfig.Config) PlatformBackend {
	return &darwinBackend{}
}

type darwinBackend struct{}

func (b *darwinBackend) ListDevices(ctx context.Context) ([]RawInfo, error) {
	return nil, nil
}

func (b *darwinBackend) OpenStream(ctx context.Context, id core.DeviceId, requested core.Resolution, sink FrameSink) (StreamHandle, error) {
	return nil, errors.New("backend: macOS capture not yet implemented")
}
