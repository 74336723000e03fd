package manager

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/camerarecorder/webcam/internal/backend"
	"github.com/camerarecorder/webcam/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type singleFrameBackend struct {
	frame core.ImageView
	err   error
}

func (b *singleFrameBackend) ListDevices(ctx context.Context) ([]backend.RawInfo, error) {
	return nil, nil
}

func (b *singleFrameBackend) OpenStream(ctx context.Context, id core.DeviceId, requested core.Resolution, sink backend.FrameSink) (backend.StreamHandle, error) {
	if b.err != nil {
		return nil, b.err
	}
	go sink(b.frame)
	return &fakeStream{}, nil
}

func TestCaptureDeliversDecodedFrameToStatusSlot(t *testing.T) {
	core.ResetImageFactoryForTests()
	core.SetImageFactory(core.SimpleImageFactory{})
	defer core.ResetImageFactoryForTests()

	res := core.NewResolution(2, 1)
	be := &singleFrameBackend{frame: core.ImageView{
		Bytes:      []byte{10, 20, 30, 40, 50, 60},
		Resolution: res,
		Format:     core.PixelFormatRGB24,
		RowOrder:   core.TopFirst,
	}}

	var slot atomic.Pointer[core.CaptureStatus]
	var initial core.CaptureStatus = core.NotInitYet
	slot.Store(&initial)

	c, err := openCapture(context.Background(), be, core.NewDeviceId("dev0"), res, &slot)
	require.NoError(t, err)
	defer c.Close()

	require.Eventually(t, func() bool {
		_, ok := (*slot.Load()).(core.LiveStatus)
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestOpenCapturePropagatesBackendError(t *testing.T) {
	be := &singleFrameBackend{err: errors.New("boom")}
	var slot atomic.Pointer[core.CaptureStatus]

	_, err := openCapture(context.Background(), be, core.NewDeviceId("dev0"), core.NewResolution(1, 1), &slot)
	assert.Error(t, err)
}

func TestCaptureDropsFramesWhenDecodePoolSaturated(t *testing.T) {
	core.ResetImageFactoryForTests()
	core.SetImageFactory(core.SimpleImageFactory{})
	defer core.ResetImageFactoryForTests()

	var slot atomic.Pointer[core.CaptureStatus]
	var initial core.CaptureStatus = core.NotInitYet
	slot.Store(&initial)

	c := &Capture{id: core.NewDeviceId("dev0"), statusSlot: &slot, sem: make(chan struct{}, 2)}
	c.sem <- struct{}{}
	c.sem <- struct{}{}

	// Both decode slots are saturated; this frame must be dropped, not block.
	done := make(chan struct{})
	go func() {
		c.handleFrame(core.ImageView{Bytes: []byte{1, 2, 3}, Resolution: core.NewResolution(1, 1), Format: core.PixelFormatRGB24})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handleFrame blocked instead of dropping")
	}
}
