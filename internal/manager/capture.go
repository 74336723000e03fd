package manager

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/camerarecorder/webcam/internal/backend"
	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/decode"
	"github.com/camerarecorder/webcam/internal/logging"
)

var captureLog = logging.GetLogger("manager.capture")

// Capture owns one device's open platform stream and decode pipeline. It
// holds a direct reference to its request's status slot and nothing else —
// no pointer back to the Request or the Manager, so a Capture can be closed
// and garbage collected independently of whatever owns it.
type Capture struct {
	id            core.DeviceId
	correlationID string
	statusSlot    *atomic.Pointer[core.CaptureStatus]
	stream        backend.StreamHandle

	// sem bounds decode concurrency to 2 in-flight decodes per capture: one
	// decoding while the next frame arrives. A frame arriving while both
	// slots are busy is dropped rather than queued.
	sem chan struct{}

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// openCapture opens a platform stream for id at requested resolution and
// wires its frame sink to decode and publish into statusSlot. The
// correlation ID attached to ctx by the caller's restart attempt is carried
// on the returned Capture so every later decode-failure log line can be
// traced back to the open attempt that produced it.
func openCapture(ctx context.Context, be backend.PlatformBackend, id core.DeviceId, requested core.Resolution, statusSlot *atomic.Pointer[core.CaptureStatus]) (*Capture, error) {
	c := &Capture{
		id:            id,
		correlationID: logging.GetCorrelationIDFromContext(ctx),
		statusSlot:    statusSlot,
		sem:           make(chan struct{}, 2),
	}

	stream, err := be.OpenStream(ctx, id, requested, c.handleFrame)
	if err != nil {
		return nil, err
	}
	c.stream = stream
	return c, nil
}

// handleFrame is the backend's frame sink. It never blocks the backend's
// read loop: if both decode slots are busy, the frame is dropped.
func (c *Capture) handleFrame(view core.ImageView) {
	select {
	case c.sem <- struct{}{}:
	default:
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() { <-c.sem }()

		rgb, res, err := decode.Decode(view)
		if err != nil {
			captureLog.WithCorrelationID(c.correlationID).WithError(err).WithField("device", c.id.String()).Debug("frame decode failed, dropping")
			return
		}

		factory := core.CurrentImageFactory()
		if factory == nil {
			// No image factory installed yet: there is nothing to publish.
			// The request stays NotInitYet until SetImageFactory is called.
			return
		}

		img := factory.MakeImage(rgb, res, view.RowOrder)
		var live core.CaptureStatus = core.LiveStatus{Image: img}
		c.statusSlot.Store(&live)
	}()
}

// Close stops the stream and waits for any in-flight decode goroutines to
// finish before returning, so resources are never released while a frame
// is still being processed.
func (c *Capture) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.stream.Close()
		c.wg.Wait()
	})
	return err
}
