package core

// CaptureStatus is the tagged variant a Handle observes: NotInitYet, Live, or
// CaptureErrorStatus. It is a cheap snapshot — the Live arm holds a shared
// reference to already-decoded frame bytes, never a copy.
//
// Status transitions are monotone within one capture session:
// NotInitYet -> Live(f1) -> Live(f2) -> ... -> CaptureErrorStatus(e), possibly
// followed by a new session starting again at NotInitYet.
type CaptureStatus interface {
	isCaptureStatus()
}

// NotInitYetStatus means no frame has been produced yet for this request,
// either because the worker hasn't attempted to open a capture, because no
// ImageFactory is installed, or because the device isn't currently plugged
// in and hasn't been retried successfully.
type NotInitYetStatus struct{}

func (NotInitYetStatus) isCaptureStatus() {}

// NotInitYet is the shared zero-value NotInitYetStatus instance, for
// convenient comparison and allocation-free returns.
var NotInitYet CaptureStatus = NotInitYetStatus{}

// LiveStatus carries the most recently decoded frame for a request.
type LiveStatus struct {
	Image Image
}

func (LiveStatus) isCaptureStatus() {}

// CaptureErrorStatus carries the reason a request's capture is not live.
type CaptureErrorStatus struct {
	Err CaptureError
}

func (CaptureErrorStatus) isCaptureStatus() {}
