package manager

import (
	"sync/atomic"

	"github.com/camerarecorder/webcam/internal/core"
)

// Request is the shared mailbox between the worker (producer) and Handle
// holders (consumers). It carries only a DeviceId and a status slot, per
// the collapsed back-pointer design: no reference back to its owning
// Capture or Manager lives here.
type Request struct {
	id       core.DeviceId
	status   atomic.Pointer[core.CaptureStatus]
	refcount atomic.Int32
}

func newRequest(id core.DeviceId) *Request {
	r := &Request{id: id}
	var initial core.CaptureStatus = core.NotInitYet
	r.status.Store(&initial)
	return r
}

// Id returns the device this request is bound to.
func (r *Request) Id() core.DeviceId {
	return r.id
}

// Status returns the current status as a cheap snapshot.
func (r *Request) Status() core.CaptureStatus {
	p := r.status.Load()
	if p == nil {
		return core.NotInitYet
	}
	return *p
}

func (r *Request) setStatus(s core.CaptureStatus) {
	r.status.Store(&s)
}

// IncRef records a new external Handle referencing this request.
func (r *Request) IncRef() int32 {
	return r.refcount.Add(1)
}

// DecRef releases one external Handle's reference.
func (r *Request) DecRef() int32 {
	return r.refcount.Add(-1)
}

func (r *Request) refCount() int32 {
	return r.refcount.Load()
}
