package webcam

import (
	"testing"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise the public API against the real platform backend.
// No webcam hardware is required: ListDevices treats a missing v4l2-ctl (or
// its darwin/windows equivalents) as "no devices present", never an error,
// so every assertion here holds regardless of what's actually plugged in.

func TestOpenWebcamWithNoTokenReturnsNil(t *testing.T) {
	globalMu.Lock()
	require.Equal(t, 0, globalRefCount, "no token should be outstanding at test start")
	globalMu.Unlock()

	h := OpenWebcam(core.NewDeviceId("dev0"))
	assert.Nil(t, h)
}

func TestAllWebcamsInfoWithNoTokenReturnsNil(t *testing.T) {
	globalMu.Lock()
	require.Equal(t, 0, globalRefCount)
	globalMu.Unlock()

	assert.Nil(t, AllWebcamsInfo())
}

func TestLibraryTokenRefCounting(t *testing.T) {
	t1 := NewLibraryToken()
	globalMu.Lock()
	assert.Equal(t, 1, globalRefCount)
	m1 := globalManager
	globalMu.Unlock()
	assert.NotNil(t, m1)

	t2 := NewLibraryToken()
	globalMu.Lock()
	assert.Equal(t, 2, globalRefCount)
	m2 := globalManager
	globalMu.Unlock()
	assert.Same(t, m1, m2, "a second token must reuse the existing Manager")

	require.NoError(t, t1.Close())
	globalMu.Lock()
	assert.Equal(t, 1, globalRefCount)
	assert.NotNil(t, globalManager)
	globalMu.Unlock()

	require.NoError(t, t2.Close())
	globalMu.Lock()
	assert.Equal(t, 0, globalRefCount)
	assert.Nil(t, globalManager)
	globalMu.Unlock()
}

func TestLibraryTokenCloseIsIdempotent(t *testing.T) {
	tok := NewLibraryToken()
	require.NoError(t, tok.Close())
	require.NoError(t, tok.Close())

	globalMu.Lock()
	defer globalMu.Unlock()
	assert.Equal(t, 0, globalRefCount)
}

func TestOpenWebcamAndHandleLifecycle(t *testing.T) {
	tok := NewLibraryToken()
	defer tok.Close()

	id := core.NewDeviceId("dev0")
	h1 := OpenWebcam(id)
	require.NotNil(t, h1)
	defer h1.Close()

	_, ok := h1.Image().(core.NotInitYetStatus)
	assert.True(t, ok, "a freshly opened handle starts NotInitYet")

	h2 := OpenWebcam(id)
	require.NotNil(t, h2)
	defer h2.Close()
	assert.True(t, h1.Equal(h2), "two handles to the same id share a Request")

	other := OpenWebcam(core.NewDeviceId("dev1"))
	require.NotNil(t, other)
	defer other.Close()
	assert.False(t, h1.Equal(other))
}

func TestHandleCloseIsIdempotent(t *testing.T) {
	tok := NewLibraryToken()
	defer tok.Close()

	h := OpenWebcam(core.NewDeviceId("dev0"))
	require.NotNil(t, h)
	h.Close()
	h.Close()
}

func TestHandleEqualHandlesNil(t *testing.T) {
	tok := NewLibraryToken()
	defer tok.Close()

	h := OpenWebcam(core.NewDeviceId("dev0"))
	require.NotNil(t, h)
	defer h.Close()

	assert.False(t, h.Equal(nil))
	var nilHandle *Handle
	assert.True(t, nilHandle.Equal(nil))
}

func TestGetNameAndResolutionWithNoToken(t *testing.T) {
	globalMu.Lock()
	require.Equal(t, 0, globalRefCount)
	globalMu.Unlock()

	_, ok := GetName(core.NewDeviceId("dev0"))
	assert.False(t, ok)

	res := GetSelectedResolution(core.NewDeviceId("dev0"))
	assert.Equal(t, core.NewResolution(1, 1), res)

	// Must not panic with no active manager.
	SetSelectedResolution(core.NewDeviceId("dev0"), core.NewResolution(640, 480))
	Tick()
}

func TestTickWithActiveTokenDoesNotPanic(t *testing.T) {
	tok := NewLibraryToken()
	defer tok.Close()

	h := OpenWebcam(core.NewDeviceId("dev0"))
	require.NotNil(t, h)
	defer h.Close()

	Tick()
	Tick()
}
