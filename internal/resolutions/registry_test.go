package resolutions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingReturnsFalse(t *testing.T) {
	r := New("")
	_, ok := r.Get(core.NewDeviceId("dev0"))
	assert.False(t, ok)
}

func TestSetThenGetRoundTrips(t *testing.T) {
	r := New("")
	id := core.NewDeviceId("dev0")
	res := core.NewResolution(1280, 720)

	assert.True(t, r.Set(id, res))
	got, ok := r.Get(id)
	require.True(t, ok)
	assert.True(t, got.Equal(res))
}

func TestSetSameValueTwiceIsNoOpOnSecondCall(t *testing.T) {
	r := New("")
	id := core.NewDeviceId("dev0")
	res := core.NewResolution(1920, 1080)

	assert.True(t, r.Set(id, res))
	assert.False(t, r.Set(id, res))
}

func TestPersistsAcrossRegistryInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolutions.yaml")
	id := core.NewDeviceId("dev0")
	res := core.NewResolution(640, 480)

	r1 := New(path)
	r1.Set(id, res)

	r2 := New(path)
	got, ok := r2.Get(id)
	require.True(t, ok)
	assert.True(t, got.Equal(res))
}

func TestCorruptFileIsIgnoredNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resolutions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0644))

	r := New(path)
	_, ok := r.Get(core.NewDeviceId("dev0"))
	assert.False(t, ok)
}
