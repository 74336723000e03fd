//go:build darwin

package backend

import (
	"context"
	"testing"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestDarwinBackendListDevicesIsEmpty(t *testing.T) {
	b := New(nil)
	devices, err := b.ListDevices(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDarwinBackendOpenStreamFails(t *testing.T) {
	b := New(nil)
	_, err := b.OpenStream(context.Background(), core.NewDeviceId("cam0"), core.NewResolution(640, 480), func(core.ImageView) {})
	assert.Error(t, err)
}
