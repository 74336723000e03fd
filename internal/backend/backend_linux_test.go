//go:build linux

package backend

import (
	"testing"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/engineconfig"
	"github.com/stretchr/testify/assert"
)

func TestParseCardName(t *testing.T) {
	output := []byte("Driver Info:\n\tDriver name      : uvcvideo\nCard type        : HD Webcam C920\nBus info         : usb-0000:00:14.0-1\n")
	assert.Equal(t, "HD Webcam C920", parseCardName(output))
}

func TestParseCardNameMissing(t *testing.T) {
	assert.Equal(t, "", parseCardName([]byte("no card line here\n")))
}

func TestParseResolutionsDedupsAndParses(t *testing.T) {
	output := []byte(`
		Size: Discrete 1920x1080
		Size: Discrete 1920x1080
		Size: Discrete 640x480
	`)
	got := parseResolutions(output)
	assert.Len(t, got, 2)
	assert.Equal(t, core.NewResolution(1920, 1080), got[0])
	assert.Equal(t, core.NewResolution(640, 480), got[1])
}

func TestParseResolutionsEmptyOnNoMatches(t *testing.T) {
	assert.Empty(t, parseResolutions([]byte("nothing useful here")))
}

func TestClassifyStderrDeviceBusy(t *testing.T) {
	err := classifyStderr("VIDIOC_STREAMON: Device or resource busy")
	assert.Equal(t, core.ErrKindAlreadyInUse, err.Kind)
}

func TestClassifyStderrNoSuchDevice(t *testing.T) {
	err := classifyStderr("Cannot open device /dev/video5: No such device")
	assert.Equal(t, core.ErrKindUnplugged, err.Kind)
}

func TestClassifyStderrUnknown(t *testing.T) {
	err := classifyStderr("some unexpected failure")
	assert.Equal(t, core.ErrKindUnknown, err.Kind)
}

func TestDefaultDevicePathsCoversTenNodes(t *testing.T) {
	paths := defaultDevicePaths()
	assert.Len(t, paths, 10)
	assert.Equal(t, "/dev/video0", paths[0])
	assert.Equal(t, "/dev/video9", paths[9])
}

func TestNewHonorsConfiguredDeviceRange(t *testing.T) {
	cfg := &engineconfig.Config{Linux: engineconfig.LinuxBackendConfig{
		DeviceRange:      []int{2, 4},
		ProbeConcurrency: 1,
	}}
	b := New(cfg).(*linuxBackend)
	assert.Equal(t, []string{"/dev/video2", "/dev/video3", "/dev/video4"}, b.devicePaths)
	assert.Equal(t, 1, b.probeConcurrency)
}

func TestNewFallsBackToDefaultsWithNilConfig(t *testing.T) {
	b := New(nil).(*linuxBackend)
	assert.Len(t, b.devicePaths, 10)
	assert.Equal(t, defaultProbeConcurrency, b.probeConcurrency)
}
