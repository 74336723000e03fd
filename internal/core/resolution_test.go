package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewResolutionClampsZeroDimensions(t *testing.T) {
	assert.Equal(t, NewResolution(1, 1), NewResolution(0, 0))
	assert.Equal(t, uint32(1), NewResolution(0, 480).Width())
	assert.Equal(t, uint32(1), NewResolution(640, 0).Height())
}

func TestPixelsCount(t *testing.T) {
	r := NewResolution(640, 480)
	assert.Equal(t, uint64(307200), r.PixelsCount())
}

func TestResolutionGreaterOrdersByWidthThenHeight(t *testing.T) {
	assert.True(t, NewResolution(1920, 1080).Greater(NewResolution(1280, 720)))
	assert.True(t, NewResolution(1280, 720).Greater(NewResolution(1280, 480)))
	assert.False(t, NewResolution(1280, 480).Greater(NewResolution(1280, 720)))
}

func TestAspectStringA4(t *testing.T) {
	assert.Contains(t, NewResolution(1414, 1000).String(), "A4")
}

func TestAspectStringA4Vertical(t *testing.T) {
	assert.Contains(t, NewResolution(1000, 1414).String(), "A4 Vertical")
}

func TestAspectStringSmallFraction(t *testing.T) {
	assert.Contains(t, NewResolution(1920, 1080).String(), "16/9")
}

func TestAspectStringFallsBackToFloat(t *testing.T) {
	// A deliberately awkward ratio whose reduced fraction exceeds 30/30.
	s := NewResolution(1001, 37).String()
	assert.NotContains(t, s, "A4")
	assert.Contains(t, s, ".")
}
