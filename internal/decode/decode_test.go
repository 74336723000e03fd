package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRGB24Identity(t *testing.T) {
	res := core.NewResolution(2, 1)
	raw := []byte{10, 20, 30, 40, 50, 60}
	out, gotRes, err := Decode(core.ImageView{Bytes: raw, Resolution: res, Format: core.PixelFormatRGB24, RowOrder: core.TopFirst})
	require.NoError(t, err)
	assert.Equal(t, res, gotRes)
	assert.Equal(t, raw, out)
}

func TestDecodeBGR24SwapsChannels(t *testing.T) {
	res := core.NewResolution(1, 1)
	raw := []byte{1, 2, 3} // B, G, R
	out, _, err := Decode(core.ImageView{Bytes: raw, Resolution: res, Format: core.PixelFormatBGR24})
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 2, 1}, out)
}

func TestDecodeRGBA24DropsAlpha(t *testing.T) {
	res := core.NewResolution(1, 1)
	raw := []byte{10, 20, 30, 255}
	out, _, err := Decode(core.ImageView{Bytes: raw, Resolution: res, Format: core.PixelFormatRGBA24})
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, out)
}

func TestDecodeNV12SinglePixelMidGray(t *testing.T) {
	res := core.NewResolution(1, 1)
	// Y=128, U=128, V=128 should decode to a neutral gray.
	raw := []byte{128, 128, 128}
	out, gotRes, err := Decode(core.ImageView{Bytes: raw, Resolution: res, Format: core.PixelFormatNV12})
	require.NoError(t, err)
	assert.Equal(t, res, gotRes)
	require.Len(t, out, 3)
	for _, c := range out {
		assert.InDelta(t, 128, int(c), 3)
	}
}

func TestDecodeNV12OutputAlwaysInByteRange(t *testing.T) {
	res := core.NewResolution(2, 2)
	raw := []byte{0, 255, 0, 255, 255, 0, 255, 0}
	// NV12 at 2x2 needs 6 bytes (Y plane 4 + UV plane 2); copy keeps the
	// first 6 bytes of raw.
	full := make([]byte, core.PixelFormatNV12.DataLength(res))
	copy(full, raw)
	out, _, err := Decode(core.ImageView{Bytes: full, Resolution: res, Format: core.PixelFormatNV12})
	require.NoError(t, err)
	for _, c := range out {
		assert.GreaterOrEqual(t, int(c), 0)
		assert.LessOrEqual(t, int(c), 255)
	}
}

func TestDecodeYUYVProducesTwoPixelsPerFourBytes(t *testing.T) {
	res := core.NewResolution(2, 1)
	raw := []byte{128, 128, 128, 128}
	out, _, err := Decode(core.ImageView{Bytes: raw, Resolution: res, Format: core.PixelFormatYUYV})
	require.NoError(t, err)
	assert.Len(t, out, 6)
}

func TestDecodeMJPEGRoundTrips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))

	out, res, err := Decode(core.ImageView{Bytes: buf.Bytes(), Format: core.PixelFormatMJPEG})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), res.Width())
	assert.Equal(t, uint32(4), res.Height())
	assert.Len(t, out, 4*4*3)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	res := core.NewResolution(4, 4)
	_, _, err := Decode(core.ImageView{Bytes: []byte{1, 2, 3}, Resolution: res, Format: core.PixelFormatRGB24})
	assert.Error(t, err)
}
