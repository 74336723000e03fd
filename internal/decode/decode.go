package decode

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/camerarecorder/webcam/internal/core"
)

// Decode converts view into an owned RGB24 buffer. It returns the actual
// resolution of the decoded frame, which for MJPEG may differ from
// view.Resolution if the compressed frame's own header disagrees with the
// resolution the backend believed it requested.
func Decode(view core.ImageView) ([]byte, core.Resolution, error) {
	switch view.Format {
	case core.PixelFormatRGB24:
		return decodeRGB24(view)
	case core.PixelFormatBGR24:
		return decodeBGR24(view)
	case core.PixelFormatRGBA24:
		return decodeRGBA24(view)
	case core.PixelFormatNV12:
		return decodeNV12(view)
	case core.PixelFormatYUYV:
		return decodeYUYV(view)
	case core.PixelFormatMJPEG:
		return decodeMJPEG(view)
	default:
		return nil, core.Resolution{}, fmt.Errorf("decode: unsupported pixel format %v", view.Format)
	}
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func decodeRGB24(view core.ImageView) ([]byte, core.Resolution, error) {
	want := view.Format.DataLength(view.Resolution)
	if uint64(len(view.Bytes)) != want {
		return nil, core.Resolution{}, fmt.Errorf("decode: RGB24 buffer length %d, want %d", len(view.Bytes), want)
	}
	out := make([]byte, len(view.Bytes))
	copy(out, view.Bytes)
	return out, view.Resolution, nil
}

func decodeBGR24(view core.ImageView) ([]byte, core.Resolution, error) {
	want := view.Format.DataLength(view.Resolution)
	if uint64(len(view.Bytes)) != want {
		return nil, core.Resolution{}, fmt.Errorf("decode: BGR24 buffer length %d, want %d", len(view.Bytes), want)
	}
	out := make([]byte, len(view.Bytes))
	for i := 0; i+2 < len(view.Bytes); i += 3 {
		b, g, r := view.Bytes[i], view.Bytes[i+1], view.Bytes[i+2]
		out[i] = r
		out[i+1] = g
		out[i+2] = b
	}
	return out, view.Resolution, nil
}

func decodeRGBA24(view core.ImageView) ([]byte, core.Resolution, error) {
	want := view.Format.DataLength(view.Resolution)
	if uint64(len(view.Bytes)) != want {
		return nil, core.Resolution{}, fmt.Errorf("decode: RGBA24 buffer length %d, want %d", len(view.Bytes), want)
	}
	pixels := int(view.Resolution.PixelsCount())
	out := make([]byte, pixels*3)
	for p := 0; p < pixels; p++ {
		out[p*3] = view.Bytes[p*4]
		out[p*3+1] = view.Bytes[p*4+1]
		out[p*3+2] = view.Bytes[p*4+2]
	}
	return out, view.Resolution, nil
}

func decodeNV12(view core.ImageView) ([]byte, core.Resolution, error) {
	want := view.Format.DataLength(view.Resolution)
	if uint64(len(view.Bytes)) != want {
		return nil, core.Resolution{}, fmt.Errorf("decode: NV12 buffer length %d, want %d", len(view.Bytes), want)
	}

	w := int(view.Resolution.Width())
	h := int(view.Resolution.Height())
	yPlane := view.Bytes[:w*h]
	uvPlane := view.Bytes[w*h:]

	out := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yv := int32(yPlane[y*w+x])
			uvIndex := (y/2)*(w/2)*2 + (x/2)*2
			u := int32(uvPlane[uvIndex])
			v := int32(uvPlane[uvIndex+1])

			c := yv - 16
			d := u - 128
			e := v - 128

			r := clamp8((298*c + 409*e + 128) >> 8)
			g := clamp8((298*c - 100*d - 208*e + 128) >> 8)
			b := clamp8((298*c + 516*d + 128) >> 8)

			off := (y*w + x) * 3
			out[off] = r
			out[off+1] = g
			out[off+2] = b
		}
	}
	return out, view.Resolution, nil
}

func decodeYUYV(view core.ImageView) ([]byte, core.Resolution, error) {
	want := view.Format.DataLength(view.Resolution)
	if uint64(len(view.Bytes)) != want {
		return nil, core.Resolution{}, fmt.Errorf("decode: YUYV buffer length %d, want %d", len(view.Bytes), want)
	}

	pixels := int(view.Resolution.PixelsCount())
	out := make([]byte, pixels*3)

	outIdx := 0
	for i := 0; i+3 < len(view.Bytes); i += 4 {
		y0 := int32(view.Bytes[i])
		u := int32(view.Bytes[i+1]) - 128
		y1 := int32(view.Bytes[i+2])
		v := int32(view.Bytes[i+3]) - 128

		writeYUYVPixel(out, &outIdx, y0<<8, u, v)
		writeYUYVPixel(out, &outIdx, y1<<8, u, v)
	}
	return out, view.Resolution, nil
}

func writeYUYVPixel(out []byte, outIdx *int, y, u, v int32) {
	r := clamp8((y + 359*v) >> 8)
	g := clamp8((y - 88*u - 183*v) >> 8)
	b := clamp8((y + 454*u) >> 8)
	out[*outIdx] = r
	out[*outIdx+1] = g
	out[*outIdx+2] = b
	*outIdx += 3
}

func decodeMJPEG(view core.ImageView) ([]byte, core.Resolution, error) {
	img, err := jpeg.Decode(bytes.NewReader(view.Bytes))
	if err != nil {
		return nil, core.Resolution{}, fmt.Errorf("decode: MJPEG decode failed: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	res := core.NewResolution(uint32(w), uint32(h))

	out := make([]byte, w*h*3)
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			out[idx] = byte(r >> 8)
			out[idx+1] = byte(g >> 8)
			out[idx+2] = byte(b >> 8)
			idx += 3
		}
	}
	return out, res, nil
}
