// Package decode implements the frame decoder: a pure function turning a
// borrowed core.ImageView (BGR24, RGB24, RGBA24, NV12, YUYV, or MJPEG) into
// an owned RGB24 byte buffer. None of this is grounded on the upstream C++
// library's source (which left the actual pixel math to platform SDKs); the
// per-format conversions are implemented directly from the formulas this
// library specifies.
package decode
