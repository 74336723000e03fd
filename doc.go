// Package webcam is a cross-platform webcam capture library. Given an opaque
// device identifier and a desired resolution, it produces a continuous
// stream of decoded RGB24 frames that application code can pull at its own
// pace, tolerating hot-plug events, resolution changes, contention with
// other applications, and hardware disappearance without crashing the host
// process.
//
// Typical usage:
//
//	token := webcam.NewLibraryToken()
//	defer token.Close()
//
//	webcam.SetImageFactory(myImageFactory{})
//
//	handle := webcam.OpenWebcam(someDeviceID)
//	for {
//	    webcam.Tick()
//	    switch status := handle.Image().(type) {
//	    case webcam.LiveStatus:
//	        render(status.Image)
//	    case webcam.CaptureErrorStatus:
//	        log.Println(status.Err)
//	    }
//	}
//
// The package owns a single background worker (started lazily on first use,
// stopped when idle) that multiplexes capture requests from every open
// Handle to at most one live platform capture per device. Platform
// enumeration and streaming are delegated to an internal PlatformBackend
// implementation selected at build time (Linux/V4L2, Windows/DirectShow,
// macOS/AVFoundation).
package webcam
