// Package logging provides structured logging with correlation ID support for
// the webcam capture engine.
//
// It wraps Logrus with component identification, correlation IDs (one per
// worker iteration or capture session), and configurable console/file output
// with rotation via lumberjack. The manager's worker and each Capture's
// delivery goroutine log their state transitions through a component logger
// obtained from GetLogger(component); this is observability only and never
// substitutes for the CaptureStatus/CaptureError values returned to callers.
package logging
