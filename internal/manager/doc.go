// Package manager implements the capture lifecycle engine's Manager: the
// request table, the background worker that enumerates devices and opens
// or restarts captures, and the selected-resolution bridge to
// internal/resolutions. The worker follows a start/stop lifecycle gated by
// an atomic running flag, diffs the device table on every pass, guards the
// request table with one mutex and each tracked device's capture with its
// own mutex.
package manager
