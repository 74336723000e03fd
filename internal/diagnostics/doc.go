// Package diagnostics provides a read-only operational snapshot of the
// capture lifecycle engine: active capture count, worker running flag,
// goroutine count, and system CPU percent, sampled via gopsutil's
// cpu.Percent. Disk usage is not reported.
package diagnostics
