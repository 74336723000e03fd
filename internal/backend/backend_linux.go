//go:build linux

package backend

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/engineconfig"
	"github.com/camerarecorder/webcam/internal/logging"
	"golang.org/x/sync/errgroup"
)

var log = logging.GetLogger("backend.linux")

// defaultProbeConcurrency bounds the errgroup fan-out when cfg.Linux leaves
// ProbeConcurrency at its zero value.
const defaultProbeConcurrency = 4

// New returns the Linux v4l2-ctl-backed PlatformBackend. cfg may be nil, in
// which case the full /dev/video0..9 range is probed at concurrency 4.
func New(cfg *engineconfig.Config) PlatformBackend {
	paths := defaultDevicePaths()
	concurrency := defaultProbeConcurrency
	if cfg != nil {
		if len(cfg.Linux.DeviceRange) == 2 {
			paths = devicePathsInRange(cfg.Linux.DeviceRange[0], cfg.Linux.DeviceRange[1])
		}
		if cfg.Linux.ProbeConcurrency > 0 {
			concurrency = cfg.Linux.ProbeConcurrency
		}
	}
	return &linuxBackend{devicePaths: paths, probeConcurrency: concurrency}
}

// linuxBackend shells out to v4l2-ctl rather than driving V4L2 directly via
// cgo or raw ioctl/mmap calls, trading some raw streaming performance for a
// dependency-free implementation that just parses command output.
type linuxBackend struct {
	devicePaths      []string
	probeConcurrency int
}

func defaultDevicePaths() []string {
	return devicePathsInRange(0, 9)
}

func devicePathsInRange(min, max int) []string {
	if max < min {
		min, max = max, min
	}
	paths := make([]string, 0, max-min+1)
	for i := min; i <= max; i++ {
		paths = append(paths, fmt.Sprintf("/dev/video%d", i))
	}
	return paths
}

var resolutionLineRe = regexp.MustCompile(`(\d{2,5})x(\d{2,5})`)

// WatchHotplug implements HotplugNotifier by delegating to a
// HotplugWatcher on /dev.
func (b *linuxBackend) WatchHotplug(onChange func()) (io.Closer, error) {
	return NewHotplugWatcher(onChange)
}

func (b *linuxBackend) ListDevices(ctx context.Context) ([]RawInfo, error) {
	results := make([]RawInfo, len(b.devicePaths))
	found := make([]bool, len(b.devicePaths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.probeConcurrency)

	for i, path := range b.devicePaths {
		i, path := i, path
		g.Go(func() error {
			info, ok, err := probeDevice(gctx, path)
			if err != nil {
				log.WithError(err).WithField("device", path).Debug("probe failed, treating as absent")
				return nil
			}
			if ok {
				results[i] = info
				found[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]RawInfo, 0, len(results))
	for i, ok := range found {
		if ok {
			out = append(out, results[i])
		}
	}
	return out, nil
}

// probeDevice runs v4l2-ctl against one device node. A missing node or a
// v4l2-ctl failure is not an error for the caller: it just means the device
// isn't there right now, which is the normal unplugged state.
func probeDevice(ctx context.Context, path string) (RawInfo, bool, error) {
	nameCmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", path, "--info")
	nameOut, err := nameCmd.Output()
	if err != nil {
		return RawInfo{}, false, nil
	}

	name := parseCardName(nameOut)
	if name == "" {
		name = path
	}

	formatsCmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", path, "--list-formats-ext")
	formatsOut, err := formatsCmd.Output()
	if err != nil {
		return RawInfo{}, false, nil
	}

	resolutions := parseResolutions(formatsOut)
	if len(resolutions) == 0 {
		resolutions = []core.Resolution{core.NewResolution(640, 480)}
	}

	return RawInfo{
		Name:                 name,
		Id:                   core.NewDeviceId(path),
		SupportedResolutions: resolutions,
	}, true, nil
}

func parseCardName(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Card type") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				return strings.TrimSpace(parts[1])
			}
		}
	}
	return ""
}

func parseResolutions(output []byte) []core.Resolution {
	seen := make(map[string]bool)
	var out []core.Resolution

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		m := resolutionLineRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		if seen[m[0]] {
			continue
		}
		seen[m[0]] = true

		w, err1 := strconv.ParseUint(m[1], 10, 32)
		h, err2 := strconv.ParseUint(m[2], 10, 32)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, core.NewResolution(uint32(w), uint32(h)))
	}
	return out
}

// classifyStderr maps a v4l2-ctl failure's stderr text to the capture error
// taxonomy, the way real_implementations.go classified its own command
// failures by substring before giving up and calling it unknown.
func classifyStderr(stderr string) core.CaptureError {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "device or resource busy"):
		return core.NewAlreadyInUseError()
	case strings.Contains(lower, "no such device"), strings.Contains(lower, "no such file"):
		return core.NewUnpluggedError()
	default:
		return core.NewUnknownError(stderr)
	}
}

// checkDeviceOpenable runs a quick --info probe so an AlreadyInUse or
// Unplugged condition is reported synchronously from OpenStream itself,
// rather than discovered only after the streaming subprocess has already
// started and failed asynchronously.
func checkDeviceOpenable(ctx context.Context, path string) error {
	cmd := exec.CommandContext(ctx, "v4l2-ctl", "--device", path, "--info")
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf
	if err := cmd.Run(); err != nil {
		if stderrBuf.Len() > 0 {
			return classifyStderr(stderrBuf.String())
		}
		return classifyStderr(err.Error())
	}
	return nil
}

// streamHandle runs `v4l2-ctl --stream-mmap --stream-to=-` and feeds whole
// MJPEG frames to sink as they arrive on stdout; uncompressed formats are
// not handled. It is deliberately simple: one frame request per
// OpenStream call's lifetime, no renegotiation.
type streamHandle struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

func (b *linuxBackend) OpenStream(ctx context.Context, id core.DeviceId, requested core.Resolution, sink FrameSink) (StreamHandle, error) {
	correlationID := logging.GetCorrelationIDFromContext(ctx)
	openLog := log.WithCorrelationID(correlationID).WithField("device", id.String())

	if err := checkDeviceOpenable(ctx, id.String()); err != nil {
		openLog.WithError(err).Debug("device openable check failed")
		return nil, err
	}

	// ctx bounds only the open itself; the stream runs until Close.
	streamCtx, cancel := context.WithCancel(context.Background())

	args := []string{
		"--device", id.String(),
		"--set-fmt-video", fmt.Sprintf("width=%d,height=%d,pixelformat=MJPG", requested.Width(), requested.Height()),
		"--stream-mmap",
		"--stream-to=-",
		"--stream-count=0",
	}
	cmd := exec.CommandContext(streamCtx, "v4l2-ctl", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("backend: stdout pipe: %w", err)
	}
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("backend: start v4l2-ctl: %w", err)
	}

	h := &streamHandle{cmd: cmd, cancel: cancel, done: make(chan struct{})}

	go h.readFrames(stdout, requested, sink)
	go func() {
		_ = cmd.Wait()
		close(h.done)
		if stderrBuf.Len() > 0 {
			captureErr := classifyStderr(stderrBuf.String())
			openLog.WithField("kind", captureErr.Kind).Debug("v4l2-ctl exited")
		}
	}()

	return h, nil
}

// readFrames splits the MJPEG byte stream on JPEG start-of-image markers
// and delivers each complete frame to sink.
func (h *streamHandle) readFrames(stdout io.Reader, res core.Resolution, sink FrameSink) {
	reader := bufio.NewReaderSize(stdout, 1<<20)
	var frame bytes.Buffer
	buf := make([]byte, 32*1024)

	for {
		n, err := reader.Read(buf)
		if n > 0 {
			frame.Write(buf[:n])
			for {
				data := frame.Bytes()
				start := bytes.Index(data, []byte{0xFF, 0xD8})
				if start < 0 {
					break
				}
				end := bytes.Index(data[start+2:], []byte{0xFF, 0xD8})
				if end < 0 {
					if start > 0 {
						frame.Next(start)
					}
					break
				}
				full := end + 2
				sink(core.ImageView{
					Bytes:      append([]byte(nil), data[start:start+full]...),
					Resolution: res,
					Format:     core.PixelFormatMJPEG,
					RowOrder:   core.TopFirst,
				})
				frame.Next(start + full)
			}
		}
		if err != nil {
			return
		}
	}
}

func (h *streamHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.cancel()
	<-h.done
	return nil
}
