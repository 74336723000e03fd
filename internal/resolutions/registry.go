// Package resolutions implements the ResolutionSelection registry: a
// process-scope DeviceId -> Resolution map that outlives the Manager's own
// lifetime. It optionally persists to a YAML file using gopkg.in/yaml.v3,
// the same serializer the config stack depends on transitively through
// Viper.
package resolutions

import (
	"os"
	"sync"

	"github.com/camerarecorder/webcam/internal/core"
	"github.com/camerarecorder/webcam/internal/logging"
	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger("resolutions")

// persistedEntry is the on-disk shape of one selection.
type persistedEntry struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// Registry is a DeviceId -> Resolution map, safe for concurrent use. The
// zero value is not usable; construct with New.
type Registry struct {
	mu         sync.RWMutex
	selections map[string]core.Resolution
	filePath   string
}

// New creates a Registry, loading any existing selections from filePath. An
// empty filePath disables persistence: selections live only as long as the
// process. Load failures are logged and otherwise ignored — a corrupt or
// missing resolutions file must never prevent the engine from starting.
func New(filePath string) *Registry {
	r := &Registry{
		selections: make(map[string]core.Resolution),
		filePath:   filePath,
	}
	r.load()
	return r
}

func (r *Registry) load() {
	if r.filePath == "" {
		return
	}
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("failed to read persisted resolutions file")
		}
		return
	}

	var entries map[string]persistedEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		log.WithError(err).Warn("failed to parse persisted resolutions file, ignoring")
		return
	}

	for id, e := range entries {
		r.selections[id] = core.NewResolution(e.Width, e.Height)
	}
}

// persist writes the current selections to disk, best-effort. Must be
// called with r.mu held for reading.
func (r *Registry) persist() {
	if r.filePath == "" {
		return
	}
	entries := make(map[string]persistedEntry, len(r.selections))
	for id, res := range r.selections {
		entries[id] = persistedEntry{Width: res.Width(), Height: res.Height()}
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		log.WithError(err).Warn("failed to marshal resolutions for persistence")
		return
	}
	if err := os.WriteFile(r.filePath, data, 0644); err != nil {
		log.WithError(err).Warn("failed to write persisted resolutions file")
	}
}

// Get returns the selected resolution for id, or false if none has been set.
func (r *Registry) Get(id core.DeviceId) (core.Resolution, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.selections[id.String()]
	return res, ok
}

// Set records the selected resolution for id. It reports whether the value
// actually changed (false if res equals the previous selection), since
// callers use that to decide whether a live request needs restarting.
func (r *Registry) Set(id core.DeviceId, res core.Resolution) (changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.selections[id.String()]; ok && existing.Equal(res) {
		return false
	}
	r.selections[id.String()] = res
	r.persist()
	return true
}
