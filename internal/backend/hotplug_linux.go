//go:build linux

package backend

import (
	"strings"

	"github.com/fsnotify/fsnotify"
)

// HotplugWatcher watches /dev for video device nodes appearing or
// disappearing and calls onChange whenever one does, so the manager's
// worker can re-enumerate sooner than its next poll tick.
type HotplugWatcher struct {
	watcher  *fsnotify.Watcher
	onChange func()
	done     chan struct{}
}

// NewHotplugWatcher starts watching /dev immediately. If /dev can't be
// watched (e.g. no permission, container restrictions), it returns an error
// and the caller falls back to poll-only enumeration — hotplug detection is
// an optimization, not a requirement.
func NewHotplugWatcher(onChange func()) (*HotplugWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add("/dev"); err != nil {
		w.Close()
		return nil, err
	}

	hw := &HotplugWatcher{watcher: w, onChange: onChange, done: make(chan struct{})}
	go hw.loop()
	return hw, nil
}

func (hw *HotplugWatcher) loop() {
	defer close(hw.done)
	for {
		select {
		case event, ok := <-hw.watcher.Events:
			if !ok {
				return
			}
			if !strings.Contains(event.Name, "video") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				hw.onChange()
			}
		case _, ok := <-hw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (hw *HotplugWatcher) Close() error {
	err := hw.watcher.Close()
	<-hw.done
	return err
}
