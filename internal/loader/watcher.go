package loader

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/schema"
)

// Reload reports that the watched file changed.
type Reload struct {
	Path   string
	Events []schema.Event
	Err    error // set when the file could not be loaded; Events then holds the built-in events
}

// lastSeen is what the watcher knew about the file after its previous check.
type lastSeen struct {
	exists      bool
	modTime     time.Time
	size        int64
	fingerprint [sha256.Size]byte
}

// Watcher reloads an events file when its content changes.
// It watches the parent directory so editors that replace the file are followed.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
	reloads  chan Reload

	mu   sync.Mutex
	seen lastSeen

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher starts watching path. The current content is the baseline, so only
// later changes are reported.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := FormatFromPath(abs); err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("error watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		debounce: debounce,
		fsw:      fsw,
		reloads:  make(chan Reload, 1),
		done:     make(chan struct{}),
	}
	w.seen, _, _ = w.observe()

	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Reloads delivers one notification per content change. It is closed by Close.
func (w *Watcher) Reloads() <-chan Reload { return w.reloads }

// Check compares the file with the last seen state and reports whether it changed.
// A touch that leaves the content identical is not a change.
func (w *Watcher) Check() (Reload, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, data, err := w.observe()
	prev := w.seen
	w.seen = next
	if err != nil {
		if !prev.exists {
			return Reload{}, false
		}
		return Reload{Path: w.path, Events: DefaultEvents(), Err: err}, true
	}
	if prev.exists && prev.fingerprint == next.fingerprint {
		return Reload{}, false
	}

	format, _ := FormatFromPath(w.path)
	events, err := Decode(format, bytes.NewReader(data))
	if err != nil {
		return Reload{Path: w.path, Events: DefaultEvents(), Err: fmt.Errorf("%s: %w", w.path, err)}, true
	}
	return Reload{Path: w.path, Events: events}, true
}

// observe reads the file, reusing the previous fingerprint when the
// modification time and size are unchanged.
func (w *Watcher) observe() (lastSeen, []byte, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return lastSeen{}, nil, err
	}
	if w.seen.exists && info.ModTime().Equal(w.seen.modTime) && info.Size() == w.seen.size {
		return w.seen, nil, nil
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		return lastSeen{}, nil, err
	}
	return lastSeen{
		exists:      true,
		modTime:     info.ModTime(),
		size:        info.Size(),
		fingerprint: sha256.Sum256(data),
	}, data, nil
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	defer close(w.reloads)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			reload, changed := w.Check()
			if !changed {
				continue
			}
			select {
			case w.reloads <- reload:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			contract.LogWarn("watching events file", err)
		}
	}
}

// Close stops the watcher and closes the Reloads channel.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
