package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long a file must stay quiet before its change is reported,
// so editors that write in several steps produce one event.
const settle = 100 * time.Millisecond

// Watcher reports tengo scripts that changed on disk. Catalogs are not
// watched: they are loaded once and stay immutable for the process.
type Watcher struct {
	fs      *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewScriptWatcher watches dirs for writes to .tengo files.
func NewScriptWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fsw,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.fs.Close()
		w.wg.Wait()
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	touched := make(map[string]time.Time)
	var flush <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !IsScript(ev.Name) {
				continue
			}
			touched[ev.Name] = time.Now()
			if flush == nil {
				flush = time.After(settle)
			}
		case <-flush:
			flush = nil
			now := time.Now()
			for name, at := range touched {
				if now.Sub(at) < settle {
					continue
				}
				delete(touched, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if len(touched) > 0 {
				flush = time.After(settle)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsScript reports whether path names a tengo script.
func IsScript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
