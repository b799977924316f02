package config

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a settings file whenever it changes on disk and delivers the new settings
// on Updates. Files that fail to load are reported on Errors and the previous settings stay
// in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	Updates chan Settings
	Errors  chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching path. The parent directory is watched so editors that replace the
// file through a rename are still picked up.
//
// Parameters:
//   - path: the settings file
//   - debounce: quiet period before a reload (DefaultDebounce if <= 0)
//
// Returns:
//   - *Watcher: the running watcher; call Close to stop it
//   - error: an error if the directory cannot be watched
func Watch(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		Updates:  make(chan Settings, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	if watcher.debounce <= 0 {
		watcher.debounce = DefaultDebounce
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Updates and Errors. Safe to call more than once.
//
// Returns:
//   - error: the error from closing the underlying fsnotify watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Updates)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
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
			s, err := Load(w.path)
			if err != nil {
				log.Printf("[Config] reload %s: %v", w.path, err)
				w.send(nil, err)
				continue
			}
			log.Printf("[Config] reloaded %s", w.path)
			w.send(&s, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// send delivers a result unless the watcher is closing. A pending undelivered value is
// replaced so subscribers always see the latest one.
func (w *Watcher) send(s *Settings, err error) {
	if s != nil {
		select {
		case <-w.Updates:
		default:
		}
		select {
		case w.Updates <- *s:
		case <-w.closeCh:
		}
		return
	}
	select {
	case <-w.Errors:
	default:
	}
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}
