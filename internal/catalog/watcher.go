package catalog

import (
	"github.com/fsnotify/fsnotify"
)

// Watcher invalidates a Loader's cache and notifies the caller when a
// watched catalog or schema file changes on disk. Used by the interview
// command's --watch mode for live catalog editing.
type Watcher struct {
	fs     *fsnotify.Watcher
	loader *Loader
	done   chan struct{}
}

// Watch starts watching the given files. onChange runs on the watcher
// goroutine after the cache entry for the changed path is dropped; it
// must not block for long.
func Watch(loader *Loader, paths []string, onChange func(path string)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := fs.Add(p); err != nil {
			fs.Close()
			return nil, err
		}
	}

	w := &Watcher{fs: fs, loader: loader, done: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func(path string)) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if w.loader != nil {
				w.loader.Invalidate(event.Name)
			}
			if onChange != nil {
				onChange(event.Name)
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
