package assets

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/tessera/engine/core"
)

// AssetKind classifies the files the pipeline cares about.
type AssetKind int

const (
	AssetNone AssetKind = iota
	// AssetSurf is a triangle-soup surface file.
	AssetSurf
	// AssetDeck is a scene description listing read_surf commands.
	AssetDeck
)

func (k AssetKind) String() string {
	switch k {
	case AssetSurf:
		return "surf"
	case AssetDeck:
		return "deck"
	default:
		return "none"
	}
}

// AssetInfo is one indexed file under watch.
type AssetInfo struct {
	Path     string
	Kind     AssetKind
	LastSeen time.Time
}

// Watcher indexes the surf and deck files below a root directory and pushes
// a change notification whenever one of them is created, rewritten or
// removed. Other file types are ignored.
type Watcher struct {
	assets map[string]AssetInfo
	mutex  sync.RWMutex

	done      chan struct{}
	closeOnce sync.Once
	fsnotify  *fsnotify.Watcher
	changes   chan AssetInfo
	errors    chan error
}

func NewWatcher() (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		assets:   make(map[string]AssetInfo),
		fsnotify: fsWatch,
		changes:  make(chan AssetInfo),
		errors:   make(chan error),
		done:     make(chan struct{}),
	}, nil
}

// Initialize indexes everything under root, starts watching it recursively
// and launches the event loop.
func (w *Watcher) Initialize(root string) error {
	go w.start()

	return w.AddRecursive(root)
}

// Changes delivers one AssetInfo per meaningful file event. The channel
// closes on Shutdown.
func (w *Watcher) Changes() <-chan AssetInfo {
	return w.changes
}

// Errors delivers watcher failures. The channel closes on Shutdown.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Add starts watching the named file or directory, non-recursively.
func (w *Watcher) Add(name string) error {
	select {
	case <-w.done:
		return errors.New("watcher already closed")
	default:
	}
	return w.fsnotify.Add(name)
}

// AddRecursive starts watching the named directory and every directory below
// it, indexing the surf and deck files found on the way.
func (w *Watcher) AddRecursive(name string) error {
	select {
	case <-w.done:
		return errors.New("watcher already closed")
	default:
	}
	return w.watchRecursive(name, false)
}

// RemoveRecursive stops watching the named directory tree.
func (w *Watcher) RemoveRecursive(name string) error {
	return w.watchRecursive(name, true)
}

// Assets snapshots the indexed files, sorted by path.
func (w *Watcher) Assets() []AssetInfo {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	out := make([]AssetInfo, 0, len(w.assets))
	for _, info := range w.assets {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Shutdown stops the event loop and closes the notification channels.
func (w *Watcher) Shutdown() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}

func (w *Watcher) start() {
	for {
		select {
		case e := <-w.fsnotify.Events:
			if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := w.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("watching new directory %s: %v", e.Name, err)
					}
				}
				continue
			}

			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if info, ok := w.indexFile(e.Name); ok {
					w.notify(info)
				}
			}
			if e.Op&fsnotify.Remove != 0 {
				if info, ok := w.dropFile(e.Name); ok {
					w.fsnotify.Remove(e.Name)
					w.notify(info)
				}
			}

		case e := <-w.fsnotify.Errors:
			core.LogError(e.Error())
			select {
			case w.errors <- e:
			case <-w.done:
				w.teardown()
				return
			}

		case <-w.done:
			w.teardown()
			return
		}
	}
}

func (w *Watcher) teardown() {
	w.fsnotify.Close()
	close(w.changes)
	close(w.errors)
}

func (w *Watcher) notify(info AssetInfo) {
	select {
	case w.changes <- info:
	case <-w.done:
	}
}

// watchRecursive adds or removes every directory under path from the watch
// list. Files encountered on the way are indexed, so the initial walk
// doubles as a scan.
func (w *Watcher) watchRecursive(path string, unwatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unwatch {
				return w.fsnotify.Remove(walkPath)
			}
			return w.fsnotify.Add(walkPath)
		}
		w.indexFile(walkPath)
		return nil
	})
}

// indexFile records a surf or deck file and reports whether it is one.
func (w *Watcher) indexFile(path string) (AssetInfo, bool) {
	kind := DetermineAssetKind(path)
	if kind == AssetNone {
		return AssetInfo{}, false
	}

	info := AssetInfo{Path: path, Kind: kind, LastSeen: time.Now()}
	w.mutex.Lock()
	w.assets[path] = info
	w.mutex.Unlock()
	return info, true
}

// dropFile forgets a deleted file, returning its last known info.
func (w *Watcher) dropFile(path string) (AssetInfo, bool) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	info, ok := w.assets[path]
	if ok {
		delete(w.assets, path)
	}
	return info, ok
}

// DetermineAssetKind classifies a path by extension and naming convention.
// Simulator decks conventionally carry an in. prefix, like in.demo.
func DetermineAssetKind(path string) AssetKind {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "in.") {
		return AssetDeck
	}
	switch filepath.Ext(base) {
	case ".surf":
		return AssetSurf
	case ".deck":
		return AssetDeck
	default:
		return AssetNone
	}
}
