package dict

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
	"github.com/spf13/afero"
)

const snapshotKey = "snapshot"

// DefaultTTL bounds how long a parsed snapshot is reused without a file
// change being observed.
const DefaultTTL = 10 * time.Minute

// Files names the override files of each table. Empty names are skipped.
type Files struct {
	UserUWPModeItems string
	WebUWPModeItems  string
	UserGUIDInfos    string
	WebGUIDInfos     string
}

func (f Files) all() []string {
	var out []string
	for _, p := range []string{f.UserUWPModeItems, f.WebUWPModeItems, f.UserGUIDInfos, f.WebGUIDInfos} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Source produces snapshots, re-reading the files only when the cached
// snapshot expired or was invalidated.
type Source struct {
	fs     afero.Fs
	files  Files
	ttl    time.Duration
	cache  *gocache.Cache
	logger *log.Logger
}

// NewSource reads override files from fsys. A ttl of zero uses DefaultTTL.
func NewSource(fsys afero.Fs, files Files, ttl time.Duration, logger *log.Logger) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Source{
		fs:     fsys,
		files:  files,
		ttl:    ttl,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Snapshot returns the current tables.
func (s *Source) Snapshot() (*Snapshot, error) {
	if v, ok := s.cache.Get(snapshotKey); ok {
		if snap, ok := v.(*Snapshot); ok {
			return snap, nil
		}
	}
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	s.cache.Set(snapshotKey, snap, s.ttl)
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (s *Source) Invalidate() {
	s.cache.Delete(snapshotKey)
}

// load applies the override order: the user's file replaces the refreshed
// web copy, which replaces the embedded document. GUID infos are merged per
// GUID in the same order.
func (s *Source) load() (*Snapshot, error) {
	snap, err := Defaults()
	if err != nil {
		return nil, err
	}

	for _, p := range []string{s.files.UserUWPModeItems, s.files.WebUWPModeItems} {
		uwp, ok, err := s.readUWP(p)
		if err != nil {
			s.logger.Warn("ignoring uwp mode items", "path", p, "err", err)
			continue
		}
		if ok {
			snap.UWP = uwp
			break
		}
	}

	for _, p := range []string{s.files.WebGUIDInfos, s.files.UserGUIDInfos} {
		infos, ok, err := s.readInfos(p)
		if err != nil {
			s.logger.Warn("ignoring guid infos", "path", p, "err", err)
			continue
		}
		if ok {
			snap.Infos.Merge(infos)
		}
	}
	return snap, nil
}

func (s *Source) readUWP(path string) (UWPModeItems, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	f, err := s.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	items, err := ParseUWPModeItems(f)
	if err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (s *Source) readInfos(path string) (GUIDInfos, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	f, err := s.fs.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	infos, err := ParseGUIDInfos(f)
	if err != nil {
		return nil, false, err
	}
	return infos, true, nil
}

// Watcher invalidates a Source when one of its files changes on disk.
type Watcher struct {
	fsw    *fsnotify.Watcher
	src    *Source
	names  map[string]bool
	done   chan struct{}
	closed chan struct{}
}

// Watch starts watching the directories holding src's override files.
// Directories that do not exist yet are skipped.
func Watch(src *Source) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fsw:    fsw,
		src:    src,
		names:  map[string]bool{},
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	dirs := map[string]bool{}
	for _, p := range src.files.all() {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.names[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			src.logger.Debug("not watching dictionary dir", "dir", dir, "err", err)
		}
	}
	go w.loop()
	return w, nil
}

// Stop terminates the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsw.Close()
	<-w.closed
	return err
}

func (w *Watcher) loop() {
	defer close(w.closed)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.src.logger.Debug("dictionary changed", "path", ev.Name, "op", ev.Op.String())
			w.src.Invalidate()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.src.logger.Warn("dictionary watcher", "err", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.names[abs]
}
