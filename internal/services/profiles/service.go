// Package profiles watches a directory of trace captures and keeps an ordered list of them.
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/profdiff-tui/internal/logger"
	"github.com/j-veylop/profdiff-tui/internal/models"
)

// Event represents a profile service event.
type Event struct {
	Error   error
	Profile *models.ProfileFile
	Type    EventType
}

// EventType defines the type of profile event.
type EventType int

const (
	// EventProfilesLoaded is sent once the initial directory scan finished.
	EventProfilesLoaded EventType = iota
	// EventProfileAdded is sent when a new capture settled on disk.
	EventProfileAdded
	// EventProfileUpdated is sent when an existing capture was rewritten.
	EventProfileUpdated
	// EventProfileRemoved is sent when a capture disappeared.
	EventProfileRemoved
	// EventError reports a watcher or scan failure.
	EventError
)

const defaultDebounce = 250 * time.Millisecond

// Service keeps the list of captures in a directory in sync with the filesystem.
type Service struct {
	mu        sync.RWMutex
	dir       string
	profiles  []models.ProfileFile
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	eventChan chan Event
	stopChan  chan struct{}

	timerMu sync.Mutex
	timers  map[string]*time.Timer
}

// New scans dir and starts watching it. The directory is created when missing.
func New(dir string, debounce time.Duration) (*Service, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile directory: %w", err)
	}

	s := &Service{
		dir:       abs,
		debounce:  debounce,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		timers:    make(map[string]*time.Timer),
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	if err := s.Rescan(); err != nil {
		return nil, fmt.Errorf("failed to scan profile directory: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventProfilesLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to profile changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Dir returns the watched directory.
func (s *Service) Dir() string {
	return s.dir
}

// Profiles returns a copy of all known captures in capture order.
func (s *Service) Profiles() []models.ProfileFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProfileFile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Count returns the number of captures.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// Get returns the capture at path.
func (s *Service) Get(path string) (models.ProfileFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(path); i >= 0 {
		return s.profiles[i], true
	}
	return models.ProfileFile{}, false
}

// Latest returns the newest capture.
func (s *Service) Latest() (models.ProfileFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.profiles) == 0 {
		return models.ProfileFile{}, false
	}
	return s.profiles[len(s.profiles)-1], true
}

// Previous returns the capture ordered immediately before path.
func (s *Service) Previous(path string) (models.ProfileFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(path)
	if i <= 0 {
		return models.ProfileFile{}, false
	}
	return s.profiles[i-1], true
}

// Rescan rebuilds the list from the directory contents.
func (s *Service) Rescan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var found []models.ProfileFile
	for _, entry := range entries {
		if entry.IsDir() || !isProfileName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn("failed to stat profile", "name", entry.Name(), "error", err)
			continue
		}
		found = append(found, models.NewProfileFile(filepath.Join(s.dir, entry.Name()), info.Size(), info.ModTime()))
	}
	sortProfiles(found)

	s.mu.Lock()
	s.profiles = found
	s.mu.Unlock()
	return nil
}

// isProfileName accepts visible .json files that are not temporary writes.
func isProfileName(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func sortProfiles(p []models.ProfileFile) {
	sort.SliceStable(p, func(i, j int) bool { return p[i].Less(p[j]) })
}

// indexOf must be called with the lock held.
func (s *Service) indexOf(path string) int {
	for i, p := range s.profiles {
		if p.Path == path {
			return i
		}
	}
	return -1
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(s.dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with per-file debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !isProfileName(filepath.Base(event.Name)) {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				s.schedule(event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				s.cancel(event.Name)
				s.handleRemove(event.Name)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// schedule restarts the settle timer for path. Captures are often written in
// several chunks, so a file is only read once writes stop.
func (s *Service) schedule(path string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if t, ok := s.timers[path]; ok {
		t.Stop()
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		s.timerMu.Lock()
		delete(s.timers, path)
		s.timerMu.Unlock()
		s.handleSettled(path)
	})
}

func (s *Service) cancel(path string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if t, ok := s.timers[path]; ok {
		t.Stop()
		delete(s.timers, path)
	}
}

// handleSettled records a created or rewritten capture.
func (s *Service) handleSettled(path string) {
	select {
	case <-s.stopChan:
		return
	default:
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.handleRemove(path)
			return
		}
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	if info.IsDir() {
		return
	}

	pf := models.NewProfileFile(path, info.Size(), info.ModTime())

	s.mu.Lock()
	eventType := EventProfileAdded
	if i := s.indexOf(path); i >= 0 {
		old := s.profiles[i]
		if old.Size == pf.Size && old.ModTime.Equal(pf.ModTime) {
			s.mu.Unlock()
			return
		}
		s.profiles[i] = pf
		eventType = EventProfileUpdated
	} else {
		s.profiles = append(s.profiles, pf)
	}
	sortProfiles(s.profiles)
	s.mu.Unlock()

	logger.Debug("profile settled", "path", path, "size", pf.Size)
	s.sendEvent(Event{Type: eventType, Profile: &pf})
}

func (s *Service) handleRemove(path string) {
	s.mu.Lock()
	i := s.indexOf(path)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.profiles[i]
	s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventProfileRemoved, Profile: &removed})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.timerMu.Lock()
	for path, t := range s.timers {
		t.Stop()
		delete(s.timers, path)
	}
	s.timerMu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
