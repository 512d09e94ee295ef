package profiles

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testDebounce = 20 * time.Millisecond

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	svc, err := New(dir, testDebounce)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	// Drain EventProfilesLoaded
	<-svc.Events()

	return svc, dir
}

func writeProfile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(`{"DrawFrame": {"1": {"invocations": [{"duration": 16000}]}}}`), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func waitForEvent(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type == want {
				return event
			}
		case <-timeout:
			t.Fatalf("timeout waiting for event %d", want)
			return Event{}
		}
	}
}

func TestNew_ScansExistingProfiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "profile_Data_0010.json")
	writeProfile(t, dir, "profile_Data_0002.json")
	writeProfile(t, dir, "notes.txt")
	writeProfile(t, dir, ".hidden.json")
	if err := os.Mkdir(filepath.Join(dir, "nested.json"), 0o750); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	svc, err := New(dir, testDebounce)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = svc.Close() }()

	profiles := svc.Profiles()
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2: %+v", len(profiles), profiles)
	}
	if profiles[0].Index != 2 || profiles[1].Index != 10 {
		t.Errorf("order = %d, %d; want 2, 10", profiles[0].Index, profiles[1].Index)
	}

	event := <-svc.Events()
	if event.Type != EventProfilesLoaded {
		t.Errorf("first event = %d, want EventProfilesLoaded", event.Type)
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures", "run")

	svc, err := New(dir, 0)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = svc.Close() }()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
	if svc.debounce != defaultDebounce {
		t.Errorf("debounce = %v, want default", svc.debounce)
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}
}

func TestWatch_ProfileAdded(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeProfile(t, dir, "profile_Data_0001.json")

	event := waitForEvent(t, svc, EventProfileAdded)
	if event.Profile == nil || event.Profile.Path != path {
		t.Fatalf("event profile = %+v, want %s", event.Profile, path)
	}

	latest, ok := svc.Latest()
	if !ok || latest.Path != path {
		t.Errorf("Latest() = %+v, %v", latest, ok)
	}
	if _, ok := svc.Get(path); !ok {
		t.Error("Get() did not find the new profile")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	svc, dir := newTestService(t)

	if err := os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	path := writeProfile(t, dir, "profile_Data_0003.json")

	event := waitForEvent(t, svc, EventProfileAdded)
	if event.Profile.Path != path {
		t.Errorf("added %s, want %s", event.Profile.Path, path)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestWatch_ProfileRemoved(t *testing.T) {
	svc, dir := newTestService(t)

	path := writeProfile(t, dir, "profile_Data_0001.json")
	waitForEvent(t, svc, EventProfileAdded)

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	event := waitForEvent(t, svc, EventProfileRemoved)
	if event.Profile == nil || event.Profile.Path != path {
		t.Errorf("removed profile = %+v", event.Profile)
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}
}

func TestPrevious(t *testing.T) {
	dir := t.TempDir()
	first := writeProfile(t, dir, "profile_Data_0001.json")
	second := writeProfile(t, dir, "profile_Data_0002.json")
	third := writeProfile(t, dir, "profile_Data_0003.json")

	svc, err := New(dir, testDebounce)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() { _ = svc.Close() }()

	prev, ok := svc.Previous(third)
	if !ok || prev.Path != second {
		t.Errorf("Previous(third) = %s, %v; want second", prev.Path, ok)
	}
	if _, ok := svc.Previous(first); ok {
		t.Error("Previous(first) should not exist")
	}
	if _, ok := svc.Previous(filepath.Join(dir, "unknown.json")); ok {
		t.Error("Previous(unknown) should not exist")
	}
}

func TestRescan(t *testing.T) {
	svc, dir := newTestService(t)

	// Bypass the watcher by writing and rescanning synchronously.
	writeProfile(t, dir, "profile_Data_0005.json")
	if err := svc.Rescan(); err != nil {
		t.Fatalf("Rescan() failed: %v", err)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
}

func TestIsProfileName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"profile_Data_0001.json", true},
		{"CAPTURE.JSON", true},
		{".profile.json", false},
		{"profile.json.tmp", false},
		{"profile.txt", false},
	}
	for _, tt := range tests {
		if got := isProfileName(tt.name); got != tt.want {
			t.Errorf("isProfileName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSendEvent_DropsOldestWhenFull(t *testing.T) {
	svc := &Service{eventChan: make(chan Event, 2)}

	svc.sendEvent(Event{Type: EventProfileAdded})
	svc.sendEvent(Event{Type: EventProfileUpdated})
	svc.sendEvent(Event{Type: EventProfileRemoved})

	if len(svc.eventChan) != 2 {
		t.Fatalf("channel holds %d events, want 2", len(svc.eventChan))
	}
	if e := <-svc.eventChan; e.Type != EventProfileUpdated {
		t.Errorf("oldest surviving event = %d, want EventProfileUpdated", e.Type)
	}
}
