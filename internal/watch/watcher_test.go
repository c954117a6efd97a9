package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestCatalogWatcherStartStop(t *testing.T) {
	cw, err := NewCatalogWatcher(filepath.Join(t.TempDir(), "sub", "catalog.json"), 0, func() {}, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if cw.IsRunning() {
		t.Fatal("new watcher should not be running")
	}
	if err := cw.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := cw.Start(); err == nil {
		t.Fatal("expected error starting twice")
	}
	if err := cw.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if cw.IsRunning() {
		t.Fatal("watcher should not be running after stop")
	}
}

func TestCatalogWatcherRequiresCallback(t *testing.T) {
	if _, err := NewCatalogWatcher("catalog.json", 0, nil, nil); err == nil {
		t.Fatal("expected error without callback")
	}
}

func TestCatalogWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	var calls atomic.Int32

	cw, err := NewCatalogWatcher(path, 100*time.Millisecond, func() { calls.Add(1) }, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := cw.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer cw.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(`{"tags":[]}`), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	waitFor(t, func() bool { return calls.Load() >= 1 })
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 debounced call, got %d", got)
	}
}

func TestCatalogWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32

	cw, err := NewCatalogWatcher(filepath.Join(dir, "catalog.json"), 20*time.Millisecond, func() { calls.Add(1) }, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := cw.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer cw.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no calls, got %d", got)
	}
}

func TestRelevant(t *testing.T) {
	cw := &CatalogWatcher{path: "/cfg/catalog.json"}
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"create", fsnotify.Event{Name: "/cfg/catalog.json", Op: fsnotify.Create}, true},
		{"write", fsnotify.Event{Name: "/cfg/catalog.json", Op: fsnotify.Write}, true},
		{"chmod", fsnotify.Event{Name: "/cfg/catalog.json", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/cfg/catalog.json", Op: fsnotify.Remove}, false},
		{"temp file", fsnotify.Event{Name: "/cfg/.catalog.json.123", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		if got := cw.relevant(tt.event); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
