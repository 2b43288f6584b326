package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewDefaults(t *testing.T) {
	w, err := New("trace.json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.debounceDuration != DefaultDebounceDuration {
		t.Errorf("debounce = %v, want %v", w.debounceDuration, DefaultDebounceDuration)
	}
	if w.PollInterval() != DefaultPollInterval {
		t.Errorf("poll interval = %v, want %v", w.PollInterval(), DefaultPollInterval)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("Path() = %q, want absolute", w.Path())
	}
	if w.IsStarted() {
		t.Error("IsStarted true before Start")
	}
}

func TestOptions(t *testing.T) {
	w, err := New("trace.json",
		WithDebounceDuration(5*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.debounceDuration != 5*time.Millisecond {
		t.Errorf("debounce = %v", w.debounceDuration)
	}
	if w.PollInterval() != 10*time.Millisecond {
		t.Errorf("poll interval = %v", w.PollInterval())
	}
	if !w.forcePoll {
		t.Error("forcePoll not set")
	}
}

func TestStartTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	writeFile(t, path, "[]")

	w, err := New(path, WithForcePoll(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	writeFile(t, path, "[]")

	w, err := New(path, WithForcePoll(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()

	if w.IsStarted() {
		t.Error("IsStarted true after Stop")
	}
}

func TestForcePollMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	writeFile(t, path, "[]")

	w, err := New(path, WithForcePoll(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("IsPolling false with WithForcePoll(true)")
	}
}

func TestForcePollEnv(t *testing.T) {
	t.Setenv("TLV_FORCE_POLL", "1")

	path := filepath.Join(t.TempDir(), "trace.json")
	writeFile(t, path, "[]")

	w, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("IsPolling false with TLV_FORCE_POLL=1")
	}
}

func TestPollingDetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	writeFile(t, path, "[]")

	var changes atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithDebounceDuration(5*time.Millisecond),
		WithOnChange(func() { changes.Add(1) }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	// Size change guarantees detection even with coarse mtime resolution.
	writeFile(t, path, `[{"name":"MAIN_run","start":0,"dur":10}]`)

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification within 2s")
	}

	if changes.Load() == 0 {
		t.Error("OnChange callback never invoked")
	}
}

func TestPollingReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	writeFile(t, path, "[]")

	errCh := make(chan error, 4)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(10*time.Millisecond),
		WithOnError(func(err error) {
			select {
			case errCh <- err:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	select {
	case got := <-errCh:
		if got != ErrFileRemoved {
			t.Errorf("error = %v, want ErrFileRemoved", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no removal error within 2s")
	}
}

func TestStartWithMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-yet.json")

	w, err := New(path, WithForcePoll(true), WithPollInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start with missing file: %v", err)
	}
	defer w.Stop()

	// Creating the file should count as a change.
	writeFile(t, path, "[]")

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("no notification after file creation")
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var fired atomic.Int32
	b := newDebouncer(20 * time.Millisecond)

	for i := 0; i < 10; i++ {
		b.trigger(func() { fired.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var fired atomic.Int32
	b := newDebouncer(20 * time.Millisecond)

	b.trigger(func() { fired.Add(1) })
	b.cancel()

	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times after cancel, want 0", got)
	}
}
