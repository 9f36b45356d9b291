package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.calls...)
}

func start(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestDebouncedChange(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "input.js")
	require.NoError(t, os.WriteFile(target, []byte("a;"), 0644))

	rec := &recorder{}
	w, err := New([]string{target}, 50*time.Millisecond, rec.record)
	require.NoError(t, err)
	start(t, w)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("a + 1;"), 0644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) > 0 }, 5*time.Second, 10*time.Millisecond)
	calls := rec.snapshot()
	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, calls[0])
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "input.js")
	require.NoError(t, os.WriteFile(target, []byte("a;"), 0644))

	rec := &recorder{}
	w, err := New([]string{target}, 10*time.Millisecond, rec.record)
	require.NoError(t, err)
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.js"), []byte("b;"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "input.js")}, time.Millisecond, func([]string) {})
	assert.Error(t, err)
}

func TestStopCancelsPendingCallback(t *testing.T) {
	rec := &recorder{}
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "input.js")}, time.Hour, rec.record)
	require.NoError(t, err)

	w.schedule(filepath.Join(dir, "input.js"))
	w.stop()
	w.fire()
	assert.Empty(t, rec.snapshot())
}

func TestCallbacksDoNotOverlap(t *testing.T) {
	var inFlight, maxInFlight, calls atomic.Int32
	onChange := func([]string) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		calls.Add(1)
	}

	path := filepath.Join(t.TempDir(), "input.js")
	w, err := New([]string{path}, time.Hour, onChange)
	require.NoError(t, err)
	defer w.stop()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		w.schedule(path)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.fire()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestStopWaitsForRunningCallback(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	onChange := func([]string) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
	}

	path := filepath.Join(t.TempDir(), "input.js")
	w, err := New([]string{path}, time.Hour, onChange)
	require.NoError(t, err)

	w.schedule(path)
	go w.fire()
	<-entered

	stopped := make(chan struct{})
	go func() {
		w.stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("stop returned while a callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("stop did not return after the callback finished")
	}

	// nothing is delivered once stopped
	w.schedule(path)
	w.fire()
	assert.Equal(t, int32(1), calls.Load())
}
