package session

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/voxtap/voxtap/internal/configtree"
)

// testQuiet is a short debounce window standing in for the production
// 400ms default so tests stay fast.
const testQuiet = 40 * time.Millisecond

type fakeTransport struct {
	mu     sync.Mutex
	writes []configtree.Patch
	saves  int

	err     error         // returned from WritePatch when set
	block   chan struct{} // WritePatch waits on this when non-nil
	started chan struct{} // signalled when WritePatch begins
	wrote   chan struct{} // signalled when WritePatch returns
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{wrote: make(chan struct{}, 16)}
}

func (f *fakeTransport) WritePatch(ctx context.Context, patch configtree.Patch) (configtree.Tree, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	f.writes = append(f.writes, patch)
	err := f.err
	f.mu.Unlock()

	defer func() { f.wrote <- struct{}{} }()
	if err != nil {
		return nil, err
	}
	return configtree.Tree(patch).Clone(), nil
}

func (f *fakeTransport) SaveNow(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return nil
}

func (f *fakeTransport) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.writes)
}

func (f *fakeTransport) write(i int) configtree.Patch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[i]
}

func waitWrite(t *testing.T, ft *fakeTransport) {
	t.Helper()
	select {
	case <-ft.wrote:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a write")
	}
}

func TestSchedule_CoalescesBurstIntoOneWrite(t *testing.T) {
	ft := newFakeTransport()
	s := New(ft)
	s.QuietPeriod = testQuiet

	// Four rapid edits, each well within the quiet period of the last.
	s.Schedule(configtree.Set("audio", "record_threshold", 10))
	time.Sleep(testQuiet / 4)
	s.Schedule(configtree.Set("audio", "record_threshold", 20))
	time.Sleep(testQuiet / 4)
	s.Schedule(configtree.Set("general", "archive", true))
	time.Sleep(testQuiet / 4)
	s.Schedule(configtree.Set("audio", "record_threshold", 25))

	waitWrite(t, ft)

	if n := ft.writeCount(); n != 1 {
		t.Fatalf("writes = %d, want exactly 1", n)
	}
	want := configtree.Patch{
		"audio":   map[string]any{"record_threshold": 25},
		"general": map[string]any{"archive": true},
	}
	if got := ft.write(0); !reflect.DeepEqual(got, want) {
		t.Errorf("flushed patch = %v, want %v", got, want)
	}

	// Silence afterwards must not produce a second write.
	time.Sleep(3 * testQuiet)
	if n := ft.writeCount(); n != 1 {
		t.Errorf("writes after silence = %d, want 1", n)
	}
}

func TestForceFlush_BypassesQuietPeriodAndCancelsTimer(t *testing.T) {
	ft := newFakeTransport()
	s := New(ft)
	s.QuietPeriod = testQuiet

	s.Schedule(configtree.Set("audio", "record_threshold", 30))

	if err := s.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}
	waitWrite(t, ft)

	if n := ft.writeCount(); n != 1 {
		t.Fatalf("writes = %d, want 1", n)
	}

	// The armed timer was cancelled: no duplicate write fires later.
	time.Sleep(3 * testQuiet)
	if n := ft.writeCount(); n != 1 {
		t.Errorf("writes after quiet period = %d, want 1 (timer not cancelled)", n)
	}
}

func TestForceFlush_EmptyBufferIssuesNoOpSave(t *testing.T) {
	ft := newFakeTransport()
	s := New(ft)
	s.QuietPeriod = testQuiet

	if err := s.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}

	if ft.writeCount() != 0 {
		t.Error("empty flush must not issue a patch write")
	}
	if ft.saves != 1 {
		t.Errorf("saves = %d, want 1 (no-op save for feedback)", ft.saves)
	}
}

func TestAutoFlush_FailureDropsEditsSilently(t *testing.T) {
	ft := newFakeTransport()
	ft.err = errors.New("simulated 500")
	s := New(ft)
	s.QuietPeriod = testQuiet

	s.Schedule(configtree.Set("audio", "record_threshold", 25))
	waitWrite(t, ft)

	// The buffer was cleared before the write was attempted, so the edit
	// is gone. This mirrors the original control surface.
	if p := s.Pending(); !p.IsEmpty() {
		t.Errorf("pending after failed autosave = %v, want empty", p)
	}

	// No retry.
	time.Sleep(3 * testQuiet)
	if n := ft.writeCount(); n != 1 {
		t.Errorf("writes = %d, want 1 (no retry)", n)
	}
}

func TestForceFlush_FailureSurfacesError(t *testing.T) {
	ft := newFakeTransport()
	ft.err = errors.New("simulated 500")
	s := New(ft)
	s.QuietPeriod = testQuiet

	s.Schedule(configtree.Set("audio", "record_threshold", 25))

	err := s.ForceFlush(context.Background())
	if err == nil {
		t.Fatal("ForceFlush() expected error")
	}
}

func TestSchedule_EditsDuringInFlightWriteAccumulateFresh(t *testing.T) {
	ft := newFakeTransport()
	ft.block = make(chan struct{})
	ft.started = make(chan struct{}, 1)
	s := New(ft)
	s.QuietPeriod = testQuiet

	s.Schedule(configtree.Set("audio", "record_threshold", 10))

	// Wait for the flush to begin, then edit while it is in flight.
	<-ft.started
	s.Schedule(configtree.Set("openmhz", "enabled", true))
	close(ft.block)

	waitWrite(t, ft) // first write completes
	waitWrite(t, ft) // second flush fires for the fresh buffer

	if n := ft.writeCount(); n != 2 {
		t.Fatalf("writes = %d, want 2", n)
	}
	first, second := ft.write(0), ft.write(1)
	if _, ok := first.Field("audio", "record_threshold"); !ok {
		t.Errorf("first write = %v, want the pre-flight edit", first)
	}
	if _, ok := second.Field("openmhz", "enabled"); !ok {
		t.Errorf("second write = %v, want only the in-flight edit", second)
	}
	if _, ok := second.Field("audio", "record_threshold"); ok {
		t.Errorf("second write re-sent already-flushed edit: %v", second)
	}
}

func TestOnSaved_InvokedWithMergedTree(t *testing.T) {
	ft := newFakeTransport()
	s := New(ft)
	s.QuietPeriod = testQuiet

	saved := make(chan configtree.Tree, 1)
	s.OnSaved = func(tree configtree.Tree) { saved <- tree }

	s.Schedule(configtree.Set("audio", "record_threshold", 25))

	select {
	case tree := <-saved:
		if v, _ := tree.Field("audio", "record_threshold"); v != 25 {
			t.Errorf("OnSaved tree = %v", tree)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnSaved was not invoked")
	}
}

func TestStop_CancelsPendingFlush(t *testing.T) {
	ft := newFakeTransport()
	s := New(ft)
	s.QuietPeriod = testQuiet

	s.Schedule(configtree.Set("audio", "record_threshold", 25))
	s.Stop()

	time.Sleep(3 * testQuiet)
	if ft.writeCount() != 0 {
		t.Error("Stop did not cancel the armed timer")
	}
	if p := s.Pending(); p.IsEmpty() {
		t.Error("Stop must leave buffered edits pending")
	}
}

func TestPending_ReturnsCopy(t *testing.T) {
	ft := newFakeTransport()
	s := New(ft)
	s.QuietPeriod = time.Hour // never flush in this test

	s.Schedule(configtree.Set("audio", "record_threshold", 25))

	p := s.Pending()
	p["audio"].(map[string]any)["record_threshold"] = 99

	if v, _ := s.Pending().Field("audio", "record_threshold"); v != 25 {
		t.Errorf("mutating the Pending copy leaked into the buffer: %v", v)
	}
}
