package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voxtap/voxtap/internal/configtree"
	"github.com/voxtap/voxtap/internal/logging"
)

// DefaultQuietPeriod is the debounce window: a flush is dispatched this long
// after the last edit.
const DefaultQuietPeriod = 400 * time.Millisecond

// Transport is the subset of the appliance client the session needs.
type Transport interface {
	// WritePatch sends a partial configuration write and returns the
	// appliance's resulting full tree.
	WritePatch(ctx context.Context, patch configtree.Patch) (configtree.Tree, error)

	// SaveNow issues the no-op "save now" call used when an explicit save
	// is requested with nothing pending.
	SaveNow(ctx context.Context) error
}

// SyncSession owns the pending-edit buffer and its debounce timer.
type SyncSession struct {
	// QuietPeriod is the debounce window. Changing it affects the next
	// Schedule call. Defaults to DefaultQuietPeriod.
	QuietPeriod time.Duration

	// OnSaved, when set, is invoked with the appliance's merged tree after
	// every successful write (automatic or forced). Called from the
	// flushing goroutine.
	OnSaved func(configtree.Tree)

	transport Transport

	mu      sync.Mutex
	pending configtree.Patch
	timer   *time.Timer
}

// New creates a session flushing through the given transport.
func New(transport Transport) *SyncSession {
	return &SyncSession{
		QuietPeriod: DefaultQuietPeriod,
		transport:   transport,
		pending:     configtree.Patch{},
	}
}

// Schedule merges edit into the pending buffer and restarts the debounce
// timer. At most one timer is armed at a time: each edit cancels the
// previous one, so a burst of edits produces a single write containing
// their merge.
func (s *SyncSession) Schedule(edit configtree.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = configtree.Merge(s.pending, edit)

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.QuietPeriod, s.autoFlush)
}

// ForceFlush cancels any armed timer and flushes immediately, skipping the
// quiet period. If nothing is pending it issues the no-op save instead, so
// an explicit "save now" always produces feedback. Unlike the automatic
// path, the error is returned to the caller.
func (s *SyncSession) ForceFlush(ctx context.Context) error {
	patch := s.capture()
	if patch.IsEmpty() {
		return s.transport.SaveNow(ctx)
	}

	tree, err := s.transport.WritePatch(ctx, patch)
	if err != nil {
		return err
	}
	if s.OnSaved != nil {
		s.OnSaved(tree)
	}
	return nil
}

// Pending returns a copy of the not-yet-flushed edits. Useful for dirty
// indicators; mutating the result does not affect the buffer.
func (s *SyncSession) Pending() configtree.Patch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Clone()
}

// Stop cancels any armed debounce timer without flushing. Edits already in
// the buffer remain pending.
func (s *SyncSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// autoFlush runs on timer expiry. The capture happens before the network
// call starts, not after it resolves: edits arriving during the in-flight
// request land in a fresh buffer. A failed automatic write is logged only;
// the captured edits are not recoverable.
func (s *SyncSession) autoFlush() {
	patch := s.capture()
	if patch.IsEmpty() {
		return
	}

	tree, err := s.transport.WritePatch(context.Background(), patch)
	if err != nil {
		logging.Error("autosave failed, edits dropped",
			zap.Error(err),
		)
		return
	}
	if s.OnSaved != nil {
		s.OnSaved(tree)
	}
}

// capture atomically takes the buffer's contents, clears it, and disarms
// the timer. Two racing flushes therefore capture disjoint contents.
func (s *SyncSession) capture() configtree.Patch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	patch := s.pending
	s.pending = configtree.Patch{}
	return patch
}
