// Package session implements the pending-edit synchronization engine: an
// in-memory buffer of unsaved configuration edits and the debounce scheduler
// that batches rapid edits into a single network write.
//
// A SyncSession is constructed once per UI session and owns all of its
// state; there is no package-level buffer or timer, so independent sessions
// (and unit tests) never interfere with each other.
//
// Every edit is merged into the buffer and arms a single debounce timer.
// When the quiet period elapses, the buffer is captured and cleared in one
// critical section before the write is dispatched, so edits arriving while
// the request is in flight accumulate into a fresh buffer instead of being
// re-sent or dropped.
//
// Failure handling is deliberately asymmetric, matching the appliance's
// original control surface: an automatic flush that fails is logged and the
// captured edits are lost (they were already cleared from the buffer), while
// an explicit ForceFlush returns the error to the caller so the operator
// sees it.
package session
