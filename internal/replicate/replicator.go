package replicate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/logging"
)

// State is a replicator lifecycle state.
type State int

const (
	// Uninitialized is the state before the initial snapshot read.
	Uninitialized State = iota
	// Synced means the initial one-shot read completed.
	Synced
	// Receiving means the push subscription is open.
	Receiving
	// Disconnected means the subscription dropped and a reconnect is pending.
	Disconnected
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Synced:
		return "synced"
	case Receiving:
		return "receiving"
	case Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source provides the initial snapshot read and the push-channel URL.
// *appliance.Client satisfies it.
type Source interface {
	ReadState(ctx context.Context) (*appliance.LiveState, error)
	EventsURL() string
}

// Replicator maintains a current telemetry snapshot via initial pull plus
// SSE push.
type Replicator struct {
	// OnSnapshot receives every complete snapshot, replacing the previous
	// one. Invoked sequentially from the replicator goroutine.
	OnSnapshot func(appliance.LiveState)

	// OnConfig, when set, is invoked for "config" push events announcing
	// out-of-band configuration changes. Nil means the event is ignored.
	OnConfig func(json.RawMessage)

	// OnTransition, when set, observes every state change. Intended for
	// tests and status indicators.
	OnTransition func(from, to State)

	// NewBackoff builds the reconnect policy used after a disconnect. The
	// default is exponential with a 30s cap and no give-up time.
	NewBackoff func() backoff.BackOff

	// HTTPClient is used for the stream connection. It must not have a
	// global timeout (the stream is long-lived); the default has none.
	HTTPClient *http.Client

	source Source
	state  State
}

// New creates a replicator reading from source.
func New(source Source) *Replicator {
	return &Replicator{
		source:     source,
		HTTPClient: &http.Client{},
		NewBackoff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.MaxInterval = 30 * time.Second
			bo.MaxElapsedTime = 0
			return bo
		},
		state: Uninitialized,
	}
}

// Run drives the replicator until ctx is cancelled. The initial read
// failure is logged but not fatal: the subscription still opens and the
// first pushed snapshot catches the display up.
func (r *Replicator) Run(ctx context.Context) error {
	if snap, err := r.source.ReadState(ctx); err != nil {
		logging.Warn("initial state read failed",
			zap.Error(err),
		)
	} else {
		r.apply(*snap)
	}
	r.transition(Synced)

	bo := r.NewBackoff()
	for {
		err := r.stream(ctx, bo.Reset)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.transition(Disconnected)
		logging.Debug("push channel dropped, reconnecting",
			zap.Error(err),
		)

		select {
		case <-time.After(bo.NextBackOff()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// stream opens one subscription and consumes it until it drops. onConnected
// fires once the subscription is established, resetting the backoff clock.
func (r *Replicator) stream(ctx context.Context, onConnected func()) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.source.EventsURL(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push channel returned status %d", resp.StatusCode)
	}

	r.transition(Receiving)
	onConnected()
	return readEvents(resp.Body, r.dispatch)
}

// dispatch routes one push event. Parse failures are swallowed: a bad
// message must not break the subscription or affect the next message.
func (r *Replicator) dispatch(ev event) {
	switch ev.name {
	case "state":
		var snap appliance.LiveState
		if err := json.Unmarshal([]byte(ev.data), &snap); err != nil {
			logging.Debug("dropping malformed state event",
				zap.Error(err),
			)
			return
		}
		r.apply(snap)
	case "config":
		if r.OnConfig != nil {
			r.OnConfig(json.RawMessage(ev.data))
		}
	}
}

// apply replaces the displayed snapshot wholesale.
func (r *Replicator) apply(snap appliance.LiveState) {
	if r.OnSnapshot != nil {
		r.OnSnapshot(snap)
	}
}

func (r *Replicator) transition(to State) {
	if r.state == to {
		return
	}
	from := r.state
	r.state = to
	if r.OnTransition != nil {
		r.OnTransition(from, to)
	}
}
