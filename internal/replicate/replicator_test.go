package replicate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/voxtap/voxtap/internal/appliance"
)

type fakeSource struct {
	url  string
	snap appliance.LiveState
	err  error
}

func (f *fakeSource) ReadState(ctx context.Context) (*appliance.LiveState, error) {
	if f.err != nil {
		return nil, f.err
	}
	snap := f.snap
	return &snap, nil
}

func (f *fakeSource) EventsURL() string { return f.url }

// sseServer serves a fixed sequence of raw SSE payloads, one connection per
// entry, closing the connection after each payload is written.
func sseServer(t *testing.T, payloads ...string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	conn := new(atomic.Int32)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(conn.Add(1)) - 1

		w.Header().Set("Content-Type", "text/event-stream")
		if i < len(payloads) {
			_, _ = fmt.Fprint(w, payloads[i])
			w.(http.Flusher).Flush()
		}
		// Closing the handler drops the connection; later connections
		// past the payload list block until the client goes away.
		if i >= len(payloads)-1 {
			<-r.Context().Done()
		}
	}))
	return server, conn
}

func constantBackoff() backoff.BackOff {
	return backoff.NewConstantBackOff(5 * time.Millisecond)
}

func stateEvent(snap appliance.LiveState) string {
	data, _ := json.Marshal(snap)
	return fmt.Sprintf("event: state\ndata: %s\n\n", data)
}

func TestRun_InitialReadThenStream(t *testing.T) {
	pushed := appliance.LiveState{Running: true, StatusText: "RECORDING", LedRec: true, LevelPct: 80}
	server, _ := sseServer(t, stateEvent(pushed))
	defer server.Close()

	src := &fakeSource{
		url:  server.URL,
		snap: appliance.LiveState{Running: true, StatusText: "LISTENING", LevelPct: 10},
	}

	r := New(src)
	r.NewBackoff = constantBackoff
	snaps := make(chan appliance.LiveState, 8)
	r.OnSnapshot = func(s appliance.LiveState) { snaps <- s }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	first := waitSnap(t, snaps)
	if first.StatusText != "LISTENING" {
		t.Errorf("first snapshot = %+v, want the initial read", first)
	}

	second := waitSnap(t, snaps)
	if second != pushed {
		t.Errorf("pushed snapshot = %+v, want %+v (wholesale replace)", second, pushed)
	}
}

func TestRun_MalformedEventDoesNotBreakStream(t *testing.T) {
	good := appliance.LiveState{StatusText: "STANDBY", SqlThreshold: 75}
	payload := "event: state\ndata: {not json\n\n" + stateEvent(good)
	server, _ := sseServer(t, payload)
	defer server.Close()

	src := &fakeSource{url: server.URL, err: fmt.Errorf("state endpoint down")}
	r := New(src)
	r.NewBackoff = constantBackoff
	snaps := make(chan appliance.LiveState, 8)
	r.OnSnapshot = func(s appliance.LiveState) { snaps <- s }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	got := waitSnap(t, snaps)
	if got != good {
		t.Errorf("snapshot after malformed event = %+v, want %+v", got, good)
	}
}

func TestRun_ConfigEventInvokesHook(t *testing.T) {
	payload := "event: config\ndata: {\"changed\":[\"audio\"]}\n\n"
	server, _ := sseServer(t, payload)
	defer server.Close()

	src := &fakeSource{url: server.URL}
	r := New(src)
	r.NewBackoff = constantBackoff

	configs := make(chan json.RawMessage, 1)
	r.OnConfig = func(raw json.RawMessage) { configs <- raw }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	select {
	case raw := <-configs:
		var body struct {
			Changed []string `json:"changed"`
		}
		if err := json.Unmarshal(raw, &body); err != nil || len(body.Changed) != 1 {
			t.Errorf("config payload = %s", raw)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnConfig was not invoked")
	}
}

func TestRun_ReconnectsAfterDisconnect(t *testing.T) {
	after := appliance.LiveState{StatusText: "BACK", LevelPct: 5}
	// First connection delivers nothing and drops; second delivers a state.
	server, conns := sseServer(t, "", stateEvent(after))
	defer server.Close()

	src := &fakeSource{url: server.URL}
	r := New(src)
	r.NewBackoff = constantBackoff

	snaps := make(chan appliance.LiveState, 8)
	r.OnSnapshot = func(s appliance.LiveState) { snaps <- s }

	var mu sync.Mutex
	var transitions []State
	r.OnTransition = func(from, to State) {
		mu.Lock()
		transitions = append(transitions, to)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = r.Run(ctx) }()

	// initial read snapshot, then the post-reconnect one
	_ = waitSnap(t, snaps)
	got := waitSnap(t, snaps)
	if got != after {
		t.Errorf("post-reconnect snapshot = %+v, want %+v", got, after)
	}
	if conns.Load() < 2 {
		t.Errorf("connections = %d, want at least 2", conns.Load())
	}

	mu.Lock()
	defer mu.Unlock()
	want := []State{Synced, Receiving, Disconnected, Receiving}
	if len(transitions) < len(want) {
		t.Fatalf("transitions = %v, want at least %v", transitions, want)
	}
	for i, s := range want {
		if transitions[i] != s {
			t.Errorf("transition[%d] = %v, want %v", i, transitions[i], s)
		}
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	server, _ := sseServer(t, "")
	defer server.Close()

	src := &fakeSource{url: server.URL}
	r := New(src)
	r.NewBackoff = constantBackoff

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after cancel")
	}
}

func waitSnap(t *testing.T, ch <-chan appliance.LiveState) appliance.LiveState {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return appliance.LiveState{}
	}
}
