package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/voxtap/voxtap/internal/appliance"
	"github.com/voxtap/voxtap/internal/configtree"
)

// tickInterval is how often the engine publishes a synthesized telemetry
// snapshot while running.
const tickInterval = 250 * time.Millisecond

// Engine synthesizes telemetry for the simulated appliance. While running
// it wanders an audio level up and down, toggles the RX and REC indicators
// around the squelch threshold, and publishes a full snapshot on every
// tick.
type Engine struct {
	hub *Hub

	mu    sync.Mutex
	state appliance.LiveState
	level float64
	stop  chan struct{}
}

// NewEngine creates a stopped engine publishing to hub.
func NewEngine(hub *Hub) *Engine {
	e := &Engine{hub: hub}
	e.state = appliance.LiveState{
		StatusText:   "Stopped",
		SqlThreshold: 18,
		UpdatedTS:    float64(time.Now().UnixNano()) / 1e9,
	}
	return e
}

// Snapshot returns the current telemetry record.
func (e *Engine) Snapshot() appliance.LiveState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start begins capture. Starting a running engine is a no-op. The resulting
// snapshot is returned and published to subscribers.
func (e *Engine) Start() appliance.LiveState {
	e.mu.Lock()
	if e.state.Running {
		snap := e.state
		e.mu.Unlock()
		return snap
	}
	e.state.Running = true
	e.state.StatusText = "Capturing"
	e.stop = make(chan struct{})
	stop := e.stop
	snap := e.stamp()
	e.mu.Unlock()

	go e.run(stop)
	e.hub.Emit("state", snap)
	return snap
}

// Stop halts capture and zeroes the level readings. Stopping a stopped
// engine is a no-op.
func (e *Engine) Stop() appliance.LiveState {
	e.mu.Lock()
	if !e.state.Running {
		snap := e.state
		e.mu.Unlock()
		return snap
	}
	close(e.stop)
	e.stop = nil
	e.level = 0
	e.state.Running = false
	e.state.StatusText = "Stopped"
	e.state.LedRX = false
	e.state.LedRec = false
	e.state.LevelPct = 0
	e.state.LevelDB = nil
	snap := e.stamp()
	e.mu.Unlock()

	e.hub.Emit("state", snap)
	return snap
}

// ApplyConfig picks up telemetry-relevant settings from a freshly merged
// configuration tree.
func (e *Engine) ApplyConfig(tree configtree.Tree) {
	v, ok := tree.Field(configtree.SectionAudio, "sql_threshold")
	if !ok {
		return
	}
	thr, ok := asInt(v)
	if !ok {
		return
	}
	e.mu.Lock()
	e.state.SqlThreshold = thr
	snap := e.stamp()
	e.mu.Unlock()
	e.hub.Emit("state", snap)
}

func (e *Engine) run(stop chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick wanders the level and derives the indicator state from it.
func (e *Engine) tick() {
	e.mu.Lock()
	e.level += (rand.Float64() - 0.45) * 20
	if e.level < 0 {
		e.level = 0
	}
	if e.level > 100 {
		e.level = 100
	}

	pct := int(e.level)
	db := -60 + e.level*0.6
	open := pct >= e.state.SqlThreshold

	e.state.LevelPct = pct
	e.state.LevelDB = &db
	e.state.LedRX = open
	e.state.LedRec = open && pct >= e.state.SqlThreshold*2
	snap := e.stamp()
	e.mu.Unlock()

	e.hub.Emit("state", snap)
}

// stamp refreshes the snapshot timestamp. Callers must hold e.mu.
func (e *Engine) stamp() appliance.LiveState {
	e.state.UpdatedTS = float64(time.Now().UnixNano()) / 1e9
	return e.state
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
