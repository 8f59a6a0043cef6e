package sim

import (
	"sync"

	"github.com/voxtap/voxtap/internal/configtree"
)

// Store is the simulator's in-memory configuration store. Patches merge
// into it with the same deep-merge semantics the client applies to its own
// pending buffer, so a patched field survives a later patch to a sibling.
type Store struct {
	mu   sync.Mutex
	tree configtree.Tree

	// Saves counts explicit save requests, for inspection in tests.
	saves int
}

// NewStore creates a store seeded with the given tree. A nil seed starts
// from the default simulator configuration.
func NewStore(seed configtree.Tree) *Store {
	if seed == nil {
		seed = DefaultConfig()
	}
	return &Store{tree: seed.Clone()}
}

// Get returns a deep copy of the current configuration.
func (s *Store) Get() configtree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Clone()
}

// ApplyPatch merges a partial write into the store and returns the
// resulting full tree.
func (s *Store) ApplyPatch(patch configtree.Patch) configtree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = configtree.Merge(s.tree, patch)
	return s.tree.Clone()
}

// Save records a save request. The simulator has no config file; the call
// exists so the save endpoint behaves like the real appliance.
func (s *Store) Save() {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
}

// SaveCount returns how many explicit saves have been requested.
func (s *Store) SaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// DefaultConfig returns the configuration a factory-fresh simulator boots
// with. Field names mirror the real appliance's config file.
func DefaultConfig() configtree.Tree {
	return configtree.Tree{
		configtree.SectionGeneral: map[string]any{
			"instance_name": "voxtap-sim",
			"log_level":     "info",
		},
		configtree.SectionAudio: map[string]any{
			"input_device":  0,
			"sample_rate":   22050,
			"sql_threshold": 18,
			"agc_enabled":   true,
		},
		configtree.SectionBcfy: map[string]any{
			"enabled": false,
			"api_key": "",
			"feed_id": 0,
		},
		configtree.SectionRdio: map[string]any{
			"enabled":   false,
			"url":       "",
			"system_id": 0,
			"talkgroup": 0,
		},
		configtree.SectionICad: map[string]any{
			"enabled": false,
			"url":     "",
		},
		configtree.SectionOpenMHz: map[string]any{
			"enabled":    false,
			"api_key":    "",
			"short_name": "",
		},
	}
}
