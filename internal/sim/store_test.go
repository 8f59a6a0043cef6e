package sim

import (
	"testing"

	"github.com/voxtap/voxtap/internal/configtree"
)

func TestStore_GetReturnsCopy(t *testing.T) {
	s := NewStore(nil)

	got := s.Get()
	got.Section(configtree.SectionGeneral)["instance_name"] = "mutated"

	if v, _ := s.Get().Field(configtree.SectionGeneral, "instance_name"); v != "voxtap-sim" {
		t.Errorf("store mutated through Get copy: %v", v)
	}
}

func TestStore_ApplyPatchAccumulates(t *testing.T) {
	s := NewStore(nil)

	s.ApplyPatch(configtree.Set(configtree.SectionBcfy, "api_key", "abc123"))
	merged := s.ApplyPatch(configtree.Set(configtree.SectionBcfy, "enabled", true))

	if v, _ := merged.Field(configtree.SectionBcfy, "api_key"); v != "abc123" {
		t.Errorf("earlier patch lost: %v", v)
	}
	if v, _ := merged.Field(configtree.SectionBcfy, "enabled"); v != true {
		t.Errorf("later patch missing: %v", v)
	}
}

func TestStore_SeedIsCopied(t *testing.T) {
	seed := configtree.Tree{
		configtree.SectionGeneral: map[string]any{"instance_name": "seeded"},
	}
	s := NewStore(seed)

	seed.Section(configtree.SectionGeneral)["instance_name"] = "mutated"

	if v, _ := s.Get().Field(configtree.SectionGeneral, "instance_name"); v != "seeded" {
		t.Errorf("store aliases seed: %v", v)
	}
}
