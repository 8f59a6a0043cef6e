package configtree

import (
	"reflect"
	"testing"
)

func TestMerge_IdentityWithEmptyPatch(t *testing.T) {
	base := Tree{
		"audio":   map[string]any{"record_threshold": 75, "device": "hw:1"},
		"general": map[string]any{"archive": true},
	}

	got := Merge(base, Patch{})

	if !reflect.DeepEqual(got, base) {
		t.Errorf("Merge(base, empty) = %v, want %v", got, base)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	base := Tree{"audio": map[string]any{"record_threshold": 75}}
	patch := Patch{"audio": map[string]any{"record_threshold": 20, "gain": 3}}

	once := Merge(base, patch)
	twice := Merge(once, patch)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-applying the same patch changed the result: %v vs %v", once, twice)
	}
}

func TestMerge_RightBias(t *testing.T) {
	got := Merge(
		Tree{"a": map[string]any{"x": 1}},
		Patch{"a": map[string]any{"x": 2}},
	)
	want := Tree{"a": map[string]any{"x": 2}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestMerge_NestedSiblingsPreserved(t *testing.T) {
	got := Merge(
		Tree{"a": map[string]any{"x": 1, "y": 1}},
		Patch{"a": map[string]any{"y": 2}},
	)
	want := Tree{"a": map[string]any{"x": 1, "y": 2}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestMerge_ArraysReplaceWholesale(t *testing.T) {
	got := Merge(
		Tree{"a": []any{1, 2}},
		Patch{"a": []any{3}},
	)
	want := Tree{"a": []any{3}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v (arrays must not merge element-wise)", got, want)
	}
}

func TestMerge_DisjointPatchesCommute(t *testing.T) {
	base := Tree{"general": map[string]any{"archive": false}}
	p1 := Patch{"audio": map[string]any{"record_threshold": 20}}
	p2 := Patch{"openmhz": map[string]any{"enabled": true}}

	ab := Merge(Merge(base, p1), p2)
	ba := Merge(Merge(base, p2), p1)

	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("disjoint patches did not commute: %v vs %v", ab, ba)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Tree{"audio": map[string]any{"record_threshold": 75}}
	patch := Patch{"audio": map[string]any{"record_threshold": 20}}

	_ = Merge(base, patch)

	if base["audio"].(map[string]any)["record_threshold"] != 75 {
		t.Error("Merge mutated base")
	}
	if patch["audio"].(map[string]any)["record_threshold"] != 20 {
		t.Error("Merge mutated incoming patch")
	}
}

func TestMerge_MissingBaseSectionTreatedAsEmpty(t *testing.T) {
	got := Merge(
		Tree{},
		Patch{"rdio": map[string]any{"api_key": "abc"}},
	)
	want := Tree{"rdio": map[string]any{"api_key": "abc"}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %v, want %v", got, want)
	}
}

func TestMerge_NilReplacesValue(t *testing.T) {
	got := Merge(
		Tree{"audio": map[string]any{"device": "hw:1"}},
		Patch{"audio": map[string]any{"device": nil}},
	)

	v, ok := got.Field("audio", "device")
	if !ok || v != nil {
		t.Errorf("nil should replace the existing value, got %v (present=%v)", v, ok)
	}
}

func TestMerge_SequentialEditsLastWins(t *testing.T) {
	// Three rapid slider edits to the same field: the buffer must end up
	// holding only the most recent value.
	pending := Patch{}
	for _, v := range []int{10, 20, 25} {
		pending = Merge(pending, Set("audio", "record_threshold", v))
	}

	v, _ := pending.Field("audio", "record_threshold")
	if v != 25 {
		t.Errorf("record_threshold = %v, want 25", v)
	}
}
