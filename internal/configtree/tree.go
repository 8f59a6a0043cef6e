package configtree

// Known configuration section names used by the appliance.
const (
	SectionGeneral = "general"
	SectionAudio   = "audio"
	SectionBcfy    = "bcfy"
	SectionRdio    = "rdio"
	SectionICad    = "icad_dispatch"
	SectionOpenMHz = "openmhz"
)

// Sections lists every known section in display order.
var Sections = []string{
	SectionGeneral,
	SectionAudio,
	SectionBcfy,
	SectionRdio,
	SectionICad,
	SectionOpenMHz,
}

// Tree is a full configuration: section name -> field name -> scalar value.
// Values inside a section are opaque scalars (strings, numbers, booleans);
// an array-shaped value is still treated as a single scalar by Merge.
type Tree map[string]any

// Patch is a partial Tree carrying only touched sections and fields.
type Patch = Tree

// Section returns the named section as a field map. A missing or
// wrongly-typed section reads as empty, never as an error.
func (t Tree) Section(name string) map[string]any {
	if t == nil {
		return map[string]any{}
	}
	if sec, ok := t[name].(map[string]any); ok {
		return sec
	}
	return map[string]any{}
}

// Field returns a single field from a section, with ok reporting whether it
// was present.
func (t Tree) Field(section, field string) (any, bool) {
	v, ok := t.Section(section)[field]
	return v, ok
}

// Set returns a single-field patch for the given section and field.
func Set(section, field string, value any) Patch {
	return Patch{section: map[string]any{field: value}}
}

// IsEmpty reports whether the tree carries no sections.
func (t Tree) IsEmpty() bool {
	return len(t) == 0
}

// Clone returns a deep copy of the tree. Nested maps are copied at every
// level; scalar values (arrays included) are shared, since Merge never
// mutates them in place.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	return Tree(cloneMap(t))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneMap(nested)
		} else {
			out[k] = v
		}
	}
	return out
}
