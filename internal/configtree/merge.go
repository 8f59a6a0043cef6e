package configtree

// Merge combines incoming into base and returns a new tree. Neither input is
// mutated (copy-on-write at every level touched).
//
// For each key in incoming:
//   - a map value merges recursively with the base value at that key (an
//     absent or non-map base value is treated as an empty map)
//   - any other value (scalar, array, nil) replaces the base value wholesale
//
// Keys present only in base are preserved. Merge is right-biased: when both
// trees set the same leaf, incoming wins. Re-applying the same patch is a
// no-op, and patches over disjoint keys commute.
func Merge(base, incoming Patch) Patch {
	return Patch(mergeMaps(base, incoming))
}

func mergeMaps(base, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(incoming))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range incoming {
		inMap, inIsMap := v.(map[string]any)
		if !inIsMap {
			// Scalars, arrays, and nils replace wholesale.
			out[k] = v
			continue
		}
		baseMap, _ := out[k].(map[string]any)
		out[k] = mergeMaps(baseMap, inMap)
	}
	return out
}
