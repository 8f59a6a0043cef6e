// Package configtree models the appliance's persisted configuration as a
// nested tree of sections and scalar fields, plus the partial "patch" trees
// used to accumulate unsaved edits.
//
// The appliance stores configuration in independent sections (general, audio,
// and one section per upload destination). A patch carries only touched keys
// and is combined with other patches by Merge, which is copy-on-write: the
// inputs are never mutated, nested maps merge key-wise, and every other value
// (scalars, arrays, nil) replaces the previous value wholesale. The last
// patch applied to a key wins, matching operator intent when the same field
// is edited repeatedly.
//
// Example:
//
//	pending := configtree.Patch{}
//	pending = configtree.Merge(pending, configtree.Patch{
//	    "audio": map[string]any{"record_threshold": 25},
//	})
package configtree
