package jsonpatch

import (
	"fmt"
	"slices"
	"strconv"
)

// ArrayMode selects how Diff compares two arrays.
type ArrayMode string

const (
	// ArrayByIndex compares elements at equal indices and appends or trims the
	// tail. Inserting near the front of an array yields one operation per
	// shifted element.
	ArrayByIndex ArrayMode = "index"
	// ArrayByLCS emits the insertions and removals of a longest common
	// subsequence edit script (see DiffArrays).
	ArrayByLCS ArrayMode = "lcs"
)

// ParseArrayMode converts a configuration string to an ArrayMode.
func ParseArrayMode(s string) (ArrayMode, error) {
	switch m := ArrayMode(s); m {
	case ArrayByIndex, ArrayByLCS:
		return m, nil
	case "":
		return ArrayByIndex, nil
	default:
		return "", fmt.Errorf("unknown array diff mode %q (want %q or %q)", s, ArrayByIndex, ArrayByLCS)
	}
}

// DiffConfig holds the parameters of a Diff call.
type DiffConfig struct {
	Arrays ArrayMode
}

// DiffOption adjusts a DiffConfig.
type DiffOption func(cfg *DiffConfig)

// OptionArrayMode sets how arrays are compared. The default is ArrayByIndex.
func OptionArrayMode(m ArrayMode) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Arrays = m
	}
}

// Diff computes a patch that turns before into after, so that
// Apply(before, Diff(before, after)) equals after. Equal documents give an
// empty, non-nil patch. Both arguments must be JSON
// trees (see New for other inputs). Values in the patch are copies and share
// nothing with after.
//
// Map members are handled in sorted key order: removals first, then
// additions, then the members present on both sides. Values of different kinds
// are replaced wholesale.
func Diff(before, after any, opts ...DiffOption) Patch {
	cfg := &DiffConfig{Arrays: ArrayByIndex}
	for _, opt := range opts {
		opt(cfg)
	}
	d := &differ{cfg: cfg, patch: Patch{}}
	d.diff(before, after, Pointer{})
	return d.patch
}

// New computes a patch between two arbitrary JSON-marshalable values. []byte
// and json.RawMessage arguments are treated as JSON text.
func New(a, b any, opts ...DiffOption) (Patch, error) {
	na, err := normalize(a)
	if err != nil {
		return nil, err
	}
	nb, err := normalize(b)
	if err != nil {
		return nil, err
	}
	return Diff(na, nb, opts...), nil
}

type differ struct {
	cfg   *DiffConfig
	patch Patch
}

func (d *differ) emit(op Operation) {
	d.patch = append(d.patch, op)
}

func (d *differ) diff(before, after any, at Pointer) {
	if Equal(before, after) {
		return
	}
	switch b := before.(type) {
	case map[string]any:
		if a, ok := after.(map[string]any); ok {
			d.diffMaps(b, a, at)
			return
		}
	case []any:
		if a, ok := after.([]any); ok {
			if d.cfg.Arrays == ArrayByLCS {
				d.diffArraysLCS(b, a, at)
			} else {
				d.diffArrays(b, a, at)
			}
			return
		}
	}
	d.emit(Operation{Op: Replace, Path: at, Value: deepCopy(after)})
}

func (d *differ) diffMaps(before, after map[string]any, at Pointer) {
	var removed, added, shared []string
	for k := range before {
		if _, ok := after[k]; ok {
			shared = append(shared, k)
		} else {
			removed = append(removed, k)
		}
	}
	for k := range after {
		if _, ok := before[k]; !ok {
			added = append(added, k)
		}
	}
	slices.Sort(removed)
	slices.Sort(added)
	slices.Sort(shared)

	for _, k := range removed {
		d.emit(Operation{Op: Remove, Path: at.child(k)})
	}
	for _, k := range added {
		d.emit(Operation{Op: Add, Path: at.child(k), Value: deepCopy(after[k])})
	}
	for _, k := range shared {
		d.diff(before[k], after[k], at.child(k))
	}
}

// diffArrays treats arrays like maps keyed by index. Surplus elements of
// before are removed one by one at len(after), where each removal shifts the
// next one into place.
func (d *differ) diffArrays(before, after []any, at Pointer) {
	shared := min(len(before), len(after))
	for i := 0; i < shared; i++ {
		d.diff(before[i], after[i], at.child(strconv.Itoa(i)))
	}
	if len(before) > len(after) {
		tail := at.child(strconv.Itoa(len(after)))
		for range len(before) - len(after) {
			d.emit(Operation{Op: Remove, Path: tail})
		}
	}
	for i := len(before); i < len(after); i++ {
		d.emit(Operation{Op: Add, Path: at.child(strconv.Itoa(i)), Value: deepCopy(after[i])})
	}
}

func (d *differ) diffArraysLCS(before, after []any, at Pointer) {
	for _, e := range DiffArrays(before, after) {
		p := at.child(strconv.Itoa(e.Index))
		if e.Kind == Removal {
			d.emit(Operation{Op: Remove, Path: p})
		} else {
			d.emit(Operation{Op: Add, Path: p, Value: deepCopy(e.Value)})
		}
	}
}
