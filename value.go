package jsonpatch

import (
	"encoding/json"
	"fmt"
)

// Equal reports whether two JSON values are structurally equal. Numbers are
// compared by value regardless of their Go type, so int 1 equals float64 1.
// Map key order is irrelevant; array order is significant.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// deepCopy copies the containers of a JSON tree. Scalars are immutable and
// returned as is.
func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		dst := make(map[string]any, len(val))
		for k, e := range val {
			dst[k] = deepCopy(e)
		}
		return dst
	case []any:
		dst := make([]any, len(val))
		for i, e := range val {
			dst[i] = deepCopy(e)
		}
		return dst
	default:
		return val
	}
}

// normalize turns an arbitrary Go value into a JSON tree that shares nothing
// with v. Trees are deep-copied; JSON text ([]byte, json.RawMessage) is
// decoded; anything else goes through a json marshal round-trip.
func normalize(v any) (any, error) {
	var data []byte
	switch val := v.(type) {
	case json.RawMessage:
		data = val
	case []byte:
		data = val
	default:
		if isTree(v) {
			return deepCopy(v), nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal document: %w", err)
		}
		data = b
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return out, nil
}

// isTree reports whether v is already made only of the types encoding/json
// produces when decoding into any.
func isTree(v any) bool {
	switch val := v.(type) {
	case nil, bool, string, float64, json.Number:
		return true
	case []any:
		for _, e := range val {
			if !isTree(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range val {
			if !isTree(e) {
				return false
			}
		}
		return true
	}
	return false
}
