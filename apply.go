package jsonpatch

import (
	"fmt"
	"slices"
)

// Each helper below takes the node at the current level and the pointer
// remaining from it, and returns the node to store back in the parent.
// Failures are detected before the level that would change is touched, so a
// failed add/remove leaves the document as it was.

func applyAdd(node any, p Pointer, value any) (any, error) {
	return add(node, p, p, value)
}

func add(node any, full, p Pointer, value any) (any, error) {
	head, tail, ok := p.SplitHead()
	if !ok {
		// Adding at the root replaces the whole document.
		return value, nil
	}
	switch n := node.(type) {
	case map[string]any:
		if tail.IsRoot() {
			if n == nil {
				n = map[string]any{}
			}
			n[head] = value
			return n, nil
		}
		child, ok := n[head]
		if !ok {
			return nil, notFound(prefix(full, tail))
		}
		child, err := add(child, full, tail, value)
		if err != nil {
			return nil, err
		}
		n[head] = child
		return n, nil
	case []any:
		idx, err := arrayIndex(len(n), head)
		if err != nil {
			return nil, err
		}
		if tail.IsRoot() {
			if idx > len(n) {
				return nil, fmt.Errorf("%w: add index %q is out of bounds for array of length %d", ErrPathNotFound, head, len(n))
			}
			return slices.Insert(n, idx, value), nil
		}
		if idx >= len(n) {
			return nil, notFound(prefix(full, tail))
		}
		child, err := add(n[idx], full, tail, value)
		if err != nil {
			return nil, err
		}
		n[idx] = child
		return n, nil
	default:
		return nil, notFound(prefix(full, tail))
	}
}

func applyRemove(node any, p Pointer) (any, error) {
	return remove(node, p, p)
}

func remove(node any, full, p Pointer) (any, error) {
	head, tail, ok := p.SplitHead()
	if !ok {
		// Removing the root is a no-op.
		return node, nil
	}
	switch n := node.(type) {
	case map[string]any:
		if tail.IsRoot() {
			// Removing an absent key is not an error.
			delete(n, head)
			return n, nil
		}
		child, ok := n[head]
		if !ok {
			return nil, notFound(prefix(full, tail))
		}
		child, err := remove(child, full, tail)
		if err != nil {
			return nil, err
		}
		n[head] = child
		return n, nil
	case []any:
		idx, err := arrayIndex(len(n), head)
		if err != nil {
			return nil, err
		}
		if idx >= len(n) {
			return nil, notFound(prefix(full, tail))
		}
		if tail.IsRoot() {
			return slices.Delete(n, idx, idx+1), nil
		}
		child, err := remove(n[idx], full, tail)
		if err != nil {
			return nil, err
		}
		n[idx] = child
		return n, nil
	default:
		return nil, notFound(prefix(full, tail))
	}
}

// applyReplace is a remove followed by an add at the same location. The target
// has to exist beforehand.
func applyReplace(document any, p Pointer, value any) (any, error) {
	if _, err := Walk(document, p); err != nil {
		return nil, err
	}
	doc, err := applyRemove(document, p)
	if err != nil {
		return nil, err
	}
	return applyAdd(doc, p, value)
}

func applyMove(document any, from, to Pointer) (any, error) {
	if from.Equal(to) {
		return document, nil
	}
	val, err := Walk(document, from)
	if err != nil {
		return nil, err
	}
	if err := checkMoveTarget(document, from, to); err != nil {
		return nil, err
	}
	val = deepCopy(val)
	doc, err := applyRemove(document, from)
	if err != nil {
		return nil, err
	}
	return applyAdd(doc, to, val)
}

// checkMoveTarget reports the error the add half of a move would fail with,
// judged against the document as it will look once from has been removed.
// from must already resolve.
func checkMoveTarget(document any, from, to Pointer) error {
	if to.IsRoot() {
		return nil
	}
	// Only the container holding from changes. A map loses the key, an array
	// shrinks by one and its later elements move down. Removing the root
	// changes nothing.
	var fromParent Pointer
	var fromLast string
	if !from.IsRoot() {
		fromParent, fromLast = from[:len(from)-1], from[len(from)-1]
	}
	holdsFrom := func(depth int) bool {
		return !from.IsRoot() && depth == len(fromParent) && fromParent.Equal(to[:depth])
	}
	parent := to[:len(to)-1]
	node := document
	for i, tok := range parent {
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[tok]
			if !ok || (holdsFrom(i) && tok == fromLast) {
				return notFound(to[:i+1])
			}
			node = v
		case []any:
			idx, err := arrayIndex(len(n), tok)
			if err != nil {
				return err
			}
			if holdsFrom(i) {
				if removed, _ := arrayIndex(len(n), fromLast); idx >= removed {
					idx++
				}
			}
			if idx >= len(n) {
				return notFound(to[:i+1])
			}
			node = n[idx]
		default:
			return notFound(to[:i+1])
		}
	}
	last := to[len(to)-1]
	switch n := node.(type) {
	case map[string]any:
		return nil
	case []any:
		size := len(n)
		if holdsFrom(len(parent)) {
			size--
		}
		idx, err := arrayIndex(size, last)
		if err != nil {
			return err
		}
		if idx > size {
			return fmt.Errorf("%w: add index %q is out of bounds for array of length %d", ErrPathNotFound, last, size)
		}
		return nil
	default:
		return notFound(parent)
	}
}

func applyCopy(document any, from, to Pointer) (any, error) {
	val, err := Walk(document, from)
	if err != nil {
		return nil, err
	}
	return applyAdd(document, to, deepCopy(val))
}

func applyTest(document any, p Pointer, expected any) error {
	actual, err := Walk(document, p)
	if err != nil {
		return err
	}
	if !Equal(actual, expected) {
		return fmt.Errorf("%w: expected %v, got %v at %q", ErrTestFailed, expected, actual, p.String())
	}
	return nil
}

// prefix returns the part of full consumed once only tail remains.
func prefix(full, tail Pointer) Pointer {
	return full[:len(full)-len(tail)]
}
