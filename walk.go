package jsonpatch

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/agentflare-ai/jsonpointer"
)

// Walk returns the value p addresses inside document. Maps and slices are
// returned by reference, so the result must not be modified if the document
// is still in use.
func Walk(document any, p Pointer) (any, error) {
	node, rest := document, p
	for {
		head, tail, ok := rest.SplitHead()
		if !ok {
			return node, nil
		}
		at := p[:len(p)-len(tail)]
		switch n := node.(type) {
		case map[string]any:
			v, ok := n[head]
			if !ok {
				return nil, notFound(at)
			}
			node = v
		case []any:
			idx, err := arrayIndex(len(n), head)
			if err != nil {
				return nil, err
			}
			if idx >= len(n) {
				return nil, notFound(at)
			}
			node = n[idx]
		default:
			return nil, notFound(at)
		}
		rest = tail
	}
}

// Get parses path and walks document with it.
func Get(document any, path string) (any, error) {
	p, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return Walk(document, p)
}

// arrayIndex resolves tok against an array of length n. "-" resolves to n,
// one past the last element; callers decide whether that is acceptable. An
// index too large to represent resolves past the end rather than failing.
func arrayIndex(n int, tok string) (int, error) {
	if tok == "-" {
		return n, nil
	}
	idx, err := jsonpointer.ParseArrayIndex(tok)
	if errors.Is(err, strconv.ErrRange) || (err == nil && idx > uint64(n)) {
		return n + 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: expected array index, got %q", ErrInvalidPath, tok)
	}
	return int(idx), nil
}

func notFound(p Pointer) error {
	return fmt.Errorf("%w: %q", ErrPathNotFound, p.String())
}
