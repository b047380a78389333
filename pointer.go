package jsonpatch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentflare-ai/jsonpointer"
)

// Pointer is a parsed JSON Pointer (RFC 6901). Each element is an unescaped
// reference token. The zero value (no tokens) points at the document root.
type Pointer []string

// Parse parses an escaped JSON Pointer string.
//
// The empty string is the root. Any other pointer must begin with "/". Empty
// tokens ("/", "//a", "/a/") are valid and address the empty-string key.
func Parse(s string) (Pointer, error) {
	p, err := jsonpointer.New(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPath, s, err)
	}
	return Pointer(p), nil
}

// Unescape decodes a single reference token. "~1" is replaced before "~0" so
// that "~01" decodes to "~1". Unlike Parse it does not reject stray '~'.
func Unescape(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}

// Escape encodes a single reference token, reversing Unescape.
func Escape(tok string) string {
	return jsonpointer.Pointer{tok}.String()[1:]
}

// IsRoot reports whether p addresses the whole document.
func (p Pointer) IsRoot() bool {
	return len(p) == 0
}

// String returns the escaped form of p. The root is the empty string.
func (p Pointer) String() string {
	return jsonpointer.Pointer(p).String()
}

// Join parses escaped as the text following a '/' and appends the resulting
// tokens to a copy of p. Pass Escape(key) to append a raw key as one token.
func (p Pointer) Join(escaped string) (Pointer, error) {
	tail, err := Parse("/" + escaped)
	if err != nil {
		return nil, err
	}
	out := make(Pointer, 0, len(p)+len(tail))
	out = append(out, p...)
	return append(out, tail...), nil
}

// child appends one raw token. It is the infallible form of Join(Escape(tok)).
func (p Pointer) child(tok string) Pointer {
	out := make(Pointer, len(p), len(p)+1)
	copy(out, p)
	return append(out, tok)
}

// SplitHead detaches the first token. ok is false for the root.
func (p Pointer) SplitHead() (head string, tail Pointer, ok bool) {
	if len(p) == 0 {
		return "", nil, false
	}
	return p[0], p[1:], true
}

// Equal reports whether p and o address the same location.
func (p Pointer) Equal(o Pointer) bool {
	return slices.Equal(p, o)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pointer) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pointer) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
