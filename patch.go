package jsonpatch

import (
	"encoding/json"
	"fmt"
	"io"
)

// Op represents JSON Patch operation types
type Op string

const (
	Add     Op = "add"
	Remove  Op = "remove"
	Replace Op = "replace"
	Move    Op = "move"
	Copy    Op = "copy"
	Test    Op = "test"
)

// Operation represents a single JSON Patch operation. From is only meaningful
// for move and copy, Value only for add, replace and test.
type Operation struct {
	Op    Op
	Path  Pointer
	From  Pointer
	Value any
}

// Patch represents a collection of JSON Patch operations
type Patch []Operation

// NewAdd returns an add operation for the escaped pointer path.
func NewAdd(path string, value any) (Operation, error) {
	return newValueOp(Add, path, value)
}

// NewRemove returns a remove operation for the escaped pointer path.
func NewRemove(path string) (Operation, error) {
	p, err := Parse(path)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Op: Remove, Path: p}, nil
}

// NewReplace returns a replace operation for the escaped pointer path.
func NewReplace(path string, value any) (Operation, error) {
	return newValueOp(Replace, path, value)
}

// NewMove returns an operation moving the value at from to path.
func NewMove(from, path string) (Operation, error) {
	return newFromOp(Move, from, path)
}

// NewCopy returns an operation copying the value at from to path.
func NewCopy(from, path string) (Operation, error) {
	return newFromOp(Copy, from, path)
}

// NewTest returns an operation checking that path holds value.
func NewTest(path string, value any) (Operation, error) {
	return newValueOp(Test, path, value)
}

func newValueOp(op Op, path string, value any) (Operation, error) {
	p, err := Parse(path)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Op: op, Path: p, Value: value}, nil
}

func newFromOp(op Op, from, path string) (Operation, error) {
	f, err := Parse(from)
	if err != nil {
		return Operation{}, err
	}
	p, err := Parse(path)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Op: op, Path: p, From: f}, nil
}

func (o Operation) String() string {
	switch o.Op {
	case Move, Copy:
		return fmt.Sprintf("%s %q -> %q", o.Op, o.From.String(), o.Path.String())
	case Remove:
		return fmt.Sprintf("%s %q", o.Op, o.Path.String())
	default:
		return fmt.Sprintf("%s %q %v", o.Op, o.Path.String(), o.Value)
	}
}

// wireOperation is the RFC 6902 object form of an Operation.
type wireOperation struct {
	Op    Op              `json:"op"`
	Path  *string         `json:"path,omitempty"`
	From  *string         `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON writes op and path, from for move/copy and value for
// add/replace/test. A nil value is written as null rather than omitted.
func (o Operation) MarshalJSON() ([]byte, error) {
	path := o.Path.String()
	w := wireOperation{Op: o.Op, Path: &path}
	switch o.Op {
	case Move, Copy:
		from := o.From.String()
		w.From = &from
	case Add, Replace, Test:
		v, err := json.Marshal(o.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal value for %s %q: %w", o.Op, path, err)
		}
		w.Value = v
	case Remove:
	default:
		return nil, fmt.Errorf("%w: unsupported patch operation: %s", ErrInvalidOperation, o.Op)
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads an RFC 6902 operation object and checks that the members
// its op requires are present.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var w wireOperation
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Op {
	case Add, Remove, Replace, Move, Copy, Test:
	case "":
		return fmt.Errorf("%w: missing op", ErrInvalidOperation)
	default:
		return fmt.Errorf("%w: unsupported patch operation: %s", ErrInvalidOperation, w.Op)
	}
	if w.Path == nil {
		return fmt.Errorf("%w: %s is missing path", ErrInvalidOperation, w.Op)
	}
	path, err := Parse(*w.Path)
	if err != nil {
		return err
	}
	out := Operation{Op: w.Op, Path: path}

	switch w.Op {
	case Move, Copy:
		if w.From == nil {
			return fmt.Errorf("%w: %s is missing from", ErrInvalidOperation, w.Op)
		}
		if out.From, err = Parse(*w.From); err != nil {
			return err
		}
	case Add, Replace, Test:
		if len(w.Value) == 0 {
			return fmt.Errorf("%w: %s is missing value", ErrInvalidOperation, w.Op)
		}
		if err := json.Unmarshal(w.Value, &out.Value); err != nil {
			return fmt.Errorf("failed to unmarshal value: %w", err)
		}
	}
	*o = out
	return nil
}

// DecodePatch parses a JSON array of operations.
func DecodePatch(data []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode patch: %w", err)
	}
	return p, nil
}

// Apply applies a series of JSON Patch operations to a document, returning a new
// modified document. The original document is not changed.
func Apply(document any, patch Patch) (any, error) {
	result, err := normalize(document)
	if err != nil {
		return nil, err
	}
	return ApplyInPlace(result, patch)
}

// ApplyInPlace applies a series of JSON Patch operations to a document in-place.
// Operations run in order and the first failure stops the sequence; earlier
// operations are not rolled back.
// WARNING: This function modifies the input document, which must be discarded
// if an error is returned.
func ApplyInPlace(document any, patch Patch) (any, error) {
	for i, op := range patch {
		var err error
		document, err = ApplyOperation(document, op)
		if err != nil {
			return nil, fmt.Errorf("patch operation %d (%s) failed: %w", i, op.Op, err)
		}
	}

	return document, nil
}

// ApplyOperation applies a single operation to document in place and returns
// the resulting document.
func ApplyOperation(document any, op Operation) (any, error) {
	switch op.Op {
	case Add:
		return applyAdd(document, op.Path, deepCopy(op.Value))
	case Remove:
		return applyRemove(document, op.Path)
	case Replace:
		return applyReplace(document, op.Path, deepCopy(op.Value))
	case Move:
		return applyMove(document, op.From, op.Path)
	case Copy:
		return applyCopy(document, op.From, op.Path)
	case Test:
		if err := applyTest(document, op.Path, op.Value); err != nil {
			return nil, err
		}
		return document, nil
	default:
		return nil, fmt.Errorf("%w: unsupported patch operation: %s", ErrInvalidOperation, op.Op)
	}
}

// ApplyStream applies a series of JSON Patch operations from a reader to a writer.
// This is more memory-efficient for large documents than Apply, as it avoids
// marshalling the intermediate document to a byte slice.
func ApplyStream(reader io.Reader, writer io.Writer, patch Patch) error {
	var doc any
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}

	modifiedDoc, err := ApplyInPlace(doc, patch)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(writer)
	return encoder.Encode(modifiedDoc)
}
