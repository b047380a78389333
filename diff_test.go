package jsonpatch

import (
	"encoding/json"
	"testing"

	evanphx "github.com/evanphx/json-patch/v5"
	"github.com/google/go-cmp/cmp"
)

func exampleDocs(t *testing.T) []any {
	t.Helper()
	var docs []any
	for _, s := range []string{
		`123`,
		`"hello"`,
		`true`,
		`null`,
		`{"hello": "world", "deeper": [1, 2, 3]}`,
		`{"hello": "world", "deeper": {"a": "b"}}`,
		`[1, 2, 3, 4, 5]`,
		`[2, 1, 4, 3, 5]`,
		`[1, 2, {"hello": "world"}]`,
		`[[[[[[[1]]]]]]]`,
		`[[[[[[[1, 2]]]]]]]`,
		`[[[1], {"1": "2"}]]`,
		`{"name": "foobar", "age": 12, "pets": ["tom", "dick", "harry"]}`,
		`{"a/b": {"~": [1]}, "z": 0}`,
		`{"a/b": {"~": [2, 1]}, "c": {}}`,
	} {
		docs = append(docs, mustUnmarshal(t, s))
	}
	return docs
}

var arrayModes = []ArrayMode{ArrayByIndex, ArrayByLCS}

func TestDiffRoundTrip(t *testing.T) {
	docs := exampleDocs(t)
	for _, mode := range arrayModes {
		t.Run(string(mode), func(t *testing.T) {
			for i, before := range docs {
				for j, after := range docs {
					patch := Diff(before, after, OptionArrayMode(mode))
					got, err := Apply(before, patch)
					if err != nil {
						t.Fatalf("docs[%d] -> docs[%d]: Apply() error: %v\npatch: %v", i, j, err, patch)
					}
					if !Equal(got, after) {
						t.Errorf("docs[%d] -> docs[%d]: Apply(Diff) = %v, want %v\npatch: %v", i, j, got, after, patch)
					}
				}
			}
		})
	}
}

func TestDiffIdentical(t *testing.T) {
	for _, doc := range exampleDocs(t) {
		for _, mode := range arrayModes {
			if patch := Diff(doc, doc, OptionArrayMode(mode)); len(patch) != 0 {
				t.Errorf("Diff(%v, %v) = %v, want empty", doc, doc, patch)
			}
		}
	}
	if patch := Diff(map[string]any{"n": 1}, map[string]any{"n": 1.0}); len(patch) != 0 {
		t.Errorf("numerically equal values produced %v", patch)
	}
	raw, err := json.Marshal(Diff(123.0, 123.0))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "[]" {
		t.Errorf("empty patch marshals to %s, want []", raw)
	}
}

func TestDiffOperations(t *testing.T) {
	testCases := []struct {
		name   string
		before string
		after  string
		mode   ArrayMode
		want   Patch
	}{
		{
			name:   "add member",
			before: `{}`,
			after:  `{"hello": "world"}`,
			want:   Patch{{Op: Add, Path: Pointer{"hello"}, Value: "world"}},
		},
		{
			name:   "add members sorted",
			before: `{}`,
			after:  `{"hello": "world", "foo": "bar"}`,
			want: Patch{
				{Op: Add, Path: Pointer{"foo"}, Value: "bar"},
				{Op: Add, Path: Pointer{"hello"}, Value: "world"},
			},
		},
		{
			name:   "remove member",
			before: `{"hello": "world", "foo": "bar"}`,
			after:  `{"hello": "world"}`,
			want:   Patch{{Op: Remove, Path: Pointer{"foo"}}},
		},
		{
			name:   "remove members sorted",
			before: `{"hello": "world", "foo": "bar"}`,
			after:  `{}`,
			want: Patch{
				{Op: Remove, Path: Pointer{"foo"}},
				{Op: Remove, Path: Pointer{"hello"}},
			},
		},
		{
			name:   "replace scalar",
			before: `{"hello": "world"}`,
			after:  `{"hello": "bar"}`,
			want:   Patch{{Op: Replace, Path: Pointer{"hello"}, Value: "bar"}},
		},
		{
			name:   "removals before additions before nested",
			before: `{"a": 1, "m": {"x": 1}, "z": 1}`,
			after:  `{"b": 2, "m": {"x": 2}, "y": 2}`,
			want: Patch{
				{Op: Remove, Path: Pointer{"a"}},
				{Op: Remove, Path: Pointer{"z"}},
				{Op: Add, Path: Pointer{"b"}, Value: 2.0},
				{Op: Add, Path: Pointer{"y"}, Value: 2.0},
				{Op: Replace, Path: Pointer{"m", "x"}, Value: 2.0},
			},
		},
		{
			name:   "kind change",
			before: `{"a": [1]}`,
			after:  `{"a": {"0": 1}}`,
			want:   Patch{{Op: Replace, Path: Pointer{"a"}, Value: map[string]any{"0": 1.0}}},
		},
		{
			name:   "root replace",
			before: `[1]`,
			after:  `"x"`,
			want:   Patch{{Op: Replace, Path: Pointer{}, Value: "x"}},
		},
		{
			name:   "escaped keys",
			before: `{"a/b": {"~x": 1}}`,
			after:  `{"a/b": {"~x": 2}}`,
			want:   Patch{{Op: Replace, Path: Pointer{"a/b", "~x"}, Value: 2.0}},
		},
		{
			name:   "positional shrink",
			before: `[1, 2, 3]`,
			after:  `[1]`,
			want: Patch{
				{Op: Remove, Path: Pointer{"1"}},
				{Op: Remove, Path: Pointer{"1"}},
			},
		},
		{
			name:   "positional grow",
			before: `[1]`,
			after:  `[1, 2, 3]`,
			want: Patch{
				{Op: Add, Path: Pointer{"1"}, Value: 2.0},
				{Op: Add, Path: Pointer{"2"}, Value: 3.0},
			},
		},
		{
			name:   "positional nested",
			before: `[[1], 5]`,
			after:  `[[2]]`,
			want: Patch{
				{Op: Replace, Path: Pointer{"0", "0"}, Value: 2.0},
				{Op: Remove, Path: Pointer{"1"}},
			},
		},
		{
			name:   "positional insert at front",
			before: `[1, 2]`,
			after:  `[0, 1, 2]`,
			want: Patch{
				{Op: Replace, Path: Pointer{"0"}, Value: 0.0},
				{Op: Replace, Path: Pointer{"1"}, Value: 1.0},
				{Op: Add, Path: Pointer{"2"}, Value: 2.0},
			},
		},
		{
			name:   "lcs insert at front",
			before: `[1, 2]`,
			after:  `[0, 1, 2]`,
			mode:   ArrayByLCS,
			want:   Patch{{Op: Add, Path: Pointer{"0"}, Value: 0.0}},
		},
		{
			name:   "lcs removal",
			before: `{"list": [1, 2]}`,
			after:  `{"list": [1]}`,
			mode:   ArrayByLCS,
			want:   Patch{{Op: Remove, Path: Pointer{"list", "1"}}},
		},
		{
			name:   "lcs swap",
			before: `["a"]`,
			after:  `["b"]`,
			mode:   ArrayByLCS,
			want: Patch{
				{Op: Add, Path: Pointer{"1"}, Value: "b"},
				{Op: Remove, Path: Pointer{"0"}},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var opts []DiffOption
			if tc.mode != "" {
				opts = append(opts, OptionArrayMode(tc.mode))
			}
			got := Diff(mustUnmarshal(t, tc.before), mustUnmarshal(t, tc.after), opts...)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Diff() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffValuesAreCopies(t *testing.T) {
	after := mustUnmarshal(t, `{"a": {"b": [1]}}`)
	patch := Diff(map[string]any{}, after)
	if len(patch) != 1 {
		t.Fatalf("Diff() = %v, want one operation", patch)
	}
	after.(map[string]any)["a"].(map[string]any)["b"].([]any)[0] = 99.0
	if diff := cmp.Diff(map[string]any{"b": []any{1.0}}, patch[0].Value); diff != "" {
		t.Errorf("patch value changed with after (-want +got):\n%s", diff)
	}
}

func TestParseArrayMode(t *testing.T) {
	for in, want := range map[string]ArrayMode{"": ArrayByIndex, "index": ArrayByIndex, "lcs": ArrayByLCS} {
		got, err := ParseArrayMode(in)
		if err != nil || got != want {
			t.Errorf("ParseArrayMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseArrayMode("myers"); err == nil {
		t.Errorf("ParseArrayMode(myers) expected error")
	}
}

// Patches produced by Diff are plain RFC 6902 and must mean the same thing to
// another implementation. evanphx only patches object and array documents.
func TestDiffAppliesWithEvanphx(t *testing.T) {
	docs := exampleDocs(t)
	for _, mode := range arrayModes {
		for i, before := range docs {
			switch before.(type) {
			case map[string]any, []any:
			default:
				continue
			}
			for j, after := range docs {
				patch := Diff(before, after, OptionArrayMode(mode))
				if len(patch) == 0 || touchesRoot(patch) {
					continue
				}
				raw, err := json.Marshal(patch)
				if err != nil {
					t.Fatal(err)
				}
				decoded, err := evanphx.DecodePatch(raw)
				if err != nil {
					t.Fatalf("evanphx.DecodePatch(%s): %v", raw, err)
				}
				doc, err := json.Marshal(before)
				if err != nil {
					t.Fatal(err)
				}
				out, err := decoded.Apply(doc)
				if err != nil {
					t.Fatalf("%s docs[%d] -> docs[%d]: evanphx Apply(%s): %v", mode, i, j, raw, err)
				}
				if got := mustUnmarshal(t, string(out)); !Equal(got, after) {
					t.Errorf("%s docs[%d] -> docs[%d]: evanphx result %s, want %v", mode, i, j, out, after)
				}
			}
		}
	}
}

func touchesRoot(p Patch) bool {
	for _, op := range p {
		if op.Path.IsRoot() {
			return true
		}
	}
	return false
}
