package jsonpatch

// EditKind tells whether an ArrayEdit inserts or deletes an element.
type EditKind int

const (
	Addition EditKind = iota
	Removal
)

func (k EditKind) String() string {
	if k == Addition {
		return "addition"
	}
	return "removal"
}

// ArrayEdit is one step of an edit script turning one array into another.
type ArrayEdit struct {
	Kind EditKind
	// Index is where the element is inserted or removed when the script is
	// replayed in order.
	Index int
	// Value is the element inserted (taken from after) or removed (taken from
	// before).
	Value any
}

// DiffArrays computes an insertion/removal edit script between before and
// after from their longest common subsequence.
//
// The script is built backwards from the ends of both arrays toward their
// start and is returned in that order: every edit touches a position no later
// than the previous one, so each Index stays valid while the script is
// replayed front to back. When dropping an element of before and taking one
// of after would keep the same common subsequence length, the addition is
// emitted first.
//
// Time and memory are O(len(before) * len(after)).
func DiffArrays(before, after []any) []ArrayEdit {
	grid := lcsTable(before, after, Equal)
	var edits []ArrayEdit

	i, j := len(before), len(after)
	for i > 0 || j > 0 {
		switch {
		case i == 0:
			edits = append(edits, ArrayEdit{Kind: Addition, Index: i, Value: after[j-1]})
			j--
		case j == 0:
			edits = append(edits, ArrayEdit{Kind: Removal, Index: i - 1, Value: before[i-1]})
			i--
		case Equal(before[i-1], after[j-1]):
			i--
			j--
		case grid[i-1][j] <= grid[i][j-1]:
			edits = append(edits, ArrayEdit{Kind: Addition, Index: i, Value: after[j-1]})
			j--
		default:
			edits = append(edits, ArrayEdit{Kind: Removal, Index: i - 1, Value: before[i-1]})
			i--
		}
	}
	return edits
}

// lcsTable returns the (len(a)+1) x (len(b)+1) table whose cell [i][j] holds
// the length of the longest common subsequence of a[:i] and b[:j].
func lcsTable[T any](a, b []T, eq func(x, y T) bool) [][]int {
	grid := make([][]int, len(a)+1)
	for i := range grid {
		grid[i] = make([]int, len(b)+1)
	}
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if eq(a[i-1], b[j-1]) {
				grid[i][j] = grid[i-1][j-1] + 1
			} else {
				grid[i][j] = max(grid[i-1][j], grid[i][j-1])
			}
		}
	}
	return grid
}
