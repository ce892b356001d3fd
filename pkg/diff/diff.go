package diff

import "github.com/navstack-dev/navstack/pkg/route"

// Kind identifies an edit operation.
type Kind int

const (
	// Keep means the element is value-equal at OldIndex and NewIndex; its
	// existing presentation state must be carried forward, not recreated.
	Keep Kind = iota

	// Delete means the element at OldIndex is only in the previous
	// sequence.
	Delete

	// Insert means the element at NewIndex is only in the current
	// sequence.
	Insert
)

// String returns the operation name.
func (k Kind) String() string {
	switch k {
	case Keep:
		return "keep"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Op is one step of an edit script. OldIndex is set for Keep and Delete
// (-1 otherwise); NewIndex is set for Keep and Insert (-1 otherwise).
// Entry is the previous sequence's element for Keep and Delete and the
// current sequence's element for Insert.
type Op struct {
	Kind     Kind
	OldIndex int
	NewIndex int
	Entry    route.Entry
}

// Script computes the minimal edit script transforming prev into next
// under route.Equal. Neither input is mutated. Operations are emitted in
// left-to-right order over both sequences.
func Script(prev, next []route.Entry) []Op {
	n, m := len(prev), len(next)
	if n == 0 && m == 0 {
		return nil
	}

	trace := shortestEdit(prev, next)
	return backtrack(prev, next, trace)
}

// shortestEdit runs the forward Myers search and returns the per-depth
// frontier snapshots needed to reconstruct the path. v is indexed by
// diagonal k offset by max.
func shortestEdit(prev, next []route.Entry) [][]int {
	n, m := len(prev), len(next)
	max := n + m

	v := make([]int, 2*max+2)
	var trace [][]int

	for d := 0; d <= max; d++ {
		snapshot := make([]int, len(v))
		copy(snapshot, v)
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[max+k-1] < v[max+k+1]) {
				x = v[max+k+1]
			} else {
				x = v[max+k-1] + 1
			}
			y := x - k
			for x < n && y < m && route.Equal(prev[x], next[y]) {
				x++
				y++
			}
			v[max+k] = x

			if x >= n && y >= m {
				return trace
			}
		}
	}
	// Unreachable: the edit distance is at most n+m.
	return trace
}

// backtrack walks the trace from (len(prev), len(next)) back to the origin
// and emits the script in forward order.
func backtrack(prev, next []route.Entry, trace [][]int) []Op {
	n, m := len(prev), len(next)
	max := n + m

	var reversed []Op
	x, y := n, m

	for d := len(trace) - 1; d >= 0; d-- {
		if x == 0 && y == 0 {
			break
		}
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[max+k-1] < v[max+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[max+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			reversed = append(reversed, Op{
				Kind:     Keep,
				OldIndex: x - 1,
				NewIndex: y - 1,
				Entry:    prev[x-1],
			})
			x--
			y--
		}

		if d > 0 {
			if x == prevX+1 && y == prevY {
				reversed = append(reversed, Op{
					Kind:     Delete,
					OldIndex: prevX,
					NewIndex: -1,
					Entry:    prev[prevX],
				})
			} else {
				reversed = append(reversed, Op{
					Kind:     Insert,
					OldIndex: -1,
					NewIndex: prevY,
					Entry:    next[prevY],
				})
			}
			x, y = prevX, prevY
		}
	}

	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	return reversed
}
