// Package bench drives an end-to-end run of the system: encode a random
// payload, place it, enumerate failure combinations up to a configurable
// size, and plan/execute repair for each, reporting aggregate success rate
// and timing. This generalizes original_source/main.cpp's benchmark driver,
// which enumerates literal singles/pairs(cap 2000)/triples(cap 3000); here
// the set size and the per-size cap are both configurable instead of fixed.
package bench

// Enumerate returns the subsets of {0, ..., dataBlocks-1} of size 1 up to
// maxSetSize, in increasing size order. A positive capPerSize keeps only the
// first capPerSize subsets of each size (in lexicographic order); a
// non-positive capPerSize keeps every subset of every size.
func Enumerate(dataBlocks, maxSetSize, capPerSize int) [][]int {
	if dataBlocks <= 0 || maxSetSize <= 0 {
		return nil
	}
	if maxSetSize > dataBlocks {
		maxSetSize = dataBlocks
	}

	var out [][]int
	for size := 1; size <= maxSetSize; size++ {
		combos := combinations(dataBlocks, size, capPerSize)
		out = append(out, combos...)
	}
	return out
}

// combinations returns up to cap (0 meaning unbounded) increasing-order
// subsets of {0,...,n-1} of the given size.
func combinations(n, size, cap int) [][]int {
	var out [][]int
	combo := make([]int, size)

	var recurse func(start, depth int) bool
	recurse = func(start, depth int) bool {
		if depth == size {
			item := make([]int, size)
			copy(item, combo)
			out = append(out, item)
			return cap <= 0 || len(out) < cap
		}
		for v := start; v < n; v++ {
			combo[depth] = v
			if !recurse(v+1, depth+1) {
				return false
			}
		}
		return true
	}
	recurse(0, 0)
	return out
}
