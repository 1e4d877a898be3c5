package puzzle

// IsSolvable reports whether the current arrangement can be brought back to
// the solved one using legal moves only.
//
// Every legal move is a transposition involving the empty tile and shifts the
// empty tile's distance from home by exactly one, so a reachable arrangement
// has a permutation parity equal to the parity of that distance. An unconstrained
// shuffle of the tile array breaks this for half of all permutations.
func (p *Instance) IsSolvable() bool {
	perm := make([]int, len(p.occupant))
	for pos, idx := range p.occupant {
		perm[pos] = p.tiles[idx].Home
	}
	distance := Manhattan(p.emptyPos, p.tiles[p.emptyIdx].Home, p.grid.Cols)
	return permutationParity(perm) == distance%2
}

// permutationParity returns 0 for even and 1 for odd permutations.
func permutationParity(perm []int) int {
	seen := make([]bool, len(perm))
	parity := 0
	for start := range perm {
		if seen[start] {
			continue
		}
		length := 0
		for i := start; !seen[i]; i = perm[i] {
			seen[i] = true
			length++
		}
		// A cycle of length k is k-1 transpositions.
		parity ^= (length - 1) & 1
	}
	return parity
}
