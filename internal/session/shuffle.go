package session

import "math/rand"

// shuffledIndices returns a random permutation of [0, n). The permutation
// may equal the identity; only the multiset is guaranteed.
func shuffledIndices(rnd *rand.Rand, n int) []int {
	if n <= 0 {
		return nil
	}
	return rnd.Perm(n)
}
