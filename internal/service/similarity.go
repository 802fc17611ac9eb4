package service

// similarityRatio computes a normalized similarity in [0, 1] between two
// strings: 2*M/T where M is the total length of matching blocks and T the
// combined length. Operates on runes so Cyrillic queries compare correctly.
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matched := matchingBlocksLen(ra, rb)
	return 2.0 * float64(matched) / float64(total)
}

// matchingBlocksLen sums the lengths of the matching blocks found by
// recursively locating the longest common substring and matching the
// unconsumed pieces on each side of it.
func matchingBlocksLen(a, b []rune) int {
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingBlocksLen(a[:ai], b[:bi]) +
		matchingBlocksLen(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest common substring of a and b, returning its
// start offsets and length. Among equal-length matches the leftmost in a,
// then leftmost in b, wins.
func longestMatch(a, b []rune) (bestA, bestB, bestSize int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// positions of each rune in b
	positions := make(map[rune][]int, len(b))
	for i, r := range b {
		positions[r] = append(positions[r], i)
	}

	// lengths[j] = length of the match ending at a[i-1], b[j-1]
	lengths := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int, len(positions[r]))
		for _, j := range positions[r] {
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestA = i - k + 1
				bestB = j - k + 1
				bestSize = k
			}
		}
		lengths = next
	}

	return bestA, bestB, bestSize
}
