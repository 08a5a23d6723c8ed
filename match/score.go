package match

import (
	"strings"

	"github.com/xrash/smetrics"
)

// PositionalScore pairs the characters of original and candidate by
// index, counts equal positions, and returns matches/len(original)*100.
// The denominator is deliberately the original's length, not the
// candidate's or the maximum; the strict mode this scorer serves has
// always worked that way and callers depend on its asymmetry. The
// score of an empty original is defined as 0. Insertions or deletions
// shift the alignment, so this is a low-precision baseline.
func PositionalScore(original, candidate string) float64 {
	or := []rune(original)
	if len(or) == 0 {
		return 0
	}
	cr := []rune(candidate)

	matches := 0
	for i, r := range or {
		if i < len(cr) && cr[i] == r {
			matches++
		}
	}

	return float64(matches) / float64(len(or)) * 100
}

// TokenOverlapScore splits both keys on whitespace into sets of unique
// tokens and returns |intersection| / |tokens(query)|. The overlap is
// relative to the query side only, so the score is asymmetric. An
// empty query yields 0.
func TokenOverlapScore(query, reference string) float64 {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return 0
	}
	referenceTokens := tokenSet(reference)

	overlap := 0
	for token := range queryTokens {
		if referenceTokens[token] {
			overlap++
		}
	}

	return float64(overlap) / float64(len(queryTokens))
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// SequenceRatio returns the Ratcliff/Obershelp similarity ratio in
// [0,1]: twice the number of characters in common (found by repeatedly
// taking the longest matching block) over the total length of both
// strings. Symmetric, and equal strings score 1. Two empty strings
// score 0 rather than dividing by zero.
func SequenceRatio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 0
	}

	return 2 * float64(matchingRunes(ar, br)) / float64(total)
}

// matchingRunes counts the runes covered by matching blocks: the
// longest common block, then recursively the pieces to its left and
// right.
func matchingRunes(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommonBlock finds the longest common contiguous block of a
// and b, returning its start in each and its length. Ties go to the
// earliest block in a.
func longestCommonBlock(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return ai, bi, size
}

// ClosestCandidate names the reference key nearest to the query under
// Jaro-Winkler similarity, for diagnostics on unmatched titles. It
// returns -1 when there are no usable candidates.
func ClosestCandidate(query string, references []string) (index int, similarity float64) {
	index = -1
	for i, ref := range references {
		if ref == "" {
			continue
		}
		s := smetrics.JaroWinkler(query, ref, 0.7, 4)
		if s > similarity {
			similarity = s
			index = i
		}
	}
	return index, similarity
}
