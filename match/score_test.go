package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionalScore(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		candidate string
		want      float64
	}{
		{"identical", "believer", "believer", 100},
		{"empty original", "", "anything", 0},
		{"empty candidate", "abc", "", 0},
		{"half match", "abcd", "abxx", 50},
		{"candidate longer than original", "abc", "abcdef", 100},
		{"original longer than candidate", "abcdef", "abc", 50},
		{"shifted alignment scores low", "xbelievers", "believers", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PositionalScore(tt.original, tt.candidate), 0.001)
		})
	}
}

func TestPositionalScoreAsymmetry(t *testing.T) {
	// The denominator is always the original's length, so swapping the
	// arguments changes the score.
	a, b := "abc", "abcdef"
	assert.InDelta(t, 100.0, PositionalScore(a, b), 0.001)
	assert.InDelta(t, 50.0, PositionalScore(b, a), 0.001)
}

func TestTokenOverlapScore(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		reference string
		want      float64
	}{
		{"identical", "imagine dragons believer", "imagine dragons believer", 1},
		{"two of three query tokens", "a b c", "a b", 2.0 / 3.0},
		{"asymmetric", "a b", "a b c", 1},
		{"no overlap", "a b", "c d", 0},
		{"empty query", "", "a b", 0},
		{"empty reference", "a b", "", 0},
		{"duplicate tokens count once", "a a b", "a b", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenOverlapScore(tt.query, tt.reference), 0.001)
		})
	}
}

func TestSequenceRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "believer", "believer", 1},
		{"both empty", "", "", 0},
		{"one empty", "abc", "", 0},
		{"disjoint", "abc", "xyz", 0},
		// "abcd" vs "bcde": common block "bcd", 2*3/8
		{"overlapping block", "abcd", "bcde", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SequenceRatio(tt.a, tt.b), 0.001)
		})
	}
}

func TestSequenceRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"imagine dragons believer", "imagine dragons believer official"},
		{"abcd", "bcde"},
		{"short", "a much longer string entirely"},
	}

	for _, p := range pairs {
		assert.InDelta(t, SequenceRatio(p[0], p[1]), SequenceRatio(p[1], p[0]), 0.001)
	}
}

func TestSequenceRatioCrossesThreshold(t *testing.T) {
	n := NewNormalizer()

	// The two conventions for the same song normalize to the same key,
	// so the ratio must be maximal; a different song stays well below.
	a := n.Normalize("Imagine Dragons - Believer (Official Video)")
	b := n.Normalize("Imagine Dragons - Believer(MP3_160K).mp3")
	assert.InDelta(t, 1.0, SequenceRatio(a, b), 0.001)

	c := n.Normalize("Some Entirely Different Song")
	assert.Less(t, SequenceRatio(a, c), 0.6)
}

func TestClosestCandidate(t *testing.T) {
	refs := []string{"imagine dragons believer", "", "bohemian rhapsody"}

	index, similarity := ClosestCandidate("imagine dragons believer", refs)
	assert.Equal(t, 0, index)
	assert.InDelta(t, 1.0, similarity, 0.001)

	index, _ = ClosestCandidate("bohemian rapsody", refs)
	assert.Equal(t, 2, index)
}

func TestClosestCandidateNoUsableReferences(t *testing.T) {
	index, similarity := ClosestCandidate("anything", nil)
	assert.Equal(t, -1, index)
	assert.Zero(t, similarity)

	index, _ = ClosestCandidate("anything", []string{"", ""})
	assert.Equal(t, -1, index)
}
