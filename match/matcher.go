package match

import (
	"github.com/samk/ytm3u/library"
	"github.com/samk/ytm3u/youtube"
)

// Strategy selects how queries are reconciled against the reference
// collection.
type Strategy string

const (
	// StrategyScan scores every query against every reference and
	// keeps the best candidate.
	StrategyScan Strategy = "scan"
	// StrategyLookup tries an exact canonical-key lookup first and
	// falls back to a token-overlap scan on a miss.
	StrategyLookup Strategy = "lookup"
)

// Scorer selects the similarity function used by StrategyScan.
type Scorer string

const (
	ScorerRatio      Scorer = "ratio"
	ScorerToken      Scorer = "token"
	ScorerPositional Scorer = "positional"
)

// Options configures a Matcher. Zero thresholds are replaced with the
// defaults, so Options{} is usable.
type Options struct {
	Strategy            Strategy
	Scorer              Scorer
	RatioThreshold      float64 // 0..1 scale, default 0.6
	TokenThreshold      float64 // 0..1 scale, default 0.7
	PositionalThreshold float64 // 0..100 scale, default 90
}

// DefaultOptions returns the default matcher configuration.
func DefaultOptions() Options {
	return Options{
		Strategy:            StrategyScan,
		Scorer:              ScorerRatio,
		RatioThreshold:      0.6,
		TokenThreshold:      0.7,
		PositionalThreshold: 90,
	}
}

// Result is the outcome of reconciling one remote video against the
// local library. Every query gets exactly one Result; below-threshold
// queries keep their best candidate and score for diagnostics instead
// of being dropped.
type Result struct {
	Video youtube.Video
	// Best is the best-scoring local entry, or nil when the reference
	// collection was empty or the query key was unusable.
	Best    *library.Entry
	Score   float64
	Matched bool
	// Exact reports that the match came from the exact canonical-key
	// lookup of StrategyLookup.
	Exact bool
}

// Summary is a derived view over a result set.
type Summary struct {
	Total   int
	Matched int
	Missing int
	Exact   int
}

// Summarize counts matched and missing results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Matched {
			s.Matched++
			if r.Exact {
				s.Exact++
			}
		} else {
			s.Missing++
		}
	}
	return s
}

// Matcher reconciles a query collection of remote videos against a
// reference collection of local entries. It never mutates either
// collection.
type Matcher struct {
	norm *Normalizer
	opts Options
}

// NewMatcher creates a Matcher. Zero-valued options fall back to
// DefaultOptions.
func NewMatcher(norm *Normalizer, opts Options) *Matcher {
	defaults := DefaultOptions()
	if opts.Strategy == "" {
		opts.Strategy = defaults.Strategy
	}
	if opts.Scorer == "" {
		opts.Scorer = defaults.Scorer
	}
	if opts.RatioThreshold == 0 {
		opts.RatioThreshold = defaults.RatioThreshold
	}
	if opts.TokenThreshold == 0 {
		opts.TokenThreshold = defaults.TokenThreshold
	}
	if opts.PositionalThreshold == 0 {
		opts.PositionalThreshold = defaults.PositionalThreshold
	}

	return &Matcher{norm: norm, opts: opts}
}

// Reconcile produces one Result per video, in input order. An empty
// reference collection yields all queries unmatched.
func (m *Matcher) Reconcile(videos []youtube.Video, entries []library.Entry) []Result {
	keys := m.entryKeys(entries)

	if m.opts.Strategy == StrategyLookup {
		return m.reconcileLookup(videos, entries, keys)
	}
	return m.reconcileScan(videos, entries, keys)
}

// reconcileScan computes the configured score for every (query,
// reference) pair and keeps the maximum. Ties go to the first-seen
// maximum, in the reference collection's order.
func (m *Matcher) reconcileScan(videos []youtube.Video, entries []library.Entry, keys []string) []Result {
	threshold := m.threshold()

	results := make([]Result, 0, len(videos))
	for _, video := range videos {
		result := Result{Video: video}

		queryKey := m.norm.Normalize(video.Title)
		if queryKey != "" {
			best := 0.0
			bestIndex := -1
			for i, key := range keys {
				if key == "" {
					continue
				}
				score := m.score(queryKey, key)
				if bestIndex == -1 || score > best {
					best = score
					bestIndex = i
				}
			}
			if bestIndex >= 0 {
				result.Best = &entries[bestIndex]
				result.Score = best
				result.Matched = best >= threshold
			}
		}

		results = append(results, result)
	}

	return results
}

// reconcileLookup resolves each query through an exact canonical-key
// map first, then falls back to a token-overlap scan. The first entry
// seen for a key wins, matching how the library M3U lists duplicates.
func (m *Matcher) reconcileLookup(videos []youtube.Video, entries []library.Entry, keys []string) []Result {
	index := make(map[string]int, len(entries))
	for i, key := range keys {
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	results := make([]Result, 0, len(videos))
	for _, video := range videos {
		result := Result{Video: video}

		queryKey := m.norm.Normalize(video.Title)
		if queryKey != "" {
			if i, found := index[queryKey]; found {
				result.Best = &entries[i]
				result.Score = 1.0
				result.Matched = true
				result.Exact = true
			} else {
				best := 0.0
				bestIndex := -1
				for i, key := range keys {
					if key == "" {
						continue
					}
					score := TokenOverlapScore(queryKey, key)
					if bestIndex == -1 || score > best {
						best = score
						bestIndex = i
					}
				}
				if bestIndex >= 0 {
					result.Best = &entries[bestIndex]
					result.Score = best
					result.Matched = best >= m.opts.TokenThreshold
				}
			}
		}

		results = append(results, result)
	}

	return results
}

// Removed reports the local entries with no counterpart in the remote
// playlist: the reverse reconciliation. Exact canonical equality and
// token overlap both count as a counterpart.
func (m *Matcher) Removed(videos []youtube.Video, entries []library.Entry) []library.Entry {
	remoteKeys := make([]string, 0, len(videos))
	remoteSet := make(map[string]bool, len(videos))
	for _, video := range videos {
		if key := m.norm.Normalize(video.Title); key != "" {
			remoteKeys = append(remoteKeys, key)
			remoteSet[key] = true
		}
	}

	var removed []library.Entry
	for _, entry := range entries {
		key := m.norm.Normalize(entry.Name)
		if remoteSet[key] {
			continue
		}

		found := false
		if key != "" {
			for _, remoteKey := range remoteKeys {
				if TokenOverlapScore(key, remoteKey) >= m.opts.TokenThreshold {
					found = true
					break
				}
			}
		}
		if !found {
			removed = append(removed, entry)
		}
	}

	return removed
}

// Closest names the local entry nearest to the title under
// Jaro-Winkler, for missing-report diagnostics. Returns nil when the
// library is empty or nothing is comparable.
func (m *Matcher) Closest(title string, entries []library.Entry) (*library.Entry, float64) {
	queryKey := m.norm.Normalize(title)
	if queryKey == "" {
		return nil, 0
	}

	index, similarity := ClosestCandidate(queryKey, m.entryKeys(entries))
	if index < 0 {
		return nil, 0
	}
	return &entries[index], similarity
}

func (m *Matcher) entryKeys(entries []library.Entry) []string {
	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = m.norm.Normalize(entry.Name)
	}
	return keys
}

func (m *Matcher) score(queryKey, referenceKey string) float64 {
	switch m.opts.Scorer {
	case ScorerToken:
		return TokenOverlapScore(queryKey, referenceKey)
	case ScorerPositional:
		return PositionalScore(queryKey, referenceKey)
	default:
		return SequenceRatio(queryKey, referenceKey)
	}
}

func (m *Matcher) threshold() float64 {
	switch m.opts.Scorer {
	case ScorerToken:
		return m.opts.TokenThreshold
	case ScorerPositional:
		return m.opts.PositionalThreshold
	default:
		return m.opts.RatioThreshold
	}
}
