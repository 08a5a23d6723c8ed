package match

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// defaultNoisePhrases is the vocabulary of descriptive phrases stripped
// from titles when they appear inside parentheses or brackets. Longer
// phrases come first so they win over their own substrings.
var defaultNoisePhrases = []string{
	"official music video",
	"official video",
	"official audio",
	"official lyric video",
	"music video",
	"lyric video",
	"visualizer",
	"lyrics",
	"lyric",
	"audio",
	"video",
	"official",
	"hd",
	"hq",
}

// rule is one step of the cleaning pipeline: a pattern and what to
// replace its matches with.
type rule struct {
	re   *regexp.Regexp
	repl string
}

// Normalizer converts raw titles and filenames into canonical
// comparison keys. It is safe for concurrent use; all state is
// read-only after construction.
type Normalizer struct {
	rules     []rule
	displayRe *regexp.Regexp
}

// NewNormalizer builds a Normalizer using the built-in noise-phrase
// vocabulary.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithPhrases(nil)
}

// NewNormalizerWithPhrases builds a Normalizer with a custom
// noise-phrase vocabulary. A nil or empty slice selects the built-in
// one.
func NewNormalizerWithPhrases(phrases []string) *Normalizer {
	if len(phrases) == 0 {
		phrases = defaultNoisePhrases
	}

	alternation := phraseAlternation(phrases)

	return &Normalizer{
		rules: []rule{
			// Bare audio extensions from local filenames.
			{regexp.MustCompile(`\.(mp3|m4a|opus|flac|ogg|wav|aac|wma|mp4)$`), ""},
			// Downloader bitrate tags like (MP3_160K).
			{regexp.MustCompile(`\s*\((mp3|m4a|mp4|opus)_\d+k\)\s*`), " "},
			// Bracketed noise phrases. Replaced with a space, not
			// deleted, so adjacent words don't merge.
			{regexp.MustCompile(`\s*[(\[](?:` + alternation + `)[)\]]\s*`), " "},
			// Everything that isn't a letter, digit, space or hyphen.
			{regexp.MustCompile(`[^a-z0-9\s-]`), " "},
			// Collapse runs of whitespace and hyphens.
			{regexp.MustCompile(`[\s-]+`), " "},
		},
		// The display cleaner strips the same vocabulary but leaves the
		// rest of the title, including punctuation, intact.
		displayRe: regexp.MustCompile(`(?i)\s*[(\[](?:` + alternation + `)[)\]]\s*`),
	}
}

// phraseAlternation turns the vocabulary into a regexp alternation,
// quoting each phrase and letting its spaces match any whitespace run.
func phraseAlternation(phrases []string) string {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(strings.ToLower(p)), ` `, `\s+`)
	}
	return strings.Join(quoted, "|")
}

// Normalize converts a raw title or filename into its canonical key.
// The result contains only [a-z0-9 ] with single spaces, and an empty
// or all-punctuation input yields an empty key. Callers must treat an
// empty key as unmatchable. Normalize is idempotent.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = stripDiacritics(s)

	for _, r := range n.rules {
		s = r.re.ReplaceAllString(s, r.repl)
	}

	return strings.TrimSpace(s)
}

// CleanDisplayTitle strips the noise-phrase vocabulary from a title
// for human-readable output, keeping case and punctuation.
func (n *Normalizer) CleanDisplayTitle(raw string) string {
	s := n.displayRe.ReplaceAllString(raw, " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// stripDiacritics removes combining marks after NFD decomposition, so
// accented and unaccented variants compare equal.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
