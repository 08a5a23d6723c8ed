package playlist

import (
	"fmt"
	"os"
	"strings"

	"github.com/samk/ytm3u/match"
)

// Entry is one song of a rendered playlist. A song can resolve to more
// than one candidate path when its location on the device is guessed
// rather than known.
type Entry struct {
	DisplayTitle string
	Duration     int // seconds, 0 when unknown
	Paths        []string
}

// FromResults converts the matched reconciliation results into playlist
// entries, in result order. Unmatched results are skipped; the missing
// report covers those. clean rewrites the remote title for display and
// may be nil.
func FromResults(results []match.Result, clean func(string) string) []Entry {
	var entries []Entry
	for _, r := range results {
		if !r.Matched || r.Best == nil {
			continue
		}

		title := r.Video.Title
		if clean != nil {
			title = clean(title)
		}

		duration := r.Video.Duration
		if duration == 0 {
			duration = r.Best.Duration
		}

		entries = append(entries, Entry{
			DisplayTitle: title,
			Duration:     duration,
			Paths:        []string{r.Best.Path},
		})
	}
	return entries
}

// Render produces the extended-M3U text for the entries. The output is
// deterministic for a given input: a "#EXTM3U" header, then per entry
// one "#EXTINF:<duration>,<title>" line, its path lines, and a blank
// separator line.
func Render(entries []Entry) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")

	for _, e := range entries {
		b.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", e.Duration, e.DisplayTitle))
		for _, p := range e.Paths {
			b.WriteString(p)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Write renders the entries and writes the playlist file.
func Write(path string, entries []Entry) error {
	if err := os.WriteFile(path, []byte(Render(entries)), 0644); err != nil {
		return fmt.Errorf("failed to write playlist %s: %w", path, err)
	}
	return nil
}

// MissingTitles returns the remote titles the reconciliation could not
// match, in result order.
func MissingTitles(results []match.Result) []string {
	var titles []string
	for _, r := range results {
		if !r.Matched {
			titles = append(titles, r.Video.Title)
		}
	}
	return titles
}

// WriteMissingReport writes one title per line. Callers should skip the
// call entirely when nothing is missing; a run with no misses leaves no
// report behind.
func WriteMissingReport(path string, titles []string) error {
	var b strings.Builder
	for _, t := range titles {
		b.WriteString(t)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write missing report %s: %w", path, err)
	}
	return nil
}
