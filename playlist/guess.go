package playlist

import (
	"regexp"
	"strings"

	"github.com/samk/ytm3u/youtube"
)

var (
	illegalFilenameRe = regexp.MustCompile(`[\\/:*?"<>|'&]`)
	underscoreRunRe   = regexp.MustCompile(`_+`)
)

// SanitizeFilename rewrites a title the way the download app names its
// files: characters that are illegal on the target filesystem, plus
// apostrophes and ampersands, become underscores, runs of underscores
// collapse to one, and leftover underscores and spaces are trimmed from
// the edges. A leading underscore present in the input survives; only
// underscores the sanitizer itself introduced are trimmed.
func SanitizeFilename(title string) string {
	leading := strings.HasPrefix(title, "_")

	s := illegalFilenameRe.ReplaceAllString(title, "_")
	s = underscoreRunRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_ ")

	if leading {
		s = "_" + s
	}
	return s
}

// Guesses builds speculative device entries for videos never seen on
// disk: one entry per video, whose candidate paths are the sanitized
// title joined to deviceDir with the downloader's bitrate suffix first,
// then each plain extension. Paths use forward slashes; the device is
// not Windows. clean rewrites the title for display and may be nil.
func Guesses(videos []youtube.Video, deviceDir, suffix string, extensions []string, clean func(string) string) []Entry {
	deviceDir = strings.TrimRight(deviceDir, "/")

	var entries []Entry
	for _, v := range videos {
		title := v.Title
		if clean != nil {
			title = clean(title)
		}

		base := SanitizeFilename(title)
		if base == "" {
			continue
		}

		paths := make([]string, 0, len(extensions)+1)
		if suffix != "" {
			paths = append(paths, deviceDir+"/"+base+suffix)
		}
		for _, ext := range extensions {
			paths = append(paths, deviceDir+"/"+base+ext)
		}

		entries = append(entries, Entry{
			DisplayTitle: title,
			Duration:     v.Duration,
			Paths:        paths,
		})
	}
	return entries
}
