package library

import (
	"bufio"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Entry represents one file of the local music library
type Entry struct {
	Path         string // full path as scanned or as written in the M3U
	Name         string // base filename including extension
	DisplayTitle string // from an #EXTINF line, empty when scanned from disk
	Duration     int    // seconds, from an #EXTINF line, 0 when unknown
}

// ScanDirectory walks root recursively and returns one Entry per file
// whose extension appears in extensions (case-insensitive, with dot).
func ScanDirectory(root string, extensions []string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("music directory not found: %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("music directory is not a directory: %s", root)
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = true
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories shouldn't sink the whole scan.
			log.Printf("Warning: skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		entries = append(entries, Entry{
			Path: path,
			Name: filepath.Base(path),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	log.Printf("Found %d audio files in %s", len(entries), root)
	return entries, nil
}

// ParseM3U reads a playlist file, typically a Musicolet export of the
// whole library, and returns its entries in file order. Lines starting
// with #EXTINF declare the duration and display title of the path line
// that follows; other comment lines and blank lines are skipped. A
// malformed #EXTINF line is skipped with a warning, never fatal.
func ParseM3U(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("M3U file not found: %s: %w", path, err)
	}
	defer f.Close()

	var (
		entries      []Entry
		duration     int
		displayTitle string
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#EXTINF:") {
			d, title, err := parseExtInf(line)
			if err != nil {
				log.Printf("Warning: skipping malformed line in %s: %v", path, err)
				continue
			}
			duration = d
			displayTitle = title
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		// Path line. Musicolet exports Windows-style separators.
		entryPath := strings.ReplaceAll(line, "\\", "/")
		entries = append(entries, Entry{
			Path:         entryPath,
			Name:         baseName(entryPath),
			DisplayTitle: displayTitle,
			Duration:     duration,
		})
		duration = 0
		displayTitle = ""
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	log.Printf("Parsed %d entries from %s", len(entries), path)
	return entries, nil
}

// parseExtInf splits "#EXTINF:<duration>,<display title>".
func parseExtInf(line string) (int, string, error) {
	rest := strings.TrimPrefix(line, "#EXTINF:")
	comma := strings.Index(rest, ",")
	if comma < 0 {
		return 0, "", fmt.Errorf("no comma in %q", line)
	}

	duration, err := strconv.Atoi(strings.TrimSpace(rest[:comma]))
	if err != nil {
		return 0, "", fmt.Errorf("bad duration in %q: %w", line, err)
	}

	return duration, strings.TrimSpace(rest[comma+1:]), nil
}

// baseName is filepath.Base over forward slashes, regardless of the
// host separator (the paths come from another device).
func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
