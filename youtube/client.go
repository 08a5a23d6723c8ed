package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Video represents one entry of a remote playlist
type Video struct {
	Title    string
	Duration int // seconds; 0 when the source doesn't report one
}

// Fetcher retrieves the ordered contents of a remote playlist.
// An empty result means nothing to reconcile, not an error.
type Fetcher interface {
	FetchPlaylist(ctx context.Context, playlist string) ([]Video, error)
}

// Client fetches playlist metadata through yt-dlp
type Client struct{}

// NewClient creates a new yt-dlp backed client
func NewClient() *Client {
	return &Client{}
}

// FetchPlaylist runs yt-dlp in flat-playlist mode and parses one JSON
// record per line from its output
func (c *Client) FetchPlaylist(ctx context.Context, playlistURL string) ([]Video, error) {
	log.Printf("Fetching playlist information from: %s", playlistURL)

	dl := ytdlp.New().
		FlatPlaylist().
		PrintJSON().
		NoWarnings()

	result, err := dl.Run(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed (is it installed and on your PATH?): %w", err)
	}

	videos, skipped := parseFlatPlaylist(result.Stdout)
	if skipped > 0 {
		log.Printf("Warning: skipped %d malformed record(s) from yt-dlp output", skipped)
	}

	log.Printf("Successfully fetched information for %d videos", len(videos))
	return videos, nil
}

// parseFlatPlaylist decodes yt-dlp's one-JSON-object-per-line output.
// A line that fails to decode or has no title is skipped, never fatal.
func parseFlatPlaylist(out string) ([]Video, int) {
	var videos []Video
	skipped := 0

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var record struct {
			Title    string  `json:"title"`
			Duration float64 `json:"duration"`
		}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			skipped++
			continue
		}
		if record.Title == "" {
			skipped++
			continue
		}

		videos = append(videos, Video{
			Title:    record.Title,
			Duration: int(record.Duration),
		})
	}

	return videos, skipped
}
