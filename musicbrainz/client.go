package musicbrainz

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://musicbrainz.org/ws/2"

// Client wraps the MusicBrainz API client
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
}

// Recording represents a MusicBrainz recording
type Recording struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title"`
	Score int    `xml:"score,attr"`
}

// SearchResponse represents the response from MusicBrainz search API
type SearchResponse struct {
	RecordingList struct {
		Recordings []Recording `xml:"recording"`
	} `xml:"recording-list"`
}

// NewClient creates a new MusicBrainz client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: "ytm3u/1.0 (https://github.com/samk/ytm3u)",
		baseURL:   defaultBaseURL,
	}
}

// LookupRecording searches for the best recording match for a playlist
// title. Titles in "Artist - Title" form are split into an artist plus
// recording query; anything else is searched as a recording name alone.
// Returns the top recording by search score.
func (c *Client) LookupRecording(ctx context.Context, title string) (*Recording, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title cannot be empty")
	}

	query := buildQuery(title)

	params := url.Values{}
	params.Add("query", query)
	params.Add("fmt", "xml")
	params.Add("limit", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/recording/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Required headers for MusicBrainz API
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("MusicBrainz API returned status %d: %s", resp.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := xml.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode XML response: %w", err)
	}

	if len(searchResp.RecordingList.Recordings) == 0 {
		return nil, fmt.Errorf("no recordings found for title: %s", title)
	}

	return &searchResp.RecordingList.Recordings[0], nil
}

// buildQuery turns a playlist title into a Lucene search query. The
// first " - " separator splits artist from recording; uploaders write
// the artist first almost universally.
func buildQuery(title string) string {
	artist, recording, found := strings.Cut(title, " - ")
	if !found {
		return fmt.Sprintf("recording:\"%s\"", escapeQuotes(title))
	}
	return fmt.Sprintf("artist:\"%s\" AND recording:\"%s\"",
		escapeQuotes(strings.TrimSpace(artist)),
		escapeQuotes(strings.TrimSpace(recording)))
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
