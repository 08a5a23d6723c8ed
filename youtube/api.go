package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

// pageSize is the Data API maximum for list endpoints.
const pageSize = 50

// APIClient fetches playlist metadata through the YouTube Data API v3
// using an API key, for environments without yt-dlp.
type APIClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewAPIClient creates a new Data API client
func NewAPIClient(apiKey string) *APIClient {
	return &APIClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: defaultAPIBaseURL,
	}
}

// FetchPlaylist retrieves all items of a playlist, following pagination,
// then resolves durations with a batched videos.list call
func (c *APIClient) FetchPlaylist(ctx context.Context, playlist string) ([]Video, error) {
	playlistID, err := ExtractPlaylistID(playlist)
	if err != nil {
		return nil, err
	}

	var (
		videos   []Video
		videoIDs []string
	)

	pageToken := ""
	for {
		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", strconv.Itoa(pageSize))
		params.Set("key", c.apiKey)
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page struct {
			Items []struct {
				Snippet struct {
					Title string `json:"title"`
				} `json:"snippet"`
				ContentDetails struct {
					VideoID string `json:"videoId"`
				} `json:"contentDetails"`
			} `json:"items"`
			NextPageToken string `json:"nextPageToken"`
		}
		if err := c.get(ctx, "/playlistItems", params, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
		}

		for _, item := range page.Items {
			if item.Snippet.Title == "" {
				continue
			}
			videos = append(videos, Video{Title: item.Snippet.Title})
			videoIDs = append(videoIDs, item.ContentDetails.VideoID)
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if err := c.fillDurations(ctx, videos, videoIDs); err != nil {
		// Durations are nice to have for EXTINF lines but matching is
		// title-only; a failed lookup is not fatal.
		return videos, nil
	}

	return videos, nil
}

// fillDurations resolves video durations in batches of pageSize IDs.
func (c *APIClient) fillDurations(ctx context.Context, videos []Video, videoIDs []string) error {
	durations := make(map[string]int, len(videoIDs))

	for start := 0; start < len(videoIDs); start += pageSize {
		end := start + pageSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("id", strings.Join(videoIDs[start:end], ","))
		params.Set("key", c.apiKey)

		var batch struct {
			Items []struct {
				ID             string `json:"id"`
				ContentDetails struct {
					Duration string `json:"duration"`
				} `json:"contentDetails"`
			} `json:"items"`
		}
		if err := c.get(ctx, "/videos", params, &batch); err != nil {
			return err
		}

		for _, item := range batch.Items {
			durations[item.ID] = ParseISODuration(item.ContentDetails.Duration)
		}
	}

	for i, id := range videoIDs {
		videos[i].Duration = durations[id]
	}

	return nil
}

// get performs a GET request against the Data API and decodes the JSON body
func (c *APIClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("YouTube API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL.
// A bare ID (no scheme) is accepted as-is.
func ExtractPlaylistID(playlist string) (string, error) {
	if playlist == "" {
		return "", fmt.Errorf("playlist URL cannot be empty")
	}

	if !strings.Contains(playlist, "://") {
		return playlist, nil
	}

	u, err := url.Parse(playlist)
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL: %w", err)
	}

	if id := u.Query().Get("list"); id != "" {
		return id, nil
	}

	return "", fmt.Errorf("unable to extract playlist ID from URL: %s", playlist)
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO-8601 duration like "PT3M52S" to
// seconds. Unparseable input yields 0.
func ParseISODuration(s string) int {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	seconds := 0
	if m[1] != "" {
		h, _ := strconv.Atoi(m[1])
		seconds += h * 3600
	}
	if m[2] != "" {
		min, _ := strconv.Atoi(m[2])
		seconds += min * 60
	}
	if m[3] != "" {
		sec, _ := strconv.Atoi(m[3])
		seconds += sec
	}

	return seconds
}
