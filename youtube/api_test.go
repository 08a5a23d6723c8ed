package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		name     string
		playlist string
		want     string
		wantErr  bool
	}{
		{
			name:     "full watch URL",
			playlist: "https://www.youtube.com/watch?v=abc123&list=PLxyz789",
			want:     "PLxyz789",
		},
		{
			name:     "playlist URL",
			playlist: "https://www.youtube.com/playlist?list=PLxyz789",
			want:     "PLxyz789",
		},
		{
			name:     "bare ID passes through",
			playlist: "PLxyz789",
			want:     "PLxyz789",
		},
		{
			name:     "URL without list parameter",
			playlist: "https://www.youtube.com/watch?v=abc123",
			wantErr:  true,
		},
		{
			name:     "empty",
			playlist: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tt.playlist)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"PT3M52S", 232},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2M", 120},
		{"PT1H", 3600},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseISODuration(tt.input), "input %q", tt.input)
	}
}

func TestAPIClientFetchPlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		switch r.URL.Path {
		case "/playlistItems":
			assert.Equal(t, "PLxyz789", r.URL.Query().Get("playlistId"))
			if r.URL.Query().Get("pageToken") == "" {
				fmt.Fprint(w, `{
					"items": [
						{"snippet":{"title":"Believer"},"contentDetails":{"videoId":"v1"}},
						{"snippet":{"title":""},"contentDetails":{"videoId":"deleted"}}
					],
					"nextPageToken": "page2"
				}`)
			} else {
				assert.Equal(t, "page2", r.URL.Query().Get("pageToken"))
				fmt.Fprint(w, `{
					"items": [
						{"snippet":{"title":"Bohemian Rhapsody"},"contentDetails":{"videoId":"v2"}}
					]
				}`)
			}
		case "/videos":
			assert.Equal(t, "v1,v2", r.URL.Query().Get("id"))
			fmt.Fprint(w, `{
				"items": [
					{"id":"v1","contentDetails":{"duration":"PT3M24S"}},
					{"id":"v2","contentDetails":{"duration":"PT5M54S"}}
				]
			}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewAPIClient("test-key")
	client.baseURL = server.URL

	videos, err := client.FetchPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PLxyz789")
	require.NoError(t, err)

	// The titleless (deleted) item is dropped; pagination is followed
	require.Len(t, videos, 2)
	assert.Equal(t, Video{Title: "Believer", Duration: 204}, videos[0])
	assert.Equal(t, Video{Title: "Bohemian Rhapsody", Duration: 354}, videos[1])
}

func TestAPIClientDurationFailureNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlistItems":
			fmt.Fprint(w, `{"items":[{"snippet":{"title":"Believer"},"contentDetails":{"videoId":"v1"}}]}`)
		case "/videos":
			http.Error(w, "quota exceeded", http.StatusForbidden)
		}
	}))
	defer server.Close()

	client := NewAPIClient("test-key")
	client.baseURL = server.URL

	videos, err := client.FetchPlaylist(context.Background(), "PLxyz789")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "Believer", videos[0].Title)
	assert.Zero(t, videos[0].Duration)
}

func TestAPIClientPlaylistError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewAPIClient("test-key")
	client.baseURL = server.URL

	_, err := client.FetchPlaylist(context.Background(), "PLxyz789")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
