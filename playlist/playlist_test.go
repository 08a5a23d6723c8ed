package playlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samk/ytm3u/library"
	"github.com/samk/ytm3u/match"
	"github.com/samk/ytm3u/youtube"
)

func TestRender(t *testing.T) {
	entries := []Entry{
		{
			DisplayTitle: "Imagine Dragons - Believer",
			Duration:     204,
			Paths:        []string{"/music/Imagine Dragons - Believer(MP3_160K).mp3"},
		},
		{
			DisplayTitle: "Bohemian Rhapsody",
			Duration:     0,
			Paths: []string{
				"/music/Bohemian Rhapsody(MP3_160K).mp3",
				"/music/Bohemian Rhapsody.mp3",
			},
		},
	}

	want := `#EXTM3U
#EXTINF:204,Imagine Dragons - Believer
/music/Imagine Dragons - Believer(MP3_160K).mp3

#EXTINF:0,Bohemian Rhapsody
/music/Bohemian Rhapsody(MP3_160K).mp3
/music/Bohemian Rhapsody.mp3

`
	assert.Equal(t, want, Render(entries))
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "#EXTM3U\n", Render(nil))
}

func TestRenderDeterministic(t *testing.T) {
	entries := []Entry{
		{DisplayTitle: "b", Duration: 1, Paths: []string{"/b"}},
		{DisplayTitle: "a", Duration: 2, Paths: []string{"/a"}},
	}

	// Output order is input order, byte for byte
	assert.Equal(t, Render(entries), Render(entries))
	assert.Contains(t, Render(entries), "#EXTINF:1,b\n/b\n\n#EXTINF:2,a\n/a\n")
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playlist.m3u")

	err := Write(path, []Entry{{DisplayTitle: "Song", Duration: 10, Paths: []string{"/s.mp3"}}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#EXTM3U\n#EXTINF:10,Song\n/s.mp3\n\n", string(data))
}

func TestFromResults(t *testing.T) {
	best := &library.Entry{Path: "/music/believer.mp3", Name: "believer.mp3", Duration: 200}
	results := []match.Result{
		{
			Video:   youtube.Video{Title: "Believer (Official Video)", Duration: 204},
			Best:    best,
			Matched: true,
		},
		{
			Video:   youtube.Video{Title: "Missing Song"},
			Matched: false,
		},
		{
			Video:   youtube.Video{Title: "No Remote Duration"},
			Best:    best,
			Matched: true,
		},
	}

	clean := func(s string) string {
		if s == "Believer (Official Video)" {
			return "Believer"
		}
		return s
	}

	entries := FromResults(results, clean)
	require.Len(t, entries, 2)

	assert.Equal(t, "Believer", entries[0].DisplayTitle)
	assert.Equal(t, 204, entries[0].Duration)
	assert.Equal(t, []string{"/music/believer.mp3"}, entries[0].Paths)

	// The local entry's duration fills in when the remote one is unknown
	assert.Equal(t, 200, entries[1].Duration)
}

func TestFromResultsNilCleaner(t *testing.T) {
	results := []match.Result{
		{
			Video:   youtube.Video{Title: "As Is"},
			Best:    &library.Entry{Path: "/x.mp3"},
			Matched: true,
		},
	}

	entries := FromResults(results, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, "As Is", entries[0].DisplayTitle)
}

func TestMissingTitles(t *testing.T) {
	results := []match.Result{
		{Video: youtube.Video{Title: "Found"}, Matched: true},
		{Video: youtube.Video{Title: "Lost One"}},
		{Video: youtube.Video{Title: "Lost Two"}},
	}

	assert.Equal(t, []string{"Lost One", "Lost Two"}, MissingTitles(results))
	assert.Empty(t, MissingTitles(nil))
}

func TestWriteMissingReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing_songs.txt")

	require.NoError(t, WriteMissingReport(path, []string{"Lost One", "Lost Two"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Lost One\nLost Two\n", string(data))
}
