package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/samk/ytm3u/config"
	"github.com/samk/ytm3u/library"
	"github.com/samk/ytm3u/match"
	"github.com/samk/ytm3u/musicbrainz"
	"github.com/samk/ytm3u/playlist"
	"github.com/samk/ytm3u/youtube"
)

// Version information - set during build
var version = "dev"

// Constants for display formatting
const (
	separatorLine   = "="
	separatorLength = 80
)

// Exit codes
const (
	exitCodeSuccess     = 0
	exitCodeConfigError = 2
	exitCodeRunError    = 3
)

// Global debug flag
var debugMode bool

// debugLog logs only when debug mode is enabled
func debugLog(format string, args ...any) {
	if debugMode {
		log.Printf(format, args...)
	}
}

// Application represents the main application state
type Application struct {
	config            *config.Config
	fetcher           youtube.Fetcher
	musicBrainzClient *musicbrainz.Client
	normalizer        *match.Normalizer
	matcher           *match.Matcher
}

// NewApplication creates a new application instance
func NewApplication(cfg *config.Config) *Application {
	var fetcher youtube.Fetcher
	if cfg.YouTube.APIKey != "" {
		fetcher = youtube.NewAPIClient(cfg.YouTube.APIKey)
	} else {
		fetcher = youtube.NewClient()
	}

	normalizer := match.NewNormalizerWithPhrases(cfg.Rules.NoisePhrases)
	matcher := match.NewMatcher(normalizer, match.Options{
		Strategy:            match.Strategy(cfg.Match.Strategy),
		Scorer:              match.Scorer(cfg.Match.Scorer),
		RatioThreshold:      cfg.Rules.RatioThreshold,
		TokenThreshold:      cfg.Rules.TokenThreshold,
		PositionalThreshold: cfg.Rules.PositionalThreshold,
	})

	return &Application{
		config:            cfg,
		fetcher:           fetcher,
		musicBrainzClient: musicbrainz.NewClient(),
		normalizer:        normalizer,
		matcher:           matcher,
	}
}

// Run executes the mode selected by configuration
func (app *Application) Run(ctx context.Context) error {
	switch app.config.Mode {
	case config.ModeMissing:
		return app.runMissing(ctx)
	case config.ModeGuess:
		return app.runGuess(ctx)
	case config.ModeDupes:
		return app.runDupes(ctx)
	case config.ModeRemoved:
		return app.runRemoved(ctx)
	default:
		return app.runSync(ctx)
	}
}

// fetchVideos retrieves the remote playlist. A failed fetch is reported
// and treated as an empty playlist so the run still produces its
// summary instead of aborting.
func (app *Application) fetchVideos(ctx context.Context) []youtube.Video {
	fmt.Printf("🎵 Fetching playlist: %s\n", app.config.YouTube.PlaylistURL)

	videos, err := app.fetcher.FetchPlaylist(ctx, app.config.YouTube.PlaylistURL)
	if err != nil {
		log.Printf("⚠️  Warning: playlist fetch failed, nothing to reconcile: %v", err)
		return nil
	}

	fmt.Printf("Fetched %d videos from playlist\n\n", len(videos))
	return videos
}

// loadLibrary loads the local library, preferring the exported M3U when
// one is configured over a directory scan.
func (app *Application) loadLibrary() ([]library.Entry, error) {
	if app.config.Library.M3UPath != "" {
		return library.ParseM3U(app.config.Library.M3UPath)
	}
	return library.ScanDirectory(app.config.Library.MusicDir, app.config.Rules.AudioExtensions)
}

// runSync reconciles the remote playlist against the local library,
// writes the playable playlist and, when anything is missing, the
// missing-songs report.
func (app *Application) runSync(ctx context.Context) error {
	videos := app.fetchVideos(ctx)
	if len(videos) == 0 {
		fmt.Println("Playlist is empty, nothing to reconcile")
		return nil
	}

	entries, err := app.loadLibrary()
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat(separatorLine, separatorLength))
	fmt.Println("MATCHING SONGS TO LOCAL LIBRARY")
	fmt.Println(strings.Repeat(separatorLine, separatorLength))

	results := app.matcher.Reconcile(videos, entries)
	app.displayResults(results)
	app.displaySummary(match.Summarize(results))

	playlistEntries := playlist.FromResults(results, app.normalizer.CleanDisplayTitle)
	if err := playlist.Write(app.config.Output.PlaylistPath, playlistEntries); err != nil {
		return err
	}
	fmt.Printf("\n✅ Wrote playlist with %d songs to %s\n", len(playlistEntries), app.config.Output.PlaylistPath)

	return app.reportMissing(ctx, results, entries)
}

// runMissing reports the unmatched titles without writing a playlist.
func (app *Application) runMissing(ctx context.Context) error {
	videos := app.fetchVideos(ctx)
	if len(videos) == 0 {
		fmt.Println("Playlist is empty, nothing to reconcile")
		return nil
	}

	entries, err := app.loadLibrary()
	if err != nil {
		return err
	}

	results := app.matcher.Reconcile(videos, entries)
	app.displaySummary(match.Summarize(results))

	return app.reportMissing(ctx, results, entries)
}

// runGuess skips the local scan entirely and writes a playlist of
// speculative device paths built from the downloader's naming
// convention.
func (app *Application) runGuess(ctx context.Context) error {
	videos := app.fetchVideos(ctx)
	if len(videos) == 0 {
		fmt.Println("Playlist is empty, nothing to write")
		return nil
	}

	entries := playlist.Guesses(
		videos,
		app.config.Output.DeviceDir,
		app.config.Rules.PathSuffix,
		app.config.Rules.GuessExtensions,
		app.normalizer.CleanDisplayTitle,
	)

	if err := playlist.Write(app.config.Output.PlaylistPath, entries); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote playlist with %d guessed songs to %s\n", len(entries), app.config.Output.PlaylistPath)
	return nil
}

// runDupes audits the playlist with the strict positional scorer and
// reports every title scoring below the positional threshold against
// its best local candidate.
func (app *Application) runDupes(ctx context.Context) error {
	videos := app.fetchVideos(ctx)
	if len(videos) == 0 {
		fmt.Println("Playlist is empty, nothing to audit")
		return nil
	}

	entries, err := app.loadLibrary()
	if err != nil {
		return err
	}

	strict := match.NewMatcher(app.normalizer, match.Options{
		Strategy:            match.StrategyScan,
		Scorer:              match.ScorerPositional,
		PositionalThreshold: app.config.Rules.PositionalThreshold,
	})
	results := strict.Reconcile(videos, entries)

	fmt.Println(strings.Repeat(separatorLine, separatorLength))
	fmt.Printf("TITLES BELOW POSITIONAL SCORE %.0f\n", app.config.Rules.PositionalThreshold)
	fmt.Println(strings.Repeat(separatorLine, separatorLength))

	flagged := 0
	for _, result := range results {
		if result.Matched {
			continue
		}
		flagged++
		fmt.Printf("%3d. %s\n", flagged, result.Video.Title)
		if result.Best != nil {
			fmt.Printf("     Best candidate: %s (score %.1f)\n", result.Best.Name, result.Score)
		} else {
			fmt.Printf("     Best candidate: (none)\n")
		}
	}

	if flagged == 0 {
		fmt.Println("✅ Every title scored at or above the threshold")
	} else {
		fmt.Printf("\nFlagged %d of %d titles\n", flagged, len(results))
	}
	return nil
}

// runRemoved lists local entries with no counterpart in the remote
// playlist: songs removed from the remote side since the last sync.
func (app *Application) runRemoved(ctx context.Context) error {
	videos := app.fetchVideos(ctx)

	entries, err := app.loadLibrary()
	if err != nil {
		return err
	}

	removed := app.matcher.Removed(videos, entries)

	fmt.Println(strings.Repeat(separatorLine, separatorLength))
	fmt.Println("LOCAL SONGS NO LONGER IN THE REMOTE PLAYLIST")
	fmt.Println(strings.Repeat(separatorLine, separatorLength))

	if len(removed) == 0 {
		fmt.Println("✅ Every local song is still in the playlist")
		return nil
	}

	for i, entry := range removed {
		fmt.Printf("%3d. %s\n", i+1, entry.Name)
		debugLog("  path: %s", entry.Path)
	}
	fmt.Printf("\nFound %d removed song(s) out of %d local entries\n", len(removed), len(entries))
	return nil
}

// displayResults displays the per-title matching results
func (app *Application) displayResults(results []match.Result) {
	for i, result := range results {
		status := "❌ No match"
		if result.Matched {
			if result.Exact {
				status = "✅ Exact match"
			} else {
				status = "🔍 Fuzzy match"
			}
		}

		fmt.Printf("%3d. %s: %s", i+1, result.Video.Title, status)
		if result.Matched && result.Best != nil {
			fmt.Printf(" (%s)", result.Best.Name)
		}
		fmt.Println()

		if result.Best != nil {
			debugLog("  score %.3f against %s", result.Score, result.Best.Name)
		}
	}
}

// displaySummary displays a summary of the matching results
func (app *Application) displaySummary(summary match.Summary) {
	fmt.Println("\n" + strings.Repeat(separatorLine, separatorLength))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat(separatorLine, separatorLength))
	fmt.Printf("Total songs: %d\n", summary.Total)
	if summary.Total > 0 {
		fmt.Printf("Matched: %d (%.1f%%)\n", summary.Matched, float64(summary.Matched)/float64(summary.Total)*100)
		fmt.Printf("Missing: %d (%.1f%%)\n", summary.Missing, float64(summary.Missing)/float64(summary.Total)*100)
	}
	if summary.Exact > 0 {
		fmt.Printf("Exact canonical matches: %d\n", summary.Exact)
	}
}

// reportMissing writes and displays the missing-songs report. The file
// is only written when at least one song is missing.
func (app *Application) reportMissing(ctx context.Context, results []match.Result, entries []library.Entry) error {
	missing := playlist.MissingTitles(results)
	if len(missing) == 0 {
		fmt.Println("\n✅ Every song in the playlist was found locally")
		return nil
	}

	fmt.Println("\n" + strings.Repeat(separatorLine, separatorLength))
	fmt.Println("MISSING SONGS")
	fmt.Println(strings.Repeat(separatorLine, separatorLength))

	for i, title := range missing {
		fmt.Printf("%3d. %s\n", i+1, title)

		if closest, similarity := app.matcher.Closest(title, entries); closest != nil {
			fmt.Printf("     Closest local file: %s (%.2f)\n", closest.Name, similarity)
		}

		if app.config.Match.MusicBrainzLookup {
			if rec, err := app.musicBrainzClient.LookupRecording(ctx, title); err == nil {
				fmt.Printf("     MusicBrainz: %s - https://musicbrainz.org/recording/%s\n", rec.Title, rec.ID)
			} else {
				debugLog("  MusicBrainz lookup failed for %q: %v", title, err)
			}
		}
	}

	if err := playlist.WriteMissingReport(app.config.Output.MissingPath, missing); err != nil {
		return err
	}
	fmt.Printf("\n✅ Wrote %d missing song(s) to %s\n", len(missing), app.config.Output.MissingPath)
	return nil
}

// parseFlags parses command line flags and returns configuration
// overrides keyed by their environment variable names
func parseFlags() map[string]string {
	mode := flag.String("mode", "", "Run mode: sync, missing, guess, dupes or removed (overrides YTM3U_MODE)")
	playlistURL := flag.String("url", "", "YouTube playlist URL or ID (overrides YTM3U_PLAYLIST_URL)")
	apiKey := flag.String("api-key", "", "YouTube Data API key; without one yt-dlp is used (overrides YTM3U_API_KEY)")
	musicDir := flag.String("music-dir", "", "Local music directory to scan (overrides YTM3U_MUSIC_DIR)")
	libraryM3U := flag.String("library-m3u", "", "Exported M3U listing the local library (overrides YTM3U_LIBRARY_M3U)")
	output := flag.String("o", "", "Output playlist path (overrides YTM3U_OUTPUT)")
	missing := flag.String("missing", "", "Missing-songs report path (overrides YTM3U_MISSING)")
	deviceDir := flag.String("device-dir", "", "On-device music directory for guess mode (overrides YTM3U_DEVICE_DIR)")
	strategy := flag.String("strategy", "", "Matching strategy: scan or lookup (overrides YTM3U_STRATEGY)")
	scorer := flag.String("scorer", "", "Similarity scorer: ratio, token or positional (overrides YTM3U_SCORER)")
	mbLookup := flag.Bool("mb", false, "Look up missing songs on MusicBrainz")
	flag.BoolVar(&debugMode, "debug", false, "Enable debug output (detailed score information)")
	showVersion := flag.Bool("version", false, "Show version information")

	flag.Parse()

	if *showVersion {
		fmt.Printf("ytm3u version %s\n", version)
		os.Exit(exitCodeSuccess)
	}

	overrides := map[string]string{
		"YTM3U_MODE":         *mode,
		"YTM3U_PLAYLIST_URL": *playlistURL,
		"YTM3U_API_KEY":      *apiKey,
		"YTM3U_MUSIC_DIR":    *musicDir,
		"YTM3U_LIBRARY_M3U":  *libraryM3U,
		"YTM3U_OUTPUT":       *output,
		"YTM3U_MISSING":      *missing,
		"YTM3U_DEVICE_DIR":   *deviceDir,
		"YTM3U_STRATEGY":     *strategy,
		"YTM3U_SCORER":       *scorer,
	}
	if *mbLookup {
		overrides["YTM3U_MUSICBRAINZ"] = "true"
	}
	return overrides
}

func main() {
	overrides := parseFlags()

	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(exitCodeConfigError)
	}

	app := NewApplication(cfg)

	if err := app.Run(context.Background()); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(exitCodeRunError)
	}
}
