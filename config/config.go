package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Valid run modes.
const (
	ModeSync    = "sync"
	ModeMissing = "missing"
	ModeGuess   = "guess"
	ModeDupes   = "dupes"
	ModeRemoved = "removed"
)

// Config holds all configuration values
type Config struct {
	Mode    string
	YouTube YouTubeConfig
	Library LibraryConfig
	Output  OutputConfig
	Match   MatchConfig
	Rules   Rules
}

// YouTubeConfig holds remote playlist fetch configuration
type YouTubeConfig struct {
	PlaylistURL string
	APIKey      string // when set, the Data API is used instead of yt-dlp
}

// LibraryConfig holds local music library configuration
type LibraryConfig struct {
	MusicDir string // directory to scan for audio files
	M3UPath  string // Musicolet-exported M3U listing the whole library
}

// OutputConfig holds playlist and report output configuration
type OutputConfig struct {
	PlaylistPath string
	MissingPath  string
	DeviceDir    string // on-device music directory used by guess mode
}

// MatchConfig holds matching strategy configuration
type MatchConfig struct {
	Strategy          string
	Scorer            string
	MusicBrainzLookup bool
}

// Load loads configuration following the specified order:
// 1. Start with default values
// 2. Load from OS environment variables (only if they exist)
// 3. Load from .env file (only if it exists and values exist)
// 4. Merge the rules file (thresholds, vocabulary, extensions)
func Load() (*Config, error) {
	config := &Config{}

	config.initializeDefaults()
	config.loadFromOSEnv()
	config.loadFromEnvFile()
	config.Rules = LoadRules()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides
func LoadWithOverrides(overrides map[string]string) (*Config, error) {
	config := &Config{}

	config.initializeDefaults()
	config.loadFromOSEnv()
	config.loadFromEnvFile()
	config.Rules = LoadRules()
	config.applyOverrides(overrides)

	// Validate required configuration after all sources have been loaded
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// initializeDefaults sets up the initial configuration with default values
func (c *Config) initializeDefaults() {
	c.Mode = ModeSync

	c.YouTube = YouTubeConfig{
		PlaylistURL: "",
		APIKey:      "",
	}

	c.Library = LibraryConfig{
		MusicDir: "",
		M3UPath:  "",
	}

	c.Output = OutputConfig{
		PlaylistPath: "playlist.m3u",
		MissingPath:  "missing_songs.txt",
		DeviceDir:    "/storage/emulated/0/snaptube/download/SnapTube Audio",
	}

	c.Match = MatchConfig{
		Strategy:          "scan",
		Scorer:            "ratio",
		MusicBrainzLookup: false,
	}
}

// loadFromOSEnv loads configuration from OS environment variables (only if they exist)
func (c *Config) loadFromOSEnv() {
	if value := os.Getenv("YTM3U_MODE"); value != "" {
		c.Mode = value
	}
	if value := os.Getenv("YTM3U_PLAYLIST_URL"); value != "" {
		c.YouTube.PlaylistURL = value
	}
	if value := os.Getenv("YTM3U_API_KEY"); value != "" {
		c.YouTube.APIKey = value
	}
	if value := os.Getenv("YTM3U_MUSIC_DIR"); value != "" {
		c.Library.MusicDir = value
	}
	if value := os.Getenv("YTM3U_LIBRARY_M3U"); value != "" {
		c.Library.M3UPath = value
	}
	if value := os.Getenv("YTM3U_OUTPUT"); value != "" {
		c.Output.PlaylistPath = value
	}
	if value := os.Getenv("YTM3U_MISSING"); value != "" {
		c.Output.MissingPath = value
	}
	if value := os.Getenv("YTM3U_DEVICE_DIR"); value != "" {
		c.Output.DeviceDir = value
	}
	if value := os.Getenv("YTM3U_STRATEGY"); value != "" {
		c.Match.Strategy = value
	}
	if value := os.Getenv("YTM3U_SCORER"); value != "" {
		c.Match.Scorer = value
	}
	if value := os.Getenv("YTM3U_MUSICBRAINZ"); value != "" {
		if enabled, err := strconv.ParseBool(value); err == nil {
			c.Match.MusicBrainzLookup = enabled
		}
	}
}

// loadFromEnvFile loads configuration from .env file (only if it exists and values exist)
func (c *Config) loadFromEnvFile() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// .env file doesn't exist, skip this step
		return
	}

	// The .env values land in the process environment, so a second env
	// pass picks up anything the file added.
	c.loadFromOSEnv()
}

// applyOverrides applies CLI flag overrides to the configuration (only if they exist)
func (c *Config) applyOverrides(overrides map[string]string) {
	for key, value := range overrides {
		// Only apply if the value is not empty
		if value == "" {
			continue
		}

		switch key {
		case "YTM3U_MODE":
			c.Mode = value
		case "YTM3U_PLAYLIST_URL":
			c.YouTube.PlaylistURL = value
		case "YTM3U_API_KEY":
			c.YouTube.APIKey = value
		case "YTM3U_MUSIC_DIR":
			c.Library.MusicDir = value
		case "YTM3U_LIBRARY_M3U":
			c.Library.M3UPath = value
		case "YTM3U_OUTPUT":
			c.Output.PlaylistPath = value
		case "YTM3U_MISSING":
			c.Output.MissingPath = value
		case "YTM3U_DEVICE_DIR":
			c.Output.DeviceDir = value
		case "YTM3U_STRATEGY":
			c.Match.Strategy = value
		case "YTM3U_SCORER":
			c.Match.Scorer = value
		case "YTM3U_MUSICBRAINZ":
			if enabled, err := strconv.ParseBool(value); err == nil {
				c.Match.MusicBrainzLookup = enabled
			}
		}
	}
}

// validate checks that all required configuration values are present
func (c *Config) validate() error {
	var missingFields []string

	switch c.Mode {
	case ModeSync, ModeMissing, ModeDupes, ModeRemoved:
		if c.YouTube.PlaylistURL == "" {
			missingFields = append(missingFields, "YTM3U_PLAYLIST_URL")
		}
		if c.Library.MusicDir == "" && c.Library.M3UPath == "" {
			missingFields = append(missingFields, "YTM3U_MUSIC_DIR or YTM3U_LIBRARY_M3U")
		}
	case ModeGuess:
		if c.YouTube.PlaylistURL == "" {
			missingFields = append(missingFields, "YTM3U_PLAYLIST_URL")
		}
		if c.Output.DeviceDir == "" {
			missingFields = append(missingFields, "YTM3U_DEVICE_DIR")
		}
	default:
		return fmt.Errorf("unknown mode %q (valid modes: %s, %s, %s, %s, %s)",
			c.Mode, ModeSync, ModeMissing, ModeGuess, ModeDupes, ModeRemoved)
	}

	if c.Match.Strategy != "scan" && c.Match.Strategy != "lookup" {
		return fmt.Errorf("unknown strategy %q (valid strategies: scan, lookup)", c.Match.Strategy)
	}
	if c.Match.Scorer != "ratio" && c.Match.Scorer != "token" && c.Match.Scorer != "positional" {
		return fmt.Errorf("unknown scorer %q (valid scorers: ratio, token, positional)", c.Match.Scorer)
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration values:\n%s\n\nSet these values via environment variables, .env file, or CLI flags", strings.Join(missingFields, "\n"))
	}

	return nil
}
