package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Rules holds the data-driven part of the matching pipeline: the
// noise-phrase vocabulary, scan extensions, acceptance thresholds and
// the filename convention used by guess mode. Everything has a working
// default; a rules file only needs the keys it wants to change.
type Rules struct {
	// NoisePhrases are stripped from titles when they appear inside
	// parentheses or brackets. Empty means the built-in vocabulary.
	NoisePhrases []string `yaml:"noise_phrases"`

	// AudioExtensions are the file extensions picked up by the
	// directory scanner.
	AudioExtensions []string `yaml:"audio_extensions"`

	// Acceptance thresholds per scorer.
	RatioThreshold      float64 `yaml:"ratio_threshold"`      // 0..1 scale
	TokenThreshold      float64 `yaml:"token_threshold"`      // 0..1 scale
	PositionalThreshold float64 `yaml:"positional_threshold"` // 0..100 scale

	// PathSuffix is appended to sanitized titles by guess mode, per the
	// downloader's naming convention.
	PathSuffix string `yaml:"path_suffix"`

	// GuessExtensions are the fallback extensions guess mode tries
	// after the suffixed filename, most likely first.
	GuessExtensions []string `yaml:"guess_extensions"`
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	return Rules{
		AudioExtensions:     []string{".mp3", ".m4a", ".flac", ".ogg", ".wav", ".aac", ".wma"},
		RatioThreshold:      0.6,
		TokenThreshold:      0.7,
		PositionalThreshold: 90,
		PathSuffix:          "(MP3_160K).mp3",
		GuessExtensions:     []string{".mp3", ".m4a", ".aac", ".flac", ".ogg"},
	}
}

// rulesPaths returns the list of paths to search for a rules file.
func rulesPaths() []string {
	paths := []string{
		".ytm3u.yaml",
		".ytm3u.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "ytm3u", "rules.yaml"),
			filepath.Join(home, ".config", "ytm3u", "rules.yml"),
		)
	}

	return paths
}

// LoadRules loads matching rules, starting from the defaults and
// merging the first rules file found.
// Priority: env YTM3U_RULES > search paths > defaults
func LoadRules() Rules {
	rules := DefaultRules()

	if envPath := os.Getenv("YTM3U_RULES"); envPath != "" {
		// An explicitly named file that fails to parse is ignored
		// rather than fatal; the defaults still work.
		_ = rules.loadFromFile(envPath)
		return rules
	}

	for _, path := range rulesPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = rules.loadFromFile(path)
			break
		}
	}

	return rules
}

func (r *Rules) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshalling onto the populated struct means absent keys keep
	// their defaults.
	return yaml.Unmarshal(data, r)
}

// Threshold returns the acceptance threshold for the named scorer.
func (r Rules) Threshold(scorer string) float64 {
	switch scorer {
	case "token":
		return r.TokenThreshold
	case "positional":
		return r.PositionalThreshold
	default:
		return r.RatioThreshold
	}
}
