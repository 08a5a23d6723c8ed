package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 0.6, rules.RatioThreshold)
	assert.Equal(t, 0.7, rules.TokenThreshold)
	assert.Equal(t, 90.0, rules.PositionalThreshold)
	assert.Equal(t, "(MP3_160K).mp3", rules.PathSuffix)
	assert.Contains(t, rules.AudioExtensions, ".mp3")
	assert.Contains(t, rules.AudioExtensions, ".flac")
	// The built-in vocabulary lives in the match package; empty here
	// means "use it".
	assert.Empty(t, rules.NoisePhrases)
}

func TestLoadRulesFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
ratio_threshold: 0.8
path_suffix: "(OPUS_128K).opus"
noise_phrases:
  - remastered
  - live
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("YTM3U_RULES", path)

	rules := LoadRules()

	// Overridden keys
	assert.Equal(t, 0.8, rules.RatioThreshold)
	assert.Equal(t, "(OPUS_128K).opus", rules.PathSuffix)
	assert.Equal(t, []string{"remastered", "live"}, rules.NoisePhrases)

	// Absent keys keep their defaults
	assert.Equal(t, 0.7, rules.TokenThreshold)
	assert.Equal(t, 90.0, rules.PositionalThreshold)
	assert.Contains(t, rules.AudioExtensions, ".mp3")
}

func TestLoadRulesMissingEnvPathKeepsDefaults(t *testing.T) {
	t.Setenv("YTM3U_RULES", filepath.Join(t.TempDir(), "nope.yaml"))

	rules := LoadRules()
	assert.Equal(t, DefaultRules().RatioThreshold, rules.RatioThreshold)
	assert.Equal(t, DefaultRules().PathSuffix, rules.PathSuffix)
}

func TestRulesThreshold(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, rules.RatioThreshold, rules.Threshold("ratio"))
	assert.Equal(t, rules.TokenThreshold, rules.Threshold("token"))
	assert.Equal(t, rules.PositionalThreshold, rules.Threshold("positional"))
	// Unknown scorers fall back to the ratio threshold
	assert.Equal(t, rules.RatioThreshold, rules.Threshold("anything"))
}
