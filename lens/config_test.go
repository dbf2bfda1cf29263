package lens

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lens.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, float32(0.15), cfg.MaskRadius)
	assert.Equal(t, float32(0.75), cfg.MaskSpeed)
	assert.Equal(t, float32(0.05), cfg.LerpFactor)
	assert.Equal(t, float32(0.1), cfg.RadiusLerpSpeed)
	assert.Equal(t, float32(0.075), cfg.TurbulenceIntensity)
	assert.Equal(t, float32(0.1), cfg.BrushWarp())
}

func TestLoadConfigOverlay(t *testing.T) {
	path := writeConfig(t, `
mask_radius = 0.25
warp_mode = "intensity"
fit = "cover"
load_timeout = "250ms"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, float32(0.25), cfg.MaskRadius)
	assert.Equal(t, WarpIntensity, cfg.WarpMode)
	assert.Equal(t, FitCover, cfg.Fit)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.LoadTimeout)
	assert.Equal(t, float32(0.075), cfg.BrushWarp())
	// untouched keys keep their defaults
	assert.Equal(t, float32(0.05), cfg.LerpFactor)
}

func TestLoadConfigRejects(t *testing.T) {
	for name, body := range map[string]string{
		"unknown key":  `mask_size = 1.0`,
		"bad mode":     `warp_mode = "wobbly"`,
		"bad lerp":     `lerp_factor = 0.0`,
		"bad duration": `load_timeout = "soon"`,
		"bad fit":      `fit = "contain"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
