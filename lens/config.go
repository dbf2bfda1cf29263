package lens

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// WarpMode selects the scale applied to the brush-gated turbulence term.
type WarpMode string

const (
	// WarpLiteral scales the brush warp by the constant 0.1.
	WarpLiteral WarpMode = "literal"
	// WarpIntensity scales the brush warp by Config.TurbulenceIntensity.
	WarpIntensity WarpMode = "intensity"
)

// Fit selects how the image is framed inside the render surface.
type Fit string

const (
	// FitStretch maps the whole image onto the surface regardless of aspect.
	FitStretch Fit = "stretch"
	// FitCover scales the image to fill the surface, cropping the overflow.
	FitCover Fit = "cover"
)

const literalBrushWarp = 0.1

// Duration is a time.Duration that reads from strings such as "5s" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config holds the construction-time parameters of a lens. Values are
// copied into the controller and never mutated while it runs.
type Config struct {
	MaskRadius          float32  `toml:"mask_radius"`          // brush size when active
	MaskSpeed           float32  `toml:"mask_speed"`           // uploaded as u_speed, unused by the warp
	LerpFactor          float32  `toml:"lerp_factor"`          // cursor smoothing rate
	RadiusLerpSpeed     float32  `toml:"radius_lerp_speed"`    // brush fade in/out rate
	TurbulenceIntensity float32  `toml:"turbulence_intensity"` // uploaded; scales the warp in WarpIntensity mode
	WarpMode            WarpMode `toml:"warp_mode"`
	Fit                 Fit      `toml:"fit"`
	LoadTimeout         Duration `toml:"load_timeout"`
	VisibilityThreshold float64  `toml:"visibility_threshold"`
}

// DefaultConfig returns the stock lens parameters.
func DefaultConfig() Config {
	return Config{
		MaskRadius:          0.15,
		MaskSpeed:           0.75,
		LerpFactor:          0.05,
		RadiusLerpSpeed:     0.1,
		TurbulenceIntensity: 0.075,
		WarpMode:            WarpLiteral,
		Fit:                 FitStretch,
		LoadTimeout:         Duration(10 * time.Second),
		VisibilityThreshold: 0.1,
	}
}

// LoadConfig reads a TOML file and overlays the keys it sets on DefaultConfig.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	if c.MaskRadius < 0 {
		return fmt.Errorf("mask_radius must be >= 0, got %v", c.MaskRadius)
	}
	if c.LerpFactor <= 0 || c.LerpFactor > 1 {
		return fmt.Errorf("lerp_factor must be in (0, 1], got %v", c.LerpFactor)
	}
	if c.RadiusLerpSpeed <= 0 || c.RadiusLerpSpeed > 1 {
		return fmt.Errorf("radius_lerp_speed must be in (0, 1], got %v", c.RadiusLerpSpeed)
	}
	if c.TurbulenceIntensity < 0 {
		return fmt.Errorf("turbulence_intensity must be >= 0, got %v", c.TurbulenceIntensity)
	}
	switch c.WarpMode {
	case WarpLiteral, WarpIntensity:
	default:
		return fmt.Errorf("unknown warp_mode %q", c.WarpMode)
	}
	switch c.Fit {
	case FitStretch, FitCover:
	default:
		return fmt.Errorf("unknown fit %q", c.Fit)
	}
	if c.LoadTimeout <= 0 {
		return fmt.Errorf("load_timeout must be positive, got %v", time.Duration(c.LoadTimeout))
	}
	if c.VisibilityThreshold < 0 || c.VisibilityThreshold > 1 {
		return fmt.Errorf("visibility_threshold must be in [0, 1], got %v", c.VisibilityThreshold)
	}
	return nil
}

// BrushWarp returns the scale of the brush-gated turbulence term for the configured mode.
func (c Config) BrushWarp() float32 {
	if c.WarpMode == WarpIntensity {
		return c.TurbulenceIntensity
	}
	return literalBrushWarp
}
