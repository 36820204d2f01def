// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine implements the animated backdrop.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/wsi"
)

const (
	// Fraction of the remaining distance that the
	// camera covers on every frame.
	DefaultBlend = 0.03

	// Opacity of the surface while motion is paused.
	PausedOpacity = 0.3

	dflFPS    = 60
	dflWidth  = 160
	dflHeight = 90
)

// Tier is the device capability tier.
type Tier int

// Tiers.
const (
	Full Tier = iota
	Constrained
)

func (t Tier) String() string {
	switch t {
	case Full:
		return "full"
	case Constrained:
		return "constrained"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "full":
		*t = Full
	case "constrained", "mobile":
		*t = Constrained
	default:
		return fmt.Errorf("engine: invalid tier %q", b)
	}
	return nil
}

// Counts returns the number of galaxy and starfield
// points generated for tier t.
func (t Tier) Counts() (galaxy, stars int) {
	if t == Constrained {
		return 4000, 1200
	}
	return 12000, 3000
}

// Motion is the motion configuration. It is sampled
// once by Initialize.
type Motion struct {
	Tier    Tier
	Reduced bool
}

// Config is used to configure the engine.
type Config struct {
	// Device capability tier.
	//
	// Default is Full.
	Tier Tier `toml:"tier"`

	// Whether the user asked for reduced motion.
	// If set, Initialize fails with ErrReducedMotion.
	//
	// Default is false.
	ReducedMotion bool `toml:"reduced_motion"`

	// Seed for procedural generation.
	// Zero derives one from the clock.
	//
	// Default is 0.
	Seed uint64 `toml:"seed"`

	// Identifier of the drawing surface.
	//
	// Default is wsi.DefaultID.
	Surface string `toml:"surface"`

	// Path of the centerpiece model.
	//
	// Default is asset.DefaultPath.
	Asset string `toml:"asset"`

	// Camera interpolation factor in (0, 1).
	//
	// Default is DefaultBlend.
	Blend float32 `toml:"blend"`

	// Frame rate of hosts that drive the loop from
	// a timer.
	//
	// Default is 60.
	FPS int `toml:"fps"`

	// Size of surfaces created by hosts.
	//
	// Default is 160×90.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Where the centerpiece is fetched from.
	// If nil, the fallback is always used.
	Fetcher asset.Fetcher `toml:"-"`

	// Creates the renderer for the surface.
	// If nil, the raster renderer is used.
	NewRenderer NewRenderer `toml:"-"`

	// Logger.
	//
	// Default is slog.Default().
	Log *slog.Logger `toml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Tier:    Full,
		Surface: wsi.DefaultID,
		Asset:   asset.DefaultPath,
		Blend:   DefaultBlend,
		FPS:     dflFPS,
		Width:   dflWidth,
		Height:  dflHeight,
	}
}

// Motion returns the motion configuration of c.
func (c *Config) Motion() Motion { return Motion{Tier: c.Tier, Reduced: c.ReducedMotion} }

// LoadConfig reads a TOML configuration file.
// Keys absent from the file keep their default
// values. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: read config: %w", err)
	}
	defer f.Close()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return cfg, fmt.Errorf("engine: parse config %s: %s", path, serr.String())
		}
		return cfg, fmt.Errorf("engine: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds command-line values that override
// configuration file settings.
// Zero values are ignored.
type Flags struct {
	Tier          string
	ReducedMotion bool
	Seed          uint64
	Surface       string
	Asset         string
	FPS           int
	Width         int
	Height        int
}

// Resolve applies flags over c and fills in any
// invalid field with its default value.
func (c *Config) Resolve(flags Flags) error {
	if flags.Tier != "" {
		if err := c.Tier.UnmarshalText([]byte(flags.Tier)); err != nil {
			return err
		}
	}
	if flags.ReducedMotion {
		c.ReducedMotion = true
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Surface != "" {
		c.Surface = flags.Surface
	}
	if flags.Asset != "" {
		c.Asset = flags.Asset
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}

	dfl := DefaultConfig()
	if c.Surface == "" {
		c.Surface = dfl.Surface
	}
	if c.Asset == "" {
		c.Asset = dfl.Asset
	}
	if c.Blend <= 0 || c.Blend >= 1 {
		c.Blend = dfl.Blend
	}
	if c.FPS <= 0 {
		c.FPS = dfl.FPS
	}
	if c.Width <= 0 {
		c.Width = dfl.Width
	}
	if c.Height <= 0 {
		c.Height = dfl.Height
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return nil
}
