// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command backdrop renders the animated backdrop in a
// terminal or to image files.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gviegas/backdrop/asset"
	"github.com/gviegas/backdrop/engine"
)

// options holds the flags shared by every command.
type options struct {
	config   string
	logLevel string
	assets   string
	assetURL string
	flags    engine.Flags
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRoot(os.Stderr).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRoot(stderr io.Writer) *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:           "backdrop",
		Short:         "Animated 3D backdrop for the booking wizard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetErr(stderr)
	pf := root.PersistentFlags()
	pf.StringVar(&opts.config, "config", "", "path to a TOML configuration file")
	pf.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.assets, "assets", "", "directory holding the centerpiece model")
	pf.StringVar(&opts.assetURL, "asset-url", "", "base URL holding the centerpiece model")
	pf.StringVar(&opts.flags.Tier, "tier", "", "device tier (full, constrained)")
	pf.BoolVar(&opts.flags.ReducedMotion, "reduced-motion", false, "behave as if reduced motion was requested")
	pf.Uint64Var(&opts.flags.Seed, "seed", 0, "seed for procedural generation (0 uses the clock)")
	pf.StringVar(&opts.flags.Asset, "model", "", "path of the centerpiece model, relative to the asset root")
	pf.IntVar(&opts.flags.FPS, "fps", 0, "frames per second")
	pf.IntVar(&opts.flags.Width, "width", 0, "width in pixels")
	pf.IntVar(&opts.flags.Height, "height", 0, "height in pixels")

	root.AddCommand(newPreview(&opts), newSnapshot(&opts, stderr))
	return root
}

// resolve builds the engine configuration from the
// configuration file and the flags.
func (o *options) resolve(stderr io.Writer) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = engine.LoadConfig(o.config); err != nil {
			return cfg, err
		}
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(o.logLevel)); err != nil {
		return cfg, fmt.Errorf("invalid --log-level %q", o.logLevel)
	}
	cfg.Log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	switch {
	case o.assets != "":
		cfg.Fetcher = asset.DirFetcher{FS: os.DirFS(o.assets)}
	case o.assetURL != "":
		base := o.assetURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return cfg, fmt.Errorf("invalid --asset-url: %w", err)
		}
		cfg.Fetcher = asset.HTTPFetcher{Base: u, Client: http.DefaultClient}
	}
	if err := cfg.Resolve(o.flags); err != nil {
		return cfg, err
	}
	return cfg, nil
}
