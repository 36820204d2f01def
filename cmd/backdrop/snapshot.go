// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/spf13/cobra"

	"github.com/gviegas/backdrop/camera"
	"github.com/gviegas/backdrop/engine"
	"github.com/gviegas/backdrop/loop"
	"github.com/gviegas/backdrop/wsi"
)

type snapOptions struct {
	out     string
	format  string
	step    string
	frames  int
	every   int
	timeout time.Duration
}

func newSnapshot(opts *options, stderr io.Writer) *cobra.Command {
	so := snapOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render frames of the backdrop to image files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(stderr)
			if err != nil {
				return err
			}
			files, err := snapshot(cmd.Context(), cfg, so)
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&so.out, "out", "o", ".", "output directory")
	f.StringVar(&so.format, "format", "webp", "image format (webp, png)")
	f.StringVar(&so.step, "step", "1", "wizard step to move the camera to (1-5, accepted)")
	f.IntVar(&so.frames, "frames", 120, "number of frames to simulate")
	f.IntVar(&so.every, "every", 30, "write every n-th frame")
	f.DurationVar(&so.timeout, "timeout", 10*time.Second, "how long to wait for the centerpiece")
	return cmd
}

var errFormat = errors.New("unsupported image format")

// snapshot simulates so.frames frames offscreen and
// writes every so.every-th one to so.out.
// It returns the paths of the files written.
func snapshot(ctx context.Context, cfg engine.Config, so snapOptions) ([]string, error) {
	var encode func(io.Writer, image.Image) error
	switch so.format {
	case "webp":
		encode = func(w io.Writer, img image.Image) error { return nativewebp.Encode(w, img, nil) }
	case "png":
		encode = png.Encode
	default:
		return nil, fmt.Errorf("%w: %q", errFormat, so.format)
	}
	step, ok := camera.ParseStep(so.step)
	if !ok {
		return nil, fmt.Errorf("invalid step %q", so.step)
	}
	if err := os.MkdirAll(so.out, 0o755); err != nil {
		return nil, err
	}

	surf, err := wsi.NewImage(cfg.Surface, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	defer surf.Close()
	m := loop.NewManual(time.Now())
	e, err := engine.Initialize(ctx, cfg, m)
	if err != nil {
		if errors.Is(err, engine.ErrReducedMotion) {
			cfg.Log.Info("reduced motion requested, nothing to render")
			return nil, nil
		}
		return nil, err
	}
	defer e.Close()

	wctx, cancel := context.WithTimeout(ctx, so.timeout)
	defer cancel()
	for {
		if _, _, ok := e.Scene().Centerpiece(); ok {
			break
		}
		if err := m.Await(wctx); err != nil {
			return nil, fmt.Errorf("waiting for centerpiece: %w", err)
		}
	}
	e.Transition(step)

	dt := time.Second / time.Duration(cfg.FPS)
	every := max(1, so.every)
	var files []string
	for i := 1; i <= so.frames; i++ {
		m.Tick(dt)
		if i%every != 0 {
			continue
		}
		name := filepath.Join(so.out, fmt.Sprintf("frame-%04d.%s", i, so.format))
		if err := write(name, surf.Frame(), encode); err != nil {
			return files, err
		}
		files = append(files, name)
	}
	cfg.Log.Debug("snapshot done", "frames", e.Loop().Frames(), "files", len(files))
	return files, nil
}

func write(name string, img *image.RGBA, encode func(io.Writer, image.Image) error) error {
	if img == nil {
		return fmt.Errorf("%s: no frame presented", name)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	return f.Close()
}
