// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package asset loads the backdrop's centerpiece model,
// synthesizing a substitute when it cannot be loaded.
package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/chewxy/math32"

	"github.com/gviegas/backdrop/gen"
	"github.com/gviegas/backdrop/linear"
	"github.com/gviegas/backdrop/node"
)

// DefaultPath is where the centerpiece model is
// expected, relative to the asset root.
const DefaultPath = "models/pomegranate.glb"

// Kind identifies how a Result was produced.
type Kind int

// Result kinds.
const (
	Loaded Kind = iota + 1
	Fallback
)

func (k Kind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Fallback:
		return "fallback"
	}
	return "none"
}

// Result is the outcome of a Load.
type Result struct {
	Kind Kind
	Node *node.Node
	// Lights tuned to the model.
	// Only set for Loaded results.
	Lights []*node.Node
	// Cause of a Fallback.
	Err error
}

var (
	errEmpty   = errors.New("asset: model has no nodes")
	errStatus  = errors.New("asset: unexpected HTTP status")
	errNilFS   = errors.New("asset: nil file system")
	errNoFetch = errors.New("asset: no fetcher")
	errPanic   = errors.New("asset: decoder panicked")
)

// Fetcher retrieves raw asset bytes by path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (io.ReadCloser, error)
}

// FetcherFunc is a function that implements Fetcher.
type FetcherFunc func(ctx context.Context, path string) (io.ReadCloser, error)

// Fetch calls f(ctx, path).
func (f FetcherFunc) Fetch(ctx context.Context, path string) (io.ReadCloser, error) {
	return f(ctx, path)
}

// DirFetcher fetches assets from a file system.
type DirFetcher struct{ FS fs.FS }

// Fetch opens path in the file system.
func (d DirFetcher) Fetch(_ context.Context, name string) (io.ReadCloser, error) {
	if d.FS == nil {
		return nil, errNilFS
	}
	return d.FS.Open(path.Clean(name))
}

// HTTPFetcher fetches assets relative to a base URL.
type HTTPFetcher struct {
	Base   *url.URL
	Client *http.Client
}

// Fetch issues a GET for path resolved against Base.
func (h HTTPFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	u := ref
	if h.Base != nil {
		u = h.Base.ResolveReference(ref)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	c := h.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", errStatus, resp.Status)
	}
	return resp.Body, nil
}

// Loader resolves the centerpiece.
type Loader struct {
	Fetcher Fetcher
	Log     *slog.Logger
}

// Load makes exactly one attempt at retrieving and
// decoding the model at path, in a new goroutine.
// Whatever the outcome, done is called exactly once,
// from within a function handed to post, so that it
// runs wherever post runs its functions (typically the
// frame goroutine). Failures are never retried; they
// produce a Fallback result instead.
func (l *Loader) Load(ctx context.Context, path string, post func(func()), done func(Result)) {
	var once sync.Once
	deliver := func(r Result) {
		post(func() { once.Do(func() { done(r) }) })
	}
	fallback := func(err error) {
		l.log().Warn("centerpiece unavailable, using fallback", "path", path, "err", err)
		deliver(Result{Kind: Fallback, Node: gen.Pomegranate(), Err: err})
	}
	go func() {
		defer func() {
			if x := recover(); x != nil {
				fallback(fmt.Errorf("%w: %v", errPanic, x))
			}
		}()
		n, err := l.fetch(ctx, path)
		if err != nil {
			fallback(err)
			return
		}
		l.log().Debug("centerpiece loaded", "path", path, "nodes", n.Len())
		deliver(Result{Kind: Loaded, Node: n, Lights: ModelLights(n)})
	}()
}

func (l *Loader) fetch(ctx context.Context, path string) (*node.Node, error) {
	if l.Fetcher == nil {
		return nil, errNoFetch
	}
	rc, err := l.Fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	n, err := Decode(rc)
	if err != nil {
		return nil, err
	}
	n.Scale = linear.V3{2, 2, 2}
	n.Pos = linear.V3{}
	return n, nil
}

func (l *Loader) log() *slog.Logger {
	if l.Log == nil {
		return slog.Default()
	}
	return l.Log
}

// ModelLights returns the supplemental lights for a
// loaded model: a spot light aimed at it from above
// and a rim light behind it.
func ModelLights(model *node.Node) []*node.Node {
	spot := node.NewLight("centerpiece.spot", &node.Lamp{
		Type:      node.Spot,
		Color:     gen.RGB(0xff6b9d),
		Intensity: 3,
		Angle:     math32.Pi / 6,
		Penumbra:  0.3,
		Target:    model,
	})
	spot.Pos = linear.V3{5, 10, 5}
	rim := node.NewLight("centerpiece.rim", &node.Lamp{
		Type:      node.Point,
		Color:     gen.RGB(0x9d4edd),
		Intensity: 2,
		Range:     15,
	})
	rim.Pos = linear.V3{-5, 3, -5}
	return []*node.Node{spot, rim}
}
