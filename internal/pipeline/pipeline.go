// Package pipeline runs one frame end to end: clear, opaque MSAA pass,
// parallel translucent writer pass, barrier, opaque box resolve, and the
// per-sample OIT resolve into the output image.
package pipeline

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/loov/hrtime"
	"golang.org/x/sync/errgroup"

	"oit-renderer/internal/oit"
	"oit-renderer/internal/raster"
	"oit-renderer/internal/scene"
)

// Options fixes the per-frame buffer sizes. SampleCount, FragmentCount and
// LayerCount correspond to the classic compile-time constants of the
// technique.
type Options struct {
	Width         int
	Height        int
	SampleCount   int // MSAA samples (1, 2, 4, 8)
	FragmentCount int // resolve-time traversal cap per sample
	LayerCount    int // node pool capacity factor (expected avg overdraw)
	Workers       int // goroutines for writer + resolve; <=0 = GOMAXPROCS
}

// Timings reports per-pass wall time for one frame.
type Timings struct {
	Clear       time.Duration
	Opaque      time.Duration
	Translucent time.Duration
	BoxResolve  time.Duration
	Resolve     time.Duration
}

// Pipeline owns every buffer tied to the output dimensions. Not safe for
// concurrent Frame calls; one frame runs to completion at a time.
type Pipeline struct {
	opts Options

	target *raster.Target
	pool   *oit.NodePool
	heads  *oit.HeadTable
	out    *image.NRGBA

	light    raster.LightConfig
	resolver oit.Resolver
}

// New validates the options and allocates all frame buffers.
func New(opts Options) (*Pipeline, error) {
	if opts.FragmentCount <= 0 {
		opts.FragmentCount = 32
	}
	if opts.LayerCount <= 0 {
		opts.LayerCount = 8
	}
	if opts.SampleCount <= 0 {
		opts.SampleCount = 4
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	p := &Pipeline{
		opts:  opts,
		light: raster.DefaultLightConfig(),
		resolver: oit.Resolver{
			SampleCount:   opts.SampleCount,
			FragmentCount: opts.FragmentCount,
			Workers:       opts.Workers,
		},
	}
	if err := p.Resize(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	return p, nil
}

// Resize tears down and reallocates every dimension-tied buffer. The head
// table comes back cleared to the sentinel, so no stale cross-resolution
// list survives into the next writer phase.
func (p *Pipeline) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("pipeline: invalid size %dx%d", width, height)
	}
	target, err := raster.NewTarget(width, height, p.opts.SampleCount)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	p.opts.Width = width
	p.opts.Height = height
	p.target = target
	p.pool = oit.NewNodePool(width, height, p.opts.LayerCount)
	p.heads = oit.NewHeadTable(width, height)
	p.out = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Size returns the current output dimensions.
func (p *Pipeline) Size() (int, int) {
	return p.opts.Width, p.opts.Height
}

// Frame renders the scene at animation time t and returns the composited
// image. The returned image is reused by the next Frame call; callers that
// keep it must copy.
func (p *Pipeline) Frame(s *scene.Scene, t float32) (*image.NRGBA, Timings) {
	var tm Timings
	w, h := p.opts.Width, p.opts.Height
	mvp := scene.Projection(w, h).Mul4(scene.View(t))

	// Frame-scoped state reset: color+depth planes, head pointers,
	// allocation counter.
	start := hrtime.Now()
	p.target.Clear(0, 0, 0, 1)
	p.heads.Clear()
	p.pool.Reset()
	tm.Clear = hrtime.Since(start)

	// Opaque pass: per-sample depth test + write.
	start = hrtime.Now()
	for _, tri := range s.Opaque {
		st, ok := scene.Project(tri, mvp, w, h)
		if !ok {
			continue
		}
		shade := p.light.ComputeShade(tri.Normal())
		raster.DrawOpaque(p.target, &st, shade)
	}
	tm.Opaque = hrtime.Since(start)

	// Translucent writer pass: one goroutine per triangle, all feeding the
	// same lock-free writer. Group wait is the execution barrier between
	// the writer phase and the resolve phase.
	start = hrtime.Now()
	writer := oit.NewWriter(p.pool, p.heads)
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for _, tri := range s.Translucent {
		st, ok := scene.Project(tri, mvp, w, h)
		if !ok {
			continue
		}
		g.Go(func() error {
			raster.DrawTranslucent(p.target, &st, writer)
			return nil
		})
	}
	g.Wait()
	tm.Translucent = hrtime.Since(start)

	// Opaque layer box resolve supplies the background.
	start = hrtime.Now()
	p.target.BoxResolve(p.out)
	tm.BoxResolve = hrtime.Since(start)

	// Fragment lists are frozen now; composite per sample.
	start = hrtime.Now()
	p.resolver.Resolve(p.heads, p.pool, p.out)
	tm.Resolve = hrtime.Since(start)

	return p.out, tm
}

// CaptureState exposes the frozen fragment structures of the last frame for
// capture/inspection tooling. Only valid between Frame calls.
func (p *Pipeline) CaptureState() (*oit.HeadTable, *oit.NodePool) {
	return p.heads, p.pool
}

// String summarizes timings for log output.
func (t Timings) String() string {
	return fmt.Sprintf("clear %.2fms opaque %.2fms translucent %.2fms box %.2fms resolve %.2fms",
		t.Clear.Seconds()*1e3, t.Opaque.Seconds()*1e3, t.Translucent.Seconds()*1e3,
		t.BoxResolve.Seconds()*1e3, t.Resolve.Seconds()*1e3)
}
