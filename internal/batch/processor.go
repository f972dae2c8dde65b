// Package batch renders animation frames across a worker pool and encodes
// them to WebP.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"oit-renderer/internal/pipeline"
	"oit-renderer/internal/postprocess"
	"oit-renderer/internal/scene"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Pipeline    pipeline.Options
	OutputDir   string
	OutputSize  int // downscale target, 0 = native
	WebPQuality int
	FrameStep   float64 // animation seconds per frame
	Workers     int
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int
	Time    float64
	Success bool
	Error   string
}

// Run renders frames [0, total) using a worker pool. Frames are
// independent, so each worker owns a private pipeline; only the scene is
// shared (read-only).
func Run(cfg Config, s *scene.Scene, total int) []Result {
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}
	frameChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := pipeline.New(cfg.Pipeline)
			if err != nil {
				for idx := range frameChan {
					results[idx] = Result{Frame: idx, Error: err.Error()}
					processed.Add(1)
				}
				return
			}
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, p, s, idx)
				processed.Add(1)
			}
		}()
	}

	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, p *pipeline.Pipeline, s *scene.Scene, idx int) Result {
	t := float64(idx) * cfg.FrameStep
	img, _ := p.Frame(s, float32(t))

	if cfg.OutputSize > 0 {
		img = postprocess.Downsample(img, cfg.OutputSize)
	}

	outPath := filepath.Join(cfg.OutputDir, FrameName(idx))
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return Result{Frame: idx, Time: t, Error: err.Error()}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return Result{Frame: idx, Time: t, Error: err.Error()}
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return Result{Frame: idx, Time: t, Error: fmt.Sprintf("WebP encode: %v", err)}
	}

	return Result{Frame: idx, Time: t, Success: true}
}

// FrameName returns the output file name for a frame index.
func FrameName(idx int) string {
	return fmt.Sprintf("frame_%04d.webp", idx)
}
