// Command render draws the OIT demo animation to WebP frames.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"oit-renderer/internal/batch"
	"oit-renderer/internal/capture"
	"oit-renderer/internal/config"
	"oit-renderer/internal/pipeline"
	"oit-renderer/internal/scene"
	"oit-renderer/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	width := flag.Int("width", 0, "Output width (default: 1920)")
	height := flag.Int("height", 0, "Output height (default: 1280)")
	samples := flag.Int("samples", 0, "MSAA samples: 1, 2, 4, 8 (default: 4)")
	frames := flag.Int("frames", 0, "Number of animation frames (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	textureDir := flag.String("textures", "", "Directory of TGA/JPEG/PNG textures for extra translucent panes")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	capturePath := flag.String("capture", "", "Dump frame 0's fragment lists to this file")
	timings := flag.Bool("timings", false, "Print per-pass timings for frame 0")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		Width:      *width,
		Height:     *height,
		Samples:    *samples,
		Frames:     *frames,
		Workers:    *workers,
		OutputDir:  *outputDir,
		TextureDir: *textureDir,
		Quality:    *quality,
	})

	opts := pipeline.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		SampleCount:   cfg.SampleCount,
		FragmentCount: cfg.FragmentCount,
		LayerCount:    cfg.LayerCount,
		Workers:       cfg.Workers,
	}

	s := scene.Demo()
	if cfg.TextureDir != "" {
		idx := texture.BuildIndex(cfg.TextureDir)
		cache := texture.NewCache(idx)
		for i, stem := range idx.Stems() {
			if tex := cache.Resolve(stem); tex != nil {
				s.AddTexturedPane(tex, -0.3-0.3*float32(i), 0.6)
			}
		}
		fmt.Printf("Textures: %d indexed\n", idx.Len())
	}

	fmt.Printf("OIT MSAA Renderer → WebP\n")
	fmt.Printf("Size: %dx%d, %dx MSAA, fragment cap %d, layer factor %d\n",
		cfg.Width, cfg.Height, cfg.SampleCount, cfg.FragmentCount, cfg.LayerCount)
	fmt.Printf("Frames: %d, Workers: %d\n", cfg.Frames, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	if *capturePath != "" || *timings {
		if err := renderProbeFrame(opts, s, *capturePath, *timings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	bcfg := batch.Config{
		Pipeline:    opts,
		OutputDir:   cfg.OutputDir,
		OutputSize:  cfg.OutputSize,
		WebPQuality: cfg.WebPQuality,
		FrameStep:   cfg.FrameStep,
		Workers:     cfg.Workers,
	}

	start := time.Now()
	results := batch.Run(bcfg, s, cfg.Frames)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(results))
	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		for _, r := range results {
			if r.Success || limit == 0 {
				continue
			}
			fmt.Printf("  frame %d: %s\n", r.Frame, r.Error)
			limit--
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, bcfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// renderProbeFrame renders frame 0 once in-process for timings and capture
// output; batch workers use their own pipelines.
func renderProbeFrame(opts pipeline.Options, s *scene.Scene, capturePath string, timings bool) error {
	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}
	_, tm := p.Frame(s, 0)
	if timings {
		fmt.Printf("Frame 0 timings: %s\n", tm)
	}
	if capturePath == "" {
		return nil
	}

	f, err := os.Create(capturePath)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	defer f.Close()

	heads, pool := p.CaptureState()
	if err := capture.Write(f, heads, pool, opts.SampleCount); err != nil {
		return err
	}
	fmt.Printf("Capture: %s (%d nodes)\n", capturePath, pool.Used())
	return nil
}
