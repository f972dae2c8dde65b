// Command viewer displays the OIT demo animation in a resizable window.
// Resizing the window tears down and reallocates every dimension-tied
// buffer before the next frame renders.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"oit-renderer/internal/pipeline"
	"oit-renderer/internal/scene"
)

func main() {
	width := flag.Int("width", 960, "Initial window width")
	height := flag.Int("height", 640, "Initial window height")
	samples := flag.Int("samples", 4, "MSAA samples: 1, 2, 4, 8")
	workers := flag.Int("workers", 0, "Worker goroutines (default: GOMAXPROCS)")
	flag.Parse()

	p, err := pipeline.New(pipeline.Options{
		Width:       *width,
		Height:      *height,
		SampleCount: *samples,
		Workers:     *workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g := &game{
		p:     p,
		scene: scene.Demo(),
		start: time.Now(),
	}

	ebiten.SetWindowTitle("OrderIndependentTransparency MSAA")
	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type game struct {
	p     *pipeline.Pipeline
	scene *scene.Scene
	start time.Time

	fbImg   *ebiten.Image
	scratch []byte
}

func (g *game) Update() error {
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	w, h := g.p.Size()
	img, _ := g.p.Frame(g.scene, float32(time.Since(g.start).Seconds()))

	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.scratch = make([]byte, len(img.Pix))
	}

	// The composited alpha channel is an MSAA average, not display
	// opacity; present opaque.
	copy(g.scratch, img.Pix)
	for i := 3; i < len(g.scratch); i += 4 {
		g.scratch[i] = 0xFF
	}
	g.fbImg.WritePixels(g.scratch)
	screen.DrawImage(g.fbImg, nil)
}

// Layout matches the render resolution to the window and reallocates the
// frame buffers on change.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	w, h := g.p.Size()
	if outsideWidth != w || outsideHeight != h {
		if err := g.p.Resize(outsideWidth, outsideHeight); err == nil {
			w, h = outsideWidth, outsideHeight
		}
	}
	return w, h
}
