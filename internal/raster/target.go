package raster

import (
	"fmt"
	"image"
)

// Target is a multisampled render target: per-sample color and depth planes
// stored as flat slices for cache locality, sample-major within each pixel.
type Target struct {
	Width   int
	Height  int
	Samples int

	color []float32 // len = W*H*S*4, RGBA
	depth []float32 // len = W*H*S, cleared to the far plane (1.0)

	positions [][2]float32 // sub-pixel sample offsets
}

// NewTarget allocates a target for the given dimensions and sample count.
// Sample count must be one of 1, 2, 4, 8.
func NewTarget(width, height, samples int) (*Target, error) {
	positions := SamplePositions(samples)
	if positions == nil {
		return nil, fmt.Errorf("raster: unsupported sample count %d", samples)
	}
	n := width * height * samples
	return &Target{
		Width:     width,
		Height:    height,
		Samples:   samples,
		color:     make([]float32, n*4),
		depth:     make([]float32, n),
		positions: positions,
	}, nil
}

// Clear fills every sample with the given color and resets depth to the far
// plane.
func (t *Target) Clear(r, g, b, a float32) {
	for i := 0; i < len(t.color); i += 4 {
		t.color[i] = r
		t.color[i+1] = g
		t.color[i+2] = b
		t.color[i+3] = a
	}
	for i := range t.depth {
		t.depth[i] = 1.0
	}
}

// sampleIndex returns the depth-plane index of sample s at pixel (x, y).
func (t *Target) sampleIndex(x, y, s int) int {
	return (y*t.Width+x)*t.Samples + s
}

// DepthAt returns the stored depth of sample s at pixel (x, y).
func (t *Target) DepthAt(x, y, s int) float32 {
	return t.depth[t.sampleIndex(x, y, s)]
}

// BoxResolve averages every pixel's samples into dst, the standard
// single-sample resolve of the multisampled opaque layer.
// dst must match the target's dimensions.
func (t *Target) BoxResolve(dst *image.NRGBA) {
	inv := 1.0 / float32(t.Samples)
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			base := t.sampleIndex(x, y, 0) * 4
			var r, g, b, a float32
			for s := 0; s < t.Samples; s++ {
				o := base + s*4
				r += t.color[o]
				g += t.color[o+1]
				b += t.color[o+2]
				a += t.color[o+3]
			}
			di := dst.PixOffset(x, y)
			dst.Pix[di] = clampUnit(r * inv)
			dst.Pix[di+1] = clampUnit(g * inv)
			dst.Pix[di+2] = clampUnit(b * inv)
			dst.Pix[di+3] = clampUnit(a * inv)
		}
	}
}

func clampUnit(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
