package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightConfig holds the flat-shading parameters for the opaque pass.
type LightConfig struct {
	LightDir mgl32.Vec3
	Ambient  float32
	Direct   float32
}

// DefaultLightConfig returns a simple two-term lighting setup: ambient fill
// plus a double-sided directional term.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mgl32.Vec3{0.4, 0.65, 0.55}.Normalize(),
		Ambient:  0.35,
		Direct:   0.65,
	}
}

// ComputeShade returns the flat lighting scalar for a face normal.
func (lc *LightConfig) ComputeShade(normal mgl32.Vec3) float32 {
	ndl := float32(math.Abs(float64(normal.Dot(lc.LightDir))))
	return lc.Ambient + ndl*lc.Direct
}
