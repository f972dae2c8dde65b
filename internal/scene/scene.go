// Package scene provides the demo geometry: a small opaque backdrop and a
// fan of overlapping translucent triangles orbited by the camera, mirroring
// the five instanced triangles of the original demo.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"oit-renderer/internal/raster"
)

// Triangle is a world-space triangle with one color and optional texture.
type Triangle struct {
	P     [3]mgl32.Vec3
	Color mgl32.Vec4
	UV    [3]mgl32.Vec2
	Tex   *raster.Texture
}

// Normal returns the unit face normal.
func (t Triangle) Normal() mgl32.Vec3 {
	e1 := t.P[1].Sub(t.P[0])
	e2 := t.P[2].Sub(t.P[0])
	n := e1.Cross(e2)
	if n.Len() < 1e-8 {
		return mgl32.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

// Scene splits geometry by pass.
type Scene struct {
	Opaque      []Triangle
	Translucent []Triangle
}

// translucentPalette matches one color+alpha per instance.
var translucentPalette = []mgl32.Vec4{
	{0.95, 0.26, 0.21, 0.45},
	{0.30, 0.69, 0.31, 0.50},
	{0.25, 0.55, 0.96, 0.40},
	{1.00, 0.76, 0.03, 0.55},
	{0.61, 0.15, 0.69, 0.35},
}

// Demo builds the default scene: a two-triangle opaque backdrop plus five
// translucent triangles staggered in depth so every pixel in the middle of
// the frame sees several overlapping layers.
func Demo() *Scene {
	s := &Scene{}

	// Backdrop quad at z = +1.2, slightly tilted.
	bl := mgl32.Vec3{-1.6, -1.2, 1.2}
	br := mgl32.Vec3{1.6, -1.2, 1.2}
	tl := mgl32.Vec3{-1.6, 1.2, 1.4}
	tr := mgl32.Vec3{1.6, 1.2, 1.4}
	backdrop := mgl32.Vec4{0.55, 0.57, 0.62, 1}
	s.Opaque = append(s.Opaque,
		Triangle{P: [3]mgl32.Vec3{bl, br, tr}, Color: backdrop},
		Triangle{P: [3]mgl32.Vec3{bl, tr, tl}, Color: backdrop},
	)

	// Five instances of one triangle, rotated around Y and pushed along Z.
	base := [3]mgl32.Vec3{
		{-0.8, -0.6, 0},
		{0.8, -0.6, 0},
		{0, 0.9, 0},
	}
	for i, color := range translucentPalette {
		angle := float32(i) * 0.35
		offset := mgl32.Vec3{
			0.25 * float32(i-2),
			0.1 * float32(i%3),
			-0.35 * float32(i-2),
		}
		rot := mgl32.HomogRotate3DY(angle)
		var p [3]mgl32.Vec3
		for k, v := range base {
			p[k] = mgl32.TransformCoordinate(v, rot).Add(offset)
		}
		s.Translucent = append(s.Translucent, Triangle{P: p, Color: color})
	}

	return s
}

// AddTexturedPane appends a translucent textured quad facing the Z axis,
// centered on the origin at depth z. The texture's own alpha is modulated
// by alpha.
func (s *Scene) AddTexturedPane(tex *raster.Texture, z, alpha float32) {
	const hw, hh = 0.9, 0.7
	corners := [4]mgl32.Vec3{
		{-hw, -hh, z}, {hw, -hh, z}, {hw, hh, z}, {-hw, hh, z},
	}
	uvs := [4]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	color := mgl32.Vec4{1, 1, 1, alpha}
	s.Translucent = append(s.Translucent,
		Triangle{
			P:     [3]mgl32.Vec3{corners[0], corners[1], corners[2]},
			UV:    [3]mgl32.Vec2{uvs[0], uvs[1], uvs[2]},
			Color: color,
			Tex:   tex,
		},
		Triangle{
			P:     [3]mgl32.Vec3{corners[0], corners[2], corners[3]},
			UV:    [3]mgl32.Vec2{uvs[0], uvs[2], uvs[3]},
			Color: color,
			Tex:   tex,
		},
	)
}

// View returns an orbiting camera matrix at animation time t (seconds).
func View(t float32) mgl32.Mat4 {
	angle := float64(t) * 0.5
	eye := mgl32.Vec3{
		float32(3.2 * math.Sin(angle)),
		1.0,
		float32(-3.2 * math.Cos(angle)),
	}
	return mgl32.LookAtV(eye, mgl32.Vec3{0, 0, 0.4}, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the output size.
func Projection(width, height int) mgl32.Mat4 {
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 20)
}

// Project transforms a world triangle to screen space: pixels in X/Y, depth
// mapped to [0,1]. Returns false when any vertex lands behind the near
// plane; the demo geometry never straddles it, so per-vertex rejection is
// enough (no clipping).
func Project(tri Triangle, mvp mgl32.Mat4, width, height int) (raster.Triangle, bool) {
	var out raster.Triangle
	for i, p := range tri.P {
		clip := mvp.Mul4x1(p.Vec4(1))
		if clip.W() <= 1e-4 {
			return out, false
		}
		invW := 1 / clip.W()
		ndcX := clip.X() * invW
		ndcY := clip.Y() * invW
		ndcZ := clip.Z() * invW

		z := ndcZ*0.5 + 0.5
		if z < 0 {
			z = 0
		} else if z > 1 {
			z = 1
		}

		out.V[i] = raster.Vertex{
			X: (ndcX + 1) * 0.5 * float32(width),
			Y: (1 - ndcY) * 0.5 * float32(height),
			Z: z,
			R: tri.Color.X(),
			G: tri.Color.Y(),
			B: tri.Color.Z(),
			A: tri.Color.W(),
			U: tri.UV[i].X(),
			V: tri.UV[i].Y(),
		}
	}
	out.Tex = tri.Tex
	return out, true
}
