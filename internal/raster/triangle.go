package raster

import (
	"math"

	"oit-renderer/internal/oit"
)

// Vertex is a screen-space vertex: X/Y in pixels, Z in [0,1] (smaller is
// nearer), straight-alpha color, and texture coordinates.
type Vertex struct {
	X, Y, Z    float32
	R, G, B, A float32
	U, V       float32
}

// Triangle is one screen-space triangle. When Tex is set the sampled texel
// is modulated by the interpolated vertex color.
type Triangle struct {
	V   [3]Vertex
	Tex *Texture
}

// FragmentSink receives one fragment per covered pixel from the translucent
// pass. oit.Writer satisfies this.
type FragmentSink interface {
	Write(x, y int, depth float32, color uint32, coverage uint32)
}

// edgeSetup holds the barycentric configuration shared by both passes.
//
// This is the HOT PATH — the per-sample loop must not allocate.
type edgeSetup struct {
	x0, y0, z0 float64
	x1, y1, z1 float64
	x2, y2, z2 float64

	dy12, dx21, dy20, dx02 float64
	invDet                 float64

	minX, maxX, minY, maxY int
}

func setup(tri *Triangle, width, height int) (edgeSetup, bool) {
	var e edgeSetup
	e.x0, e.y0, e.z0 = float64(tri.V[0].X), float64(tri.V[0].Y), float64(tri.V[0].Z)
	e.x1, e.y1, e.z1 = float64(tri.V[1].X), float64(tri.V[1].Y), float64(tri.V[1].Z)
	e.x2, e.y2, e.z2 = float64(tri.V[2].X), float64(tri.V[2].Y), float64(tri.V[2].Z)

	det := (e.y1-e.y2)*(e.x0-e.x2) + (e.x2-e.x1)*(e.y0-e.y2)
	if det > -1e-8 && det < 1e-8 {
		return e, false
	}
	e.invDet = 1.0 / det

	e.dy12 = e.y1 - e.y2
	e.dx21 = e.x2 - e.x1
	e.dy20 = e.y2 - e.y0
	e.dx02 = e.x0 - e.x2

	e.minX = int(math.Min(math.Min(e.x0, e.x1), e.x2))
	e.maxX = int(math.Max(math.Max(e.x0, e.x1), e.x2)) + 1
	e.minY = int(math.Min(math.Min(e.y0, e.y1), e.y2))
	e.maxY = int(math.Max(math.Max(e.y0, e.y1), e.y2)) + 1

	if e.minX < 0 {
		e.minX = 0
	}
	if e.maxX > width-1 {
		e.maxX = width - 1
	}
	if e.minY < 0 {
		e.minY = 0
	}
	if e.maxY > height-1 {
		e.maxY = height - 1
	}
	if e.minX > e.maxX || e.minY > e.maxY {
		return e, false
	}
	return e, true
}

// weights evaluates the barycentric coordinates at a sample position.
func (e *edgeSetup) weights(sx, sy float64) (w0, w1, w2 float64) {
	dsx := sx - e.x2
	dsy := sy - e.y2
	w0 = (e.dy12*dsx + e.dx21*dsy) * e.invDet
	w1 = (e.dy20*dsx + e.dx02*dsy) * e.invDet
	w2 = 1.0 - w0 - w1
	return
}

func inside(w0, w1, w2 float64) bool {
	return w0 >= -0.0001 && w1 >= -0.0001 && w2 >= -0.0001
}

// shadeAt interpolates the triangle color at the given barycentric weights,
// sampling the texture when present.
func shadeAt(tri *Triangle, w0, w1, w2 float64) (r, g, b, a float32) {
	v := &tri.V
	r = float32(w0*float64(v[0].R) + w1*float64(v[1].R) + w2*float64(v[2].R))
	g = float32(w0*float64(v[0].G) + w1*float64(v[1].G) + w2*float64(v[2].G))
	b = float32(w0*float64(v[0].B) + w1*float64(v[1].B) + w2*float64(v[2].B))
	a = float32(w0*float64(v[0].A) + w1*float64(v[1].A) + w2*float64(v[2].A))
	if tri.Tex != nil {
		u := w0*float64(v[0].U) + w1*float64(v[1].U) + w2*float64(v[2].U)
		tv := w0*float64(v[0].V) + w1*float64(v[1].V) + w2*float64(v[2].V)
		tr, tg, tb, ta := tri.Tex.Sample(u, tv)
		r *= tr
		g *= tg
		b *= tb
		a *= ta
	}
	return
}

// DrawOpaque rasterizes a triangle into the multisampled target with a
// per-sample depth LESS test and depth write. shade is a flat lighting
// factor applied to RGB (see LightConfig).
func DrawOpaque(t *Target, tri *Triangle, shade float32) {
	e, ok := setup(tri, t.Width, t.Height)
	if !ok {
		return
	}

	for sy := e.minY; sy <= e.maxY; sy++ {
		for sx := e.minX; sx <= e.maxX; sx++ {
			cx := float64(sx) + 0.5
			cy := float64(sy) + 0.5
			for s, off := range t.positions {
				w0, w1, w2 := e.weights(cx+float64(off[0]), cy+float64(off[1]))
				if !inside(w0, w1, w2) {
					continue
				}
				z := float32(w0*e.z0 + w1*e.z1 + w2*e.z2)
				di := t.sampleIndex(sx, sy, s)
				if z >= t.depth[di] {
					continue
				}
				r, g, b, a := shadeAt(tri, w0, w1, w2)
				t.depth[di] = z
				ci := di * 4
				t.color[ci] = r * shade
				t.color[ci+1] = g * shade
				t.color[ci+2] = b * shade
				t.color[ci+3] = a
			}
		}
	}
}

// DrawTranslucent rasterizes a triangle against the frozen opaque depth:
// per-sample depth LESS test, no depth write. Each covered pixel emits one
// fragment to the sink carrying the pixel-center depth and the surviving
// sample coverage mask. Safe to call concurrently for different triangles
// as long as the sink is (oit.Writer is).
func DrawTranslucent(t *Target, tri *Triangle, sink FragmentSink) {
	e, ok := setup(tri, t.Width, t.Height)
	if !ok {
		return
	}

	for sy := e.minY; sy <= e.maxY; sy++ {
		for sx := e.minX; sx <= e.maxX; sx++ {
			cx := float64(sx) + 0.5
			cy := float64(sy) + 0.5

			var coverage uint32
			for s, off := range t.positions {
				w0, w1, w2 := e.weights(cx+float64(off[0]), cy+float64(off[1]))
				if !inside(w0, w1, w2) {
					continue
				}
				z := float32(w0*e.z0 + w1*e.z1 + w2*e.z2)
				if z >= t.depth[t.sampleIndex(sx, sy, s)] {
					continue
				}
				coverage |= 1 << uint(s)
			}
			if coverage == 0 {
				continue
			}

			// Attributes at the pixel center; for edge pixels the
			// barycentrics extrapolate slightly, so clamp depth back
			// into the comparable range.
			w0, w1, w2 := e.weights(cx, cy)
			z := float32(w0*e.z0 + w1*e.z1 + w2*e.z2)
			if z < 0 {
				z = 0
			} else if z > 1 {
				z = 1
			}
			r, g, b, a := shadeAt(tri, w0, w1, w2)
			sink.Write(sx, sy, z, oit.PackRGBA(r, g, b, a), coverage)
		}
	}
}
