package oit

import (
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Resolver traverses, sorts, and composites fragment lists into the final
// image. Inputs (pool + head table) must be frozen: the caller guarantees
// the writer phase finished before Resolve starts.
type Resolver struct {
	SampleCount   int // MSAA samples per pixel
	FragmentCount int // per-sample traversal cap; excess tail fragments drop
	Workers       int // parallel row bands; <=0 means GOMAXPROCS
}

// Resolve composites every pixel's fragment list over the background
// already present in dst (the box-resolved opaque color), in place.
//
// Per sample the list is walked most-recent-first, covered fragments are
// collected up to FragmentCount, insertion-sorted farthest-first by raw
// depth bits, and folded back-to-front with the standard over operator.
// The per-sample results are averaged into the output pixel. A pixel whose
// head is Sentinel keeps the background untouched.
func (r *Resolver) Resolve(heads *HeadTable, pool *NodePool, dst *image.NRGBA) {
	w, h := heads.Width(), heads.Height()
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > h {
		workers = h
	}
	if workers < 1 {
		workers = 1
	}

	band := (h + workers - 1) / workers
	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += band {
		y1 := y0 + band
		if y1 > h {
			y1 = h
		}
		g.Go(func() error {
			r.resolveRows(heads, pool, dst, 0, w, y0, y1)
			return nil
		})
	}
	// Workers only touch disjoint rows and return nil.
	g.Wait()
}

// resolveRows is the hot path: per-goroutine scratch, zero allocation per
// pixel.
func (r *Resolver) resolveRows(heads *HeadTable, pool *NodePool, dst *image.NRGBA, x0, x1, y0, y1 int) {
	depths := make([]uint32, r.FragmentCount)
	colors := make([]uint32, r.FragmentCount)
	invSamples := 1.0 / float32(r.SampleCount)

	for y := y0; y < y1; y++ {
		row := y * heads.Width()
		for x := x0; x < x1; x++ {
			head := heads.Head(row + x)
			if head == Sentinel {
				continue
			}

			di := dst.PixOffset(x, y)
			const inv = 1.0 / 255.0
			bgR := float32(dst.Pix[di]) * inv
			bgG := float32(dst.Pix[di+1]) * inv
			bgB := float32(dst.Pix[di+2]) * inv
			bgA := float32(dst.Pix[di+3]) * inv

			var sumR, sumG, sumB, sumA float32
			for s := 0; s < r.SampleCount; s++ {
				mask := uint32(1) << uint(s)

				// Collect covered fragments, newest first, capped.
				count := 0
				for node := head; node != Sentinel && count < r.FragmentCount; {
					n := pool.Node(node)
					if n.Coverage&mask != 0 {
						depths[count] = n.Depth
						colors[count] = n.Color
						count++
					}
					node = n.Next
				}

				// Stable insertion sort, farthest (largest depth) first.
				for i := 1; i < count; i++ {
					d, c := depths[i], colors[i]
					j := i - 1
					for j >= 0 && depths[j] < d {
						depths[j+1] = depths[j]
						colors[j+1] = colors[j]
						j--
					}
					depths[j+1] = d
					colors[j+1] = c
				}

				// Back-to-front over the opaque background.
				cr, cg, cb, ca := bgR, bgG, bgB, bgA
				for i := 0; i < count; i++ {
					fr, fg, fb, fa := UnpackRGBA(colors[i])
					cr += (fr - cr) * fa
					cg += (fg - cg) * fa
					cb += (fb - cb) * fa
					ca += (fa - ca) * fa
				}

				sumR += cr
				sumG += cg
				sumB += cb
				sumA += ca
			}

			dst.Pix[di] = quantize(sumR * invSamples)
			dst.Pix[di+1] = quantize(sumG * invSamples)
			dst.Pix[di+2] = quantize(sumB * invSamples)
			dst.Pix[di+3] = quantize(sumA * invSamples)
		}
	}
}
