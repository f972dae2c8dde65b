// Package oit implements per-pixel fragment lists for order-independent
// transparency: a lock-free node-pool allocator, an atomic head-pointer
// table, the fragment writer that splices nodes into per-pixel lists, and
// the per-sample resolve that sorts and composites them.
package oit

import "math"

// Sentinel marks an empty head pointer / end of a fragment list.
const Sentinel = 0xFFFFFFFF

// Node is one translucent fragment record. Layout mirrors the GPU
// structured-buffer element: four 32-bit words, no pointers.
type Node struct {
	Next     uint32 // previous head for the same pixel, or Sentinel
	Color    uint32 // packed RGBA8, straight alpha
	Depth    uint32 // float32 depth bits, monotonic on [0,1]
	Coverage uint32 // one bit per covered MSAA sample
}

// PackRGBA packs normalized straight-alpha color into RGBA8.
// Inputs are clamped to [0,1].
func PackRGBA(r, g, b, a float32) uint32 {
	return uint32(quantize(r)) |
		uint32(quantize(g))<<8 |
		uint32(quantize(b))<<16 |
		uint32(quantize(a))<<24
}

// UnpackRGBA reverses PackRGBA within 1/255 per channel.
func UnpackRGBA(c uint32) (r, g, b, a float32) {
	const inv = 1.0 / 255.0
	r = float32(c&0xFF) * inv
	g = float32(c>>8&0xFF) * inv
	b = float32(c>>16&0xFF) * inv
	a = float32(c>>24&0xFF) * inv
	return
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// DepthBits reinterprets a float32 depth as its IEEE-754 bit pattern.
// For nonnegative depths the unsigned ordering matches the float ordering,
// so the resolve sort compares raw bits.
func DepthBits(d float32) uint32 {
	return math.Float32bits(d)
}

// DepthValue is the inverse of DepthBits.
func DepthValue(bits uint32) float32 {
	return math.Float32frombits(bits)
}
