package oit

import "sync/atomic"

// HeadTable holds one head pointer per output pixel: the index of the most
// recently inserted fragment node, or Sentinel if the pixel has none.
type HeadTable struct {
	width  int
	height int
	heads  []uint32
}

// NewHeadTable allocates a table cleared to Sentinel.
func NewHeadTable(width, height int) *HeadTable {
	t := &HeadTable{
		width:  width,
		height: height,
		heads:  make([]uint32, width*height),
	}
	t.Clear()
	return t
}

// Clear resets every head to Sentinel. Must run before each writer phase;
// not safe to run concurrently with writers.
func (t *HeadTable) Clear() {
	for i := range t.heads {
		t.heads[i] = Sentinel
	}
}

// Exchange atomically swaps the head of pixel i for idx and returns the
// previous head. This is the list splice point: safe under any number of
// concurrent writers hitting the same pixel.
func (t *HeadTable) Exchange(i int, idx uint32) uint32 {
	return atomic.SwapUint32(&t.heads[i], idx)
}

// Head returns the current head of pixel i. Intended for the resolve phase,
// after writers have finished.
func (t *HeadTable) Head(i int) uint32 {
	return atomic.LoadUint32(&t.heads[i])
}

// Index converts pixel coordinates to a table index.
func (t *HeadTable) Index(x, y int) int {
	return y*t.width + x
}

// Width returns the table width in pixels.
func (t *HeadTable) Width() int { return t.width }

// Height returns the table height in pixels.
func (t *HeadTable) Height() int { return t.height }
