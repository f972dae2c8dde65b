package oit

// Writer inserts translucent fragments into their pixel's list.
//
// Write is lock-free and fire-and-forget: allocate a node, atomically swap
// it in as the pixel's head, point it at the previous head. Any
// interleaving of concurrent writers leaves every pixel's list well-formed;
// only the insertion order is racy, and ordering is restored at resolve
// time by the depth sort.
type Writer struct {
	pool  *NodePool
	heads *HeadTable
}

// NewWriter binds a writer to a frame's pool and head table.
func NewWriter(pool *NodePool, heads *HeadTable) *Writer {
	return &Writer{pool: pool, heads: heads}
}

// Write inserts one fragment at pixel (x, y). coverage must be nonzero.
// If the pool is exhausted the fragment is dropped; no other pixel's list
// is disturbed.
func (w *Writer) Write(x, y int, depth float32, color uint32, coverage uint32) {
	idx := w.pool.Allocate()
	if idx >= uint32(len(w.pool.nodes)) {
		return
	}
	prev := w.heads.Exchange(w.heads.Index(x, y), idx)
	w.pool.nodes[idx] = Node{
		Next:     prev,
		Color:    color,
		Depth:    DepthBits(depth),
		Coverage: coverage,
	}
}
