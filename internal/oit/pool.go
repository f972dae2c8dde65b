package oit

import "sync/atomic"

// NodePool is the append-only backing store for fragment nodes.
//
// Capacity is fixed at width*height*layerCount; a monotonic atomic counter
// hands out unique indices for the duration of a frame. The pool is
// frame-scoped scratch: Reset rewinds the counter, nothing is zeroed.
type NodePool struct {
	nodes []Node
	next  atomic.Uint32
}

// NewNodePool allocates a pool for the given output size. layerCount is the
// expected average overdraw; size it generously, fragments past capacity are
// dropped.
func NewNodePool(width, height, layerCount int) *NodePool {
	return &NodePool{nodes: make([]Node, width*height*layerCount)}
}

// Allocate returns the next free node index. Unique per frame, starting at 0.
// Safe for concurrent use from any number of writer goroutines.
func (p *NodePool) Allocate() uint32 {
	return p.next.Add(1) - 1
}

// Reset rewinds the allocation counter. Must run before each writer phase;
// stale node contents are unreachable once the head table is cleared.
func (p *NodePool) Reset() {
	p.next.Store(0)
}

// Cap returns the pool capacity in nodes.
func (p *NodePool) Cap() int {
	return len(p.nodes)
}

// Used returns how many nodes have been allocated this frame, clamped to
// capacity (the counter keeps climbing past the end when overflowing).
func (p *NodePool) Used() int {
	n := int(p.next.Load())
	if n > len(p.nodes) {
		return len(p.nodes)
	}
	return n
}

// Node returns the node at idx. Only valid after the writer phase for
// indices below Used().
func (p *NodePool) Node(idx uint32) Node {
	return p.nodes[idx]
}
