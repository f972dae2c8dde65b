// Package capture serializes a frame's frozen fragment structures (head
// table + node pool) to a compressed file for offline inspection. Captures
// of large frames are dominated by node records, which compress well.
package capture

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"oit-renderer/internal/oit"
)

const (
	magic   = 0x4354494F // "OITC" little-endian
	version = 1
)

// header precedes the compressed payload.
type header struct {
	Magic       uint32
	Version     uint32
	Width       uint32
	Height      uint32
	SampleCount uint32
	NodeCount   uint32
}

// Write dumps the head table and the used node-pool prefix. Must only be
// called after the writer phase completed (the structures must be frozen).
func Write(w io.Writer, heads *oit.HeadTable, pool *oit.NodePool, sampleCount int) error {
	hdr := header{
		Magic:       magic,
		Version:     version,
		Width:       uint32(heads.Width()),
		Height:      uint32(heads.Height()),
		SampleCount: uint32(sampleCount),
		NodeCount:   uint32(pool.Used()),
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("capture: header: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("capture: zstd: %w", err)
	}

	n := heads.Width() * heads.Height()
	hbuf := make([]uint32, n)
	for i := range hbuf {
		hbuf[i] = heads.Head(i)
	}
	if err := binary.Write(zw, binary.LittleEndian, hbuf); err != nil {
		zw.Close()
		return fmt.Errorf("capture: heads: %w", err)
	}

	nodes := make([]oit.Node, pool.Used())
	for i := range nodes {
		nodes[i] = pool.Node(uint32(i))
	}
	if err := binary.Write(zw, binary.LittleEndian, nodes); err != nil {
		zw.Close()
		return fmt.Errorf("capture: nodes: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("capture: flush: %w", err)
	}
	return nil
}

// Capture is a decoded frame dump.
type Capture struct {
	Width       int
	Height      int
	SampleCount int
	Heads       []uint32
	Nodes       []oit.Node
}

// Read parses a capture written by Write.
func Read(r io.Reader) (*Capture, error) {
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("capture: header: %w", err)
	}
	if hdr.Magic != magic {
		return nil, fmt.Errorf("capture: bad magic %08x", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("capture: unsupported version %d", hdr.Version)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("capture: zstd: %w", err)
	}
	defer zr.Close()

	c := &Capture{
		Width:       int(hdr.Width),
		Height:      int(hdr.Height),
		SampleCount: int(hdr.SampleCount),
		Heads:       make([]uint32, hdr.Width*hdr.Height),
		Nodes:       make([]oit.Node, hdr.NodeCount),
	}
	if err := binary.Read(zr, binary.LittleEndian, c.Heads); err != nil {
		return nil, fmt.Errorf("capture: heads: %w", err)
	}
	if err := binary.Read(zr, binary.LittleEndian, c.Nodes); err != nil {
		return nil, fmt.Errorf("capture: nodes: %w", err)
	}
	return c, nil
}

// ListLength walks one pixel's list. Broken captures could contain a cycle,
// so the walk stops at the node count.
func (c *Capture) ListLength(i int) int {
	count := 0
	for node := c.Heads[i]; node != oit.Sentinel; {
		if int(node) >= len(c.Nodes) || count > len(c.Nodes) {
			return count
		}
		count++
		node = c.Nodes[node].Next
	}
	return count
}

// Stats summarizes overdraw across the capture.
type Stats struct {
	Pixels         int   // total pixels
	TouchedPixels  int   // pixels with at least one fragment
	Nodes          int   // total fragment nodes
	MaxListLength  int   // longest per-pixel list
	Histogram      []int // Histogram[n] = pixels with list length n (last bucket: >=len-1)
	TruncatedAbove int   // pixels whose list exceeds the cap passed to ComputeStats
}

// ComputeStats scans every pixel list. cap is the resolve-time traversal
// limit used to report truncation incidence.
func (c *Capture) ComputeStats(fragmentCap int) Stats {
	const buckets = 17
	st := Stats{
		Pixels:    c.Width * c.Height,
		Nodes:     len(c.Nodes),
		Histogram: make([]int, buckets),
	}
	for i := 0; i < st.Pixels; i++ {
		n := c.ListLength(i)
		if n > 0 {
			st.TouchedPixels++
		}
		if n > st.MaxListLength {
			st.MaxListLength = n
		}
		if n > fragmentCap {
			st.TruncatedAbove++
		}
		if n >= buckets {
			n = buckets - 1
		}
		st.Histogram[n]++
	}
	return st
}
