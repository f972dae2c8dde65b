package oit

import (
	"sort"
	"sync"
	"testing"
)

func TestAllocateUniqueUnderContention(t *testing.T) {
	const workers = 8
	const perWorker = 1000

	pool := NewNodePool(100, 100, 1) // 10000 nodes
	got := make([][]uint32, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				got[w] = append(got[w], pool.Allocate())
			}
		}(w)
	}
	wg.Wait()

	seen := make(map[uint32]bool)
	for _, idxs := range got {
		for _, idx := range idxs {
			if seen[idx] {
				t.Fatalf("index %d allocated twice", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d unique indices, got %d", workers*perWorker, len(seen))
	}
	if pool.Used() != workers*perWorker {
		t.Fatalf("Used() = %d, want %d", pool.Used(), workers*perWorker)
	}

	pool.Reset()
	if pool.Allocate() != 0 {
		t.Fatal("Reset did not rewind the counter")
	}
}

func TestHeadTableClearAndExchange(t *testing.T) {
	ht := NewHeadTable(4, 4)
	for i := 0; i < 16; i++ {
		if ht.Head(i) != Sentinel {
			t.Fatalf("fresh table head %d != Sentinel", i)
		}
	}

	if prev := ht.Exchange(ht.Index(2, 1), 7); prev != Sentinel {
		t.Fatalf("first exchange returned %d, want Sentinel", prev)
	}
	if prev := ht.Exchange(ht.Index(2, 1), 9); prev != 7 {
		t.Fatalf("second exchange returned %d, want 7", prev)
	}
	if ht.Head(ht.Index(2, 1)) != 9 {
		t.Fatal("head not updated")
	}

	ht.Clear()
	if ht.Head(ht.Index(2, 1)) != Sentinel {
		t.Fatal("Clear did not restore Sentinel")
	}
}

// walkList follows Next from a head and returns the visited nodes.
// Fails the test if the walk exceeds limit (cycle guard).
func walkList(t *testing.T, pool *NodePool, head uint32, limit int) []Node {
	t.Helper()
	var out []Node
	for node := head; node != Sentinel; {
		if len(out) > limit {
			t.Fatal("list longer than the number of writes: cycle or corruption")
		}
		n := pool.Node(node)
		out = append(out, n)
		node = n.Next
	}
	return out
}

func TestConcurrentWritesSinglePixel(t *testing.T) {
	const workers = 16
	const perWorker = 200
	const total = workers * perWorker

	pool := NewNodePool(8, 8, total) // ample capacity
	heads := NewHeadTable(8, 8)
	w := NewWriter(pool, heads)

	// Every write targets the same pixel with a distinct depth so the
	// multiset can be checked afterwards.
	var wg sync.WaitGroup
	for wk := 0; wk < workers; wk++ {
		wg.Add(1)
		go func(wk int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				seq := uint32(wk*perWorker + i)
				w.Write(3, 5, float32(seq)/total, seq, 0xF)
			}
		}(wk)
	}
	wg.Wait()

	nodes := walkList(t, pool, heads.Head(heads.Index(3, 5)), total)
	if len(nodes) != total {
		t.Fatalf("list has %d nodes, want %d", len(nodes), total)
	}

	var got []uint32
	for _, n := range nodes {
		got = append(got, n.Color)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, c := range got {
		if c != uint32(i) {
			t.Fatalf("multiset mismatch at %d: got color %d", i, c)
		}
	}

	// Untouched pixels stay empty.
	for i := 0; i < 64; i++ {
		if i != heads.Index(3, 5) && heads.Head(i) != Sentinel {
			t.Fatalf("pixel %d has a head but nothing was written there", i)
		}
	}
}

func TestConcurrentWritesManyPixels(t *testing.T) {
	const w, h = 32, 32
	const perPixel = 5

	pool := NewNodePool(w, h, perPixel)
	heads := NewHeadTable(w, h)
	wr := NewWriter(pool, heads)

	var wg sync.WaitGroup
	for layer := 0; layer < perPixel; layer++ {
		wg.Add(1)
		go func(layer int) {
			defer wg.Done()
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					wr.Write(x, y, float32(layer)*0.1, uint32(layer), 1)
				}
			}
		}(layer)
	}
	wg.Wait()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nodes := walkList(t, pool, heads.Head(heads.Index(x, y)), perPixel)
			if len(nodes) != perPixel {
				t.Fatalf("pixel (%d,%d) has %d nodes, want %d", x, y, len(nodes), perPixel)
			}
		}
	}
	if pool.Used() != w*h*perPixel {
		t.Fatalf("pool used %d, want %d", pool.Used(), w*h*perPixel)
	}
}

func TestPoolOverflowDropsFragment(t *testing.T) {
	pool := NewNodePool(1, 1, 2) // room for two nodes
	heads := NewHeadTable(1, 1)
	w := NewWriter(pool, heads)

	w.Write(0, 0, 0.1, 1, 1)
	w.Write(0, 0, 0.2, 2, 1)
	w.Write(0, 0, 0.3, 3, 1) // over capacity, must be dropped

	nodes := walkList(t, pool, heads.Head(0), 3)
	if len(nodes) != 2 {
		t.Fatalf("list has %d nodes, want 2 after overflow", len(nodes))
	}
	if nodes[0].Color != 2 || nodes[1].Color != 1 {
		t.Fatalf("surviving list damaged: %+v", nodes)
	}
}

func TestListIsReverseInsertionOrder(t *testing.T) {
	pool := NewNodePool(1, 1, 4)
	heads := NewHeadTable(1, 1)
	w := NewWriter(pool, heads)

	for i := uint32(0); i < 3; i++ {
		w.Write(0, 0, 0.5, i, 1)
	}
	nodes := walkList(t, pool, heads.Head(0), 3)
	for i, n := range nodes {
		if want := uint32(2 - i); n.Color != want {
			t.Fatalf("position %d: color %d, want %d (most recent first)", i, n.Color, want)
		}
	}
}
