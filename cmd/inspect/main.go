// Command inspect prints overdraw statistics for a frame capture.
package main

import (
	"flag"
	"fmt"
	"os"

	"oit-renderer/internal/capture"
)

func main() {
	fragmentCap := flag.Int("cap", 32, "Resolve traversal cap to report truncation against")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-cap N] <capture file>")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	c, err := capture.Read(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st := c.ComputeStats(*fragmentCap)

	fmt.Printf("Capture: %dx%d, %dx MSAA\n", c.Width, c.Height, c.SampleCount)
	fmt.Printf("Fragment nodes: %d\n", st.Nodes)
	fmt.Printf("Touched pixels: %d/%d (%.1f%%)\n",
		st.TouchedPixels, st.Pixels, 100*float64(st.TouchedPixels)/float64(st.Pixels))
	if st.TouchedPixels > 0 {
		fmt.Printf("Average overdraw (touched): %.2f\n", float64(st.Nodes)/float64(st.TouchedPixels))
	}
	fmt.Printf("Longest list: %d\n", st.MaxListLength)
	fmt.Printf("Pixels over cap %d (resolve truncates): %d\n", *fragmentCap, st.TruncatedAbove)

	fmt.Println("\nList length histogram:")
	for n, count := range st.Histogram {
		if count == 0 {
			continue
		}
		label := fmt.Sprintf("%d", n)
		if n == len(st.Histogram)-1 {
			label = fmt.Sprintf(">=%d", n)
		}
		fmt.Printf("  %4s: %d\n", label, count)
	}
}
