package raster

// Sample positions follow the standard multisample patterns, expressed as
// offsets from the pixel center in units of 1/16 pixel.
var samplePatterns = map[int][][2]float32{
	1: {{0, 0}},
	2: {
		{4, 4}, {-4, -4},
	},
	4: {
		{-2, -6}, {6, -2}, {-6, 2}, {2, 6},
	},
	8: {
		{1, -3}, {-1, 3}, {5, 1}, {-3, -5},
		{-5, 5}, {-7, -1}, {3, 7}, {7, -7},
	},
}

// SamplePositions returns the sub-pixel sample offsets for the given sample
// count, in pixels relative to the pixel center. Supported counts are
// 1, 2, 4 and 8.
func SamplePositions(count int) [][2]float32 {
	pattern, ok := samplePatterns[count]
	if !ok {
		return nil
	}
	out := make([][2]float32, len(pattern))
	for i, p := range pattern {
		out[i] = [2]float32{p[0] / 16, p[1] / 16}
	}
	return out
}
