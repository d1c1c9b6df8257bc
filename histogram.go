package rasterkit

import "math"

// Levels is the number of intensity levels of an 8-bit channel.
const Levels = 256

// Histogram counts pixels per luminance level.
type Histogram [Levels]uint32

// Total returns the sum of all counts.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, n := range h {
		total += uint64(n)
	}
	return total
}

// MinMax returns the smallest and largest bucket counts.
func (h *Histogram) MinMax() (lo, hi uint32) {
	lo = math.MaxUint32
	for _, n := range h {
		lo = min(lo, n)
		hi = max(hi, n)
	}
	return lo, hi
}

// CumulativeHistogram is a normalized prefix sum of a Histogram, usable
// directly as a tone lookup table. Entries are in [0, 255] and never
// decrease.
type CumulativeHistogram [Levels]int

// Histogram counts the luminance levels of r. r is not modified.
func (e *Engine) Histogram(r *Raster) Histogram {
	var h Histogram
	for _, c := range r.Pix {
		h[Luminance(c)]++
	}
	return h
}

// Cumulative builds the cumulative table of r with the factor
// 255/(width*height). An empty raster yields an all-zero table.
func (e *Engine) Cumulative(r *Raster) CumulativeHistogram {
	if r.Empty() {
		return CumulativeHistogram{}
	}
	return e.CumulativeWithFactor(r, 255/float64(r.Len()))
}

// CumulativeWithFactor builds table[0] = round(f*hist[0]) and
// table[i] = table[i-1] + round(f*hist[i]), saturating at 255.
func (e *Engine) CumulativeWithFactor(r *Raster, factor float64) CumulativeHistogram {
	return cumulate(e.Histogram(r), factor)
}

func cumulate(h Histogram, factor float64) CumulativeHistogram {
	var table CumulativeHistogram
	acc := 0
	for i, n := range h {
		acc += int(math.Round(factor * float64(n)))
		table[i] = min(acc, 255)
	}
	return table
}

// EqualizeResult carries an equalized raster together with the
// histograms before and after equalization.
type EqualizeResult struct {
	Raster *Raster
	Before Histogram
	After  Histogram
}

// Equalize remaps r through the cumulative table of its luminance. The
// same luminance-derived table is applied to each of R, G and B,
// indexed by that channel's own value; channels are not equalized
// against their own distributions.
func (e *Engine) Equalize(r *Raster) EqualizeResult {
	before := e.Histogram(r)
	table := cumulate(before, 255/float64(max(r.Len(), 1)))
	out := e.mapPixels(r, func(c RGB) RGB {
		return RGB{
			R: uint8(table[c.R]),
			G: uint8(table[c.G]),
			B: uint8(table[c.B]),
		}
	})
	return EqualizeResult{
		Raster: out,
		Before: before,
		After:  e.Histogram(out),
	}
}

// MatchMapping returns, for every source level s, the target level t
// whose cumulative value is closest to source[s]. Ties go to the lowest t.
func MatchMapping(source, target CumulativeHistogram) [Levels]uint8 {
	var mapping [Levels]uint8
	for s := range mapping {
		best, bestDiff := 0, math.MaxInt
		for t := range target {
			diff := target[t] - source[s]
			if diff < 0 {
				diff = -diff
			}
			if diff < bestDiff {
				best, bestDiff = t, diff
			}
		}
		mapping[s] = uint8(best)
	}
	return mapping
}

// Match grayscales source and remaps it so that its cumulative
// histogram approximates that of target. target may have any size.
func (e *Engine) Match(source, target *Raster) *Raster {
	gray := e.Grayscale(source)
	mapping := MatchMapping(e.Cumulative(gray), e.Cumulative(e.Grayscale(target)))
	return e.mapPixels(gray, func(c RGB) RGB {
		return Gray(mapping[c.R])
	})
}
