package rasterkit

import "fmt"

// MirrorVertical flips r upside down.
func (e *Engine) MirrorVertical(r *Raster) *Raster {
	out := r.Clone()
	w, h := r.Width, r.Height
	e.parallelRows(h/2, w, func(start, stop int) {
		for row := start; row < stop; row++ {
			top := out.Pix[row*w : (row+1)*w]
			bottom := out.Pix[(h-1-row)*w : (h-row)*w]
			for col := range top {
				top[col], bottom[col] = bottom[col], top[col]
			}
		}
	})
	return out
}

// MirrorHorizontal reverses the column order of every row.
func (e *Engine) MirrorHorizontal(r *Raster) *Raster {
	out := r.Clone()
	w := r.Width
	e.parallelRows(r.Height, w, func(start, stop int) {
		for row := start; row < stop; row++ {
			line := out.Pix[row*w : (row+1)*w]
			for i, j := 0, w-1; i < j; i, j = i+1, j-1 {
				line[i], line[j] = line[j], line[i]
			}
		}
	})
	return out
}

// RotateLeft rotates r 90 degrees counter-clockwise. The result is
// Height x Width.
func (e *Engine) RotateLeft(r *Raster) *Raster {
	out := NewRaster(r.Height, r.Width)
	e.Traverse(r, out, func(c Cell, in, dst []RGB) {
		dst[(c.Width-1-c.Column)*c.Height+c.Row] = in[c.Index]
	})
	return out
}

// RotateRight rotates r 90 degrees clockwise. The result is
// Height x Width.
func (e *Engine) RotateRight(r *Raster) *Raster {
	out := NewRaster(r.Height, r.Width)
	e.Traverse(r, out, func(c Cell, in, dst []RGB) {
		dst[c.Column*c.Height+(c.Height-1-c.Row)] = in[c.Index]
	})
	return out
}

// ZoomOut shrinks r by averaging fx x fy blocks. Blocks at the right and
// bottom edges are clipped and averaged over the samples they contain.
// Averages round half up. Factors must be positive.
func (e *Engine) ZoomOut(r *Raster, fx, fy int) (*Raster, error) {
	if fx <= 0 || fy <= 0 {
		return nil, fmt.Errorf("%w: zoom-out factors %d,%d must be positive",
			ErrInvalidParameter, fx, fy)
	}
	outW := (r.Width + fx - 1) / fx
	outH := (r.Height + fy - 1) / fy
	out := NewRaster(outW, outH)
	e.Traverse(r, out, func(c Cell, in, dst []RGB) {
		if c.Column%fx != 0 || c.Row%fy != 0 {
			return
		}
		var acc channelSum
		for y := c.Row; y < min(c.Row+fy, c.Height); y++ {
			for x := c.Column; x < min(c.Column+fx, c.Width); x++ {
				acc.add(in[y*c.Width+x])
			}
		}
		if acc.n == 0 {
			return
		}
		dst[(c.Row/fy)*outW+c.Column/fx] = acc.mean()
	})
	return out, nil
}

// ZoomIn doubles r to (2w-1) x (2h-1). Source pixels land on even
// rows and columns; odd columns of even rows average their left and
// right neighbors, then odd rows average the completed rows above and
// below.
func (e *Engine) ZoomIn(r *Raster) *Raster {
	if r.Empty() {
		return NewRaster(0, 0)
	}
	outW, outH := 2*r.Width-1, 2*r.Height-1
	out := NewRaster(outW, outH)

	e.Traverse(r, out, func(c Cell, in, dst []RGB) {
		dst[2*c.Row*outW+2*c.Column] = in[c.Index]
	})

	// Even rows: fill the gaps between placed samples.
	e.parallelRows(r.Height, outW, func(start, stop int) {
		for srcRow := start; srcRow < stop; srcRow++ {
			line := out.Pix[2*srcRow*outW : (2*srcRow+1)*outW]
			for col := 1; col < outW; col += 2 {
				line[col] = average(line[col-1], line[col+1])
			}
		}
	})

	// Odd rows: both neighbors are complete even rows.
	e.parallelRows(r.Height-1, outW, func(start, stop int) {
		for srcRow := start; srcRow < stop; srcRow++ {
			row := 2*srcRow + 1
			above := out.Pix[(row-1)*outW : row*outW]
			line := out.Pix[row*outW : (row+1)*outW]
			below := out.Pix[(row+1)*outW : (row+2)*outW]
			for col := range line {
				line[col] = average(above[col], below[col])
			}
		}
	})
	return out
}

// channelSum accumulates samples for an average.
type channelSum struct {
	r, g, b int
	n       int
}

func (s *channelSum) add(c RGB) {
	s.r += int(c.R)
	s.g += int(c.G)
	s.b += int(c.B)
	s.n++
}

// mean returns the per-channel average, rounding half up.
func (s *channelSum) mean() RGB {
	return RGB{
		R: uint8((2*s.r + s.n) / (2 * s.n)),
		G: uint8((2*s.g + s.n) / (2 * s.n)),
		B: uint8((2*s.b + s.n) / (2 * s.n)),
	}
}

func average(colors ...RGB) RGB {
	var acc channelSum
	for _, c := range colors {
		acc.add(c)
	}
	return acc.mean()
}
