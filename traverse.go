package rasterkit

import "golang.org/x/sync/errgroup"

// minParallelPixels is the raster size below which a pass runs on the
// calling goroutine.
const minParallelPixels = 1 << 14

// Cell locates the pixel currently visited by a traversal.
type Cell struct {
	Width, Height int
	Index         int
	Column, Row   int
}

// PixelFunc computes output for one visited cell. in is the source
// raster's pixels and must not be written; out is the destination
// raster's pixels. A PixelFunc may write any position of out, but no
// two cells may write the same position.
type PixelFunc func(c Cell, in, out []RGB)

// Traverse visits every cell of src in row-major order and calls fn with
// the source pixels and the pixels of dst. dst may have different
// dimensions from src. Rows are split across the engine's workers, so fn
// must not depend on the visiting order.
func (e *Engine) Traverse(src, dst *Raster, fn PixelFunc) {
	width := src.Width
	e.parallelRows(src.Height, width, func(start, stop int) {
		c := Cell{Width: src.Width, Height: src.Height}
		for row := start; row < stop; row++ {
			for col := 0; col < width; col++ {
				c.Index = row*width + col
				c.Column = col
				c.Row = row
				fn(c, src.Pix, dst.Pix)
			}
		}
	})
}

// mapPixels returns a same-size raster where every pixel is fn of the
// corresponding source pixel.
func (e *Engine) mapPixels(src *Raster, fn func(RGB) RGB) *Raster {
	dst := NewRaster(src.Width, src.Height)
	e.Traverse(src, dst, func(c Cell, in, out []RGB) {
		out[c.Index] = fn(in[c.Index])
	})
	return dst
}

// parallelRows calls fn over disjoint [start, stop) row ranges covering
// [0, rows) and returns when all calls have finished.
func (e *Engine) parallelRows(rows, width int, fn func(start, stop int)) {
	workers := min(e.workers, rows)
	if workers <= 1 || rows*width < minParallelPixels {
		fn(0, rows)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (rows + workers - 1) / workers
	for start := 0; start < rows; start += chunk {
		stop := min(start+chunk, rows)
		g.Go(func() error {
			fn(start, stop)
			return nil
		})
	}
	_ = g.Wait()
}
