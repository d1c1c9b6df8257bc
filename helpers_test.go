package rasterkit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wbrown/rasterkit"
)

// grayRaster builds a width x height raster from gray levels in row-major
// order.
func grayRaster(t *testing.T, width, height int, levels ...uint8) *rasterkit.Raster {
	t.Helper()
	pix := make([]rasterkit.RGB, len(levels))
	for i, v := range levels {
		pix[i] = rasterkit.Gray(v)
	}
	r, err := rasterkit.RasterFromPixels(width, height, pix)
	require.NoError(t, err)
	return r
}

// indexRaster gives every pixel a distinct color derived from its index.
func indexRaster(width, height int) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	for i := range r.Pix {
		r.Pix[i] = rasterkit.RGB{R: uint8(i), G: uint8(i >> 8), B: uint8(i * 7)}
	}
	return r
}

func redChannel(r *rasterkit.Raster) []uint8 {
	out := make([]uint8, r.Len())
	for i, c := range r.Pix {
		out[i] = c.R
	}
	return out
}
