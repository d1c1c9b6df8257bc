package rasterkit_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/rasterkit"
)

func TestNewRaster(t *testing.T) {
	r := rasterkit.NewRaster(100, 50)
	assert.Equal(t, 100, r.Width)
	assert.Equal(t, 50, r.Height)
	assert.Len(t, r.Pix, 5000)

	empty := rasterkit.NewRaster(-3, 4)
	assert.True(t, empty.Empty())
	assert.Equal(t, 0, empty.Width)
}

func TestRasterFromPixelsRejectsMismatch(t *testing.T) {
	_, err := rasterkit.RasterFromPixels(2, 2, make([]rasterkit.RGB, 3))
	require.ErrorIs(t, err, rasterkit.ErrInvalidParameter)

	_, err = rasterkit.RasterFromPixels(-1, 0, nil)
	require.ErrorIs(t, err, rasterkit.ErrInvalidParameter)

	r, err := rasterkit.RasterFromPixels(0, 0, nil)
	require.NoError(t, err)
	assert.True(t, r.Empty())
}

func TestRasterGetSet(t *testing.T) {
	r := rasterkit.NewRaster(10, 10)
	c := rasterkit.RGB{R: 100, G: 150, B: 200}
	r.Set(5, 4, c)

	assert.Equal(t, c, r.At(5, 4))
	assert.Equal(t, c, r.Pix[4*10+5])
	assert.True(t, r.In(9, 9))
	assert.False(t, r.In(10, 0))
}

func TestRasterClone(t *testing.T) {
	r := rasterkit.NewRaster(10, 10)
	r.Set(5, 5, rasterkit.RGB{R: 255})

	clone := r.Clone()
	require.True(t, clone.Equal(r))

	clone.Set(5, 5, rasterkit.RGB{G: 255})
	assert.Equal(t, uint8(0), r.At(5, 5).G, "modifying clone should not affect original")
	assert.False(t, clone.Equal(r))
}

func TestRasterImageRoundTrip(t *testing.T) {
	r := indexRaster(7, 5)
	back := rasterkit.RasterFromImage(r.ToRGBA())
	assert.True(t, back.Equal(r))

	// Non-RGBA sources go through color conversion and drop alpha.
	nrgba := image.NewNRGBA(image.Rect(2, 3, 4, 4))
	nrgba.SetNRGBA(2, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	nrgba.SetNRGBA(3, 3, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	got := rasterkit.RasterFromImage(nrgba)
	require.Equal(t, 2, got.Width)
	require.Equal(t, 1, got.Height)
	assert.Equal(t, rasterkit.RGB{R: 10, G: 20, B: 30}, got.At(0, 0))
	assert.Equal(t, rasterkit.RGB{R: 200, G: 100, B: 50}, got.At(1, 0))
}
