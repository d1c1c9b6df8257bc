// Package rasterkit is a raster image processing engine. It provides
// deterministic buffer-to-buffer transforms (color remapping, geometric
// resampling, histogram remapping and 3x3 convolution) over an in-memory
// opaque RGB raster.
package rasterkit

import (
	"fmt"
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBFromColor converts a color.Color to RGB. Alpha is dropped.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// Gray returns a sample with all three channels set to v.
func Gray(v uint8) RGB {
	return RGB{R: v, G: v, B: v}
}

// Raster is a width x height grid of RGB samples stored row-major.
// len(Pix) is always Width*Height.
type Raster struct {
	Width  int
	Height int
	Pix    []RGB
}

// NewRaster creates a black raster with the specified dimensions.
// Negative dimensions are treated as zero.
func NewRaster(width, height int) *Raster {
	width, height = max(width, 0), max(height, 0)
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]RGB, width*height),
	}
}

// RasterFromPixels wraps pix as a width x height raster. The slice is
// used as-is, so the caller gives up ownership.
func RasterFromPixels(width, height int, pix []RGB) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParameter, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d raster",
			ErrInvalidParameter, len(pix), width, height)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// RasterFromImage converts any image.Image to a Raster.
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	r := NewRaster(bounds.Dx(), bounds.Dy())

	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < r.Height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+r.Width*4]
			for x := 0; x < r.Width; x++ {
				r.Pix[y*r.Width+x] = RGB{R: row[x*4], G: row[x*4+1], B: row[x*4+2]}
			}
		}
		return r
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r.Pix[(y-bounds.Min.Y)*r.Width+(x-bounds.Min.X)] = RGBFromColor(img.At(x, y))
		}
	}
	return r
}

// ToRGBA converts the raster to an opaque *image.RGBA.
func (r *Raster) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i, c := range r.Pix {
		o := i * 4
		img.Pix[o] = c.R
		img.Pix[o+1] = c.G
		img.Pix[o+2] = c.B
		img.Pix[o+3] = 255
	}
	return img
}

// Bounds returns the raster's dimensions as an image rectangle.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.Width, r.Height)
}

// Len returns the number of pixels.
func (r *Raster) Len() int {
	return len(r.Pix)
}

// Empty reports whether the raster has no pixels.
func (r *Raster) Empty() bool {
	return len(r.Pix) == 0
}

// At returns the pixel at column x, row y.
func (r *Raster) At(x, y int) RGB {
	return r.Pix[y*r.Width+x]
}

// Set sets the pixel at column x, row y.
func (r *Raster) Set(x, y int, c RGB) {
	r.Pix[y*r.Width+x] = c
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// Clone creates a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	clone := NewRaster(r.Width, r.Height)
	copy(clone.Pix, r.Pix)
	return clone
}

// Equal reports whether both rasters have the same dimensions and pixels.
func (r *Raster) Equal(o *Raster) bool {
	if r.Width != o.Width || r.Height != o.Height {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer.
func (r *Raster) String() string {
	return fmt.Sprintf("Raster(%dx%d)", r.Width, r.Height)
}
