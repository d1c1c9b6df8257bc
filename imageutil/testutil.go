package imageutil

import (
	"math"

	"github.com/wbrown/rasterkit"
)

// CreateGradientImage creates a horizontal gray gradient.
func CreateGradientImage(width, height int) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / max(width-1, 1))
			r.Set(x, y, rasterkit.Gray(v))
		}
	}
	return r
}

// CreateVerticalGradientImage creates a vertical gray gradient.
func CreateVerticalGradientImage(width, height int) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	for y := 0; y < height; y++ {
		v := uint8(255 * y / max(height-1, 1))
		for x := 0; x < width; x++ {
			r.Set(x, y, rasterkit.Gray(v))
		}
	}
	return r
}

// CreateCheckerboardImage creates a black and white checkerboard.
func CreateCheckerboardImage(width, height, squareSize int) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				r.Set(x, y, rasterkit.Gray(255))
			}
		}
	}
	return r
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c rasterkit.RGB) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	for i := range r.Pix {
		r.Pix[i] = c
	}
	return r
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	colors := []rasterkit.RGB{
		{R: 255, G: 255, B: 255}, // White
		{R: 255, G: 255, B: 0},   // Yellow
		{R: 0, G: 255, B: 255},   // Cyan
		{R: 0, G: 255, B: 0},     // Green
		{R: 255, G: 0, B: 255},   // Magenta
		{R: 255, G: 0, B: 0},     // Red
		{R: 0, G: 0, B: 255},     // Blue
		{R: 0, G: 0, B: 0},       // Black
	}

	barWidth := max(width/len(colors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, colors[min(x/barWidth, len(colors)-1)])
		}
	}
	return r
}

// CreateNoiseImage creates a deterministic pseudo-random image, useful
// where every channel should differ from its neighbors.
func CreateNoiseImage(width, height int, seed uint32) *rasterkit.Raster {
	r := rasterkit.NewRaster(width, height)
	state := seed | 1
	next := func() uint8 {
		// xorshift32
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		return uint8(state >> 24)
	}
	for i := range r.Pix {
		r.Pix[i] = rasterkit.RGB{R: next(), G: next(), B: next()}
	}
	return r
}

// CalculateMSE calculates the Mean Squared Error between two rasters.
// Rasters of different sizes are infinitely far apart.
func CalculateMSE(a, b *rasterkit.Raster) float64 {
	if a.Width != b.Width || a.Height != b.Height {
		return math.MaxFloat64
	}
	if a.Empty() {
		return 0
	}

	var sumSq float64
	for i := range a.Pix {
		dr := float64(a.Pix[i].R) - float64(b.Pix[i].R)
		dg := float64(a.Pix[i].G) - float64(b.Pix[i].G)
		db := float64(a.Pix[i].B) - float64(b.Pix[i].B)
		sumSq += dr*dr + dg*dg + db*db
	}
	return sumSq / float64(a.Len()*3)
}

// CalculateMaxDiff calculates the maximum channel difference between two
// rasters, or 256 if their sizes differ.
func CalculateMaxDiff(a, b *rasterkit.Raster) int {
	if a.Width != b.Width || a.Height != b.Height {
		return 256
	}

	maxDiff := 0
	for i := range a.Pix {
		maxDiff = max(maxDiff,
			abs(int(a.Pix[i].R)-int(b.Pix[i].R)),
			abs(int(a.Pix[i].G)-int(b.Pix[i].G)),
			abs(int(a.Pix[i].B)-int(b.Pix[i].B)))
	}
	return maxDiff
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
