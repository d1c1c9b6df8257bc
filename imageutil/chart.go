package imageutil

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/rasterkit"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// ChartOptions controls histogram chart rendering.
type ChartOptions struct {
	Width, Height int
	FontSize      float64
	Background    color.Color
	Foreground    color.Color
	Bar           color.Color
}

// DefaultChartOptions returns a 720x480 chart with dark bars on white.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:      720,
		Height:     480,
		FontSize:   12,
		Background: color.White,
		Foreground: color.Black,
		Bar:        color.RGBA{R: 40, G: 90, B: 160, A: 255},
	}
}

const (
	marginLeft   = 64
	marginRight  = 16
	marginTop    = 32
	marginBottom = 32
)

var (
	chartFontOnce sync.Once
	chartFont     *truetype.Font
	chartFontErr  error
)

func loadChartFont() (*truetype.Font, error) {
	chartFontOnce.Do(func() {
		chartFont, chartFontErr = freetype.ParseFont(goregular.TTF)
	})
	return chartFont, chartFontErr
}

// RenderHistogramChart draws h as a bar chart, one bar per level, with
// the vertical axis spanning the smallest to the largest count.
func RenderHistogramChart(h rasterkit.Histogram, title string, opts ChartOptions) (*image.RGBA, error) {
	plotW := opts.Width - marginLeft - marginRight
	plotH := opts.Height - marginTop - marginBottom
	if plotW < rasterkit.Levels || plotH < 1 {
		return nil, fmt.Errorf("chart %dx%d too small for %d bars",
			opts.Width, opts.Height, rasterkit.Levels)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	lo, hi := h.MinMax()
	bar := image.NewUniform(opts.Bar)
	baseline := marginTop + plotH
	for level, n := range h {
		height := barHeight(n, lo, hi, plotH)
		if height == 0 {
			continue
		}
		x0 := marginLeft + level*plotW/rasterkit.Levels
		x1 := marginLeft + (level+1)*plotW/rasterkit.Levels
		draw.Draw(img, image.Rect(x0, baseline-height, max(x1, x0+1), baseline), bar, image.Point{}, draw.Src)
	}

	fg := image.NewUniform(opts.Foreground)
	draw.Draw(img, image.Rect(marginLeft-1, marginTop, marginLeft, baseline+1), fg, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(marginLeft-1, baseline, marginLeft+plotW, baseline+1), fg, image.Point{}, draw.Src)

	labels := []struct {
		text  string
		x, y  int
		right bool
	}{
		{title, marginLeft, marginTop - 10, false},
		{"0", marginLeft, baseline + 18, false},
		{"255", marginLeft + plotW, baseline + 18, true},
		{strconv.FormatUint(uint64(hi), 10), marginLeft - 6, marginTop + 10, true},
		{strconv.FormatUint(uint64(lo), 10), marginLeft - 6, baseline, true},
	}
	for _, l := range labels {
		if err := drawLabel(img, opts, l.text, l.x, l.y, l.right); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// barHeight scales n into [0, plotH] over the axis range [lo, hi]. When
// every bucket has the same count the bars fill the plot, unless that
// count is zero.
func barHeight(n, lo, hi uint32, plotH int) int {
	if hi == lo {
		if hi == 0 {
			return 0
		}
		return plotH
	}
	return int(uint64(n-lo) * uint64(plotH) / uint64(hi-lo))
}

// drawLabel draws text with its baseline at y. With right set, the text
// ends at x instead of starting there.
func drawLabel(dst draw.Image, opts ChartOptions, text string, x, y int, right bool) error {
	ttf, err := loadChartFont()
	if err != nil {
		return fmt.Errorf("failed to parse chart font: %w", err)
	}
	if right {
		face := truetype.NewFace(ttf, &truetype.Options{
			Size:    opts.FontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		x -= font.MeasureString(face, text).Ceil()
		face.Close()
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(opts.FontSize)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(opts.Foreground))
	ctx.SetHinting(font.HintingFull)
	if _, err := ctx.DrawString(text, freetype.Pt(x, y)); err != nil {
		return fmt.Errorf("failed to draw label %q: %w", text, err)
	}
	return nil
}

// SaveHistogramChart renders h and saves it to path, encoded by
// extension.
func SaveHistogramChart(h rasterkit.Histogram, title, path string, opts ChartOptions) error {
	img, err := RenderHistogramChart(h, title, opts)
	if err != nil {
		return err
	}
	return saveImage(img, path)
}
