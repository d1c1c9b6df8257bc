package imageutil

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/rasterkit"
)

func TestRenderHistogramChart(t *testing.T) {
	var h rasterkit.Histogram
	h[0] = 10
	h[128] = 40
	h[255] = 25

	opts := DefaultChartOptions()
	img, err := RenderHistogramChart(h, "test", opts)
	require.NoError(t, err)
	assert.Equal(t, 720, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	// The tallest bar reaches the top of the plot area.
	plotW := opts.Width - marginLeft - marginRight
	x := marginLeft + 128*plotW/rasterkit.Levels
	assert.Equal(t, toRGBA(opts.Bar), img.RGBAAt(x, marginTop+1))
	// An empty level draws no bar.
	x = marginLeft + 64*plotW/rasterkit.Levels
	assert.Equal(t, toRGBA(opts.Background), img.RGBAAt(x, marginTop+10))
}

func TestRenderHistogramChartTooSmall(t *testing.T) {
	opts := DefaultChartOptions()
	opts.Width = 200
	_, err := RenderHistogramChart(rasterkit.Histogram{}, "small", opts)
	assert.Error(t, err)
}

func TestBarHeight(t *testing.T) {
	assert.Equal(t, 0, barHeight(5, 5, 10, 100))
	assert.Equal(t, 100, barHeight(10, 5, 10, 100))
	assert.Equal(t, 50, barHeight(7, 4, 10, 100))
	assert.Equal(t, 100, barHeight(3, 3, 3, 100), "flat histogram fills the plot")
	assert.Equal(t, 0, barHeight(0, 0, 0, 100), "empty histogram draws nothing")
}

func TestSaveHistogramChart(t *testing.T) {
	e := rasterkit.NewEngine()
	h := e.Histogram(CreateGradientImage(256, 4))
	path := filepath.Join(t.TempDir(), "hist.png")

	require.NoError(t, SaveHistogramChart(h, "gradient", path, DefaultChartOptions()))
	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 720, loaded.Width)
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
