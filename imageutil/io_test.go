package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/rasterkit"
)

func TestLoadSaveImage(t *testing.T) {
	tmpDir := t.TempDir()
	img := CreateColorBarsImage(64, 64)

	// Lossless formats must round trip exactly.
	for _, name := range []string{"bars.png", "bars.bmp", "bars.tiff", "bars.TIF"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, name)
			require.NoError(t, SaveImage(img, path))

			loaded, err := LoadImage(path)
			require.NoError(t, err)
			assert.True(t, loaded.Equal(img), "MSE=%f", CalculateMSE(img, loaded))
		})
	}
}

func TestSaveJPEGIsClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradient.jpg")
	img := CreateGradientImage(64, 32)
	require.NoError(t, SaveImage(img, path))

	loaded, err := LoadImage(path)
	require.NoError(t, err)
	assert.Less(t, CalculateMSE(img, loaded), 10.0)
}

func TestDecodeReportsFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, CreateCheckerboardImage(8, 8, 2), FormatBMP))

	r, format, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
	assert.Equal(t, 8, r.Width)

	_, _, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestDecodeDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, EncodeImage(&buf, src, FormatPNG))

	r, _, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, rasterkit.RGB{R: 200, G: 100, B: 50}, r.Pix[0])
}

func TestLoadImageMissing(t *testing.T) {
	_, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"a.png":          FormatPNG,
		"a.JPG":          FormatJPEG,
		"a.jpeg":         FormatJPEG,
		"dir.x/a.gif":    FormatGIF,
		"a.bmp":          FormatBMP,
		"a.tif":          FormatTIFF,
		"a.tiff":         FormatTIFF,
		"no-extension":   FormatPNG,
		"a.webp":         FormatPNG,
		"/tmp/out.Tiff":  FormatTIFF,
		"relative/x.bmp": FormatBMP,
	}
	for path, want := range cases {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestSaveImageBadDirectory(t *testing.T) {
	err := SaveImage(CreateSolidImage(1, 1, rasterkit.Gray(0)), filepath.Join(t.TempDir(), "nope", "x.png"))
	assert.Error(t, err)
}
