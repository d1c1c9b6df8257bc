// Package imageutil connects rasters to the outside world: decoding and
// encoding image files, rendering histogram charts, and fixtures and
// metrics for tests.
package imageutil

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/rasterkit"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// JPEGQuality is the quality used when saving JPEG files.
const JPEGQuality = 95

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP) and returns it as a raster along with the format name.
func Decode(r io.Reader) (*rasterkit.Raster, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return rasterkit.RasterFromImage(img), format, nil
}

// LoadImage loads an image from the specified path.
func LoadImage(path string) (*rasterkit.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	r, _, err := Decode(f)
	return r, err
}

// Format names an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the encoding from a file extension, defaulting
// to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".gif":
		return FormatGIF
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatPNG
	}
}

// EncodeImage writes img to w in the given format.
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, img)
	}
}

// Encode writes the raster to w in the given format.
func Encode(w io.Writer, r *rasterkit.Raster, format Format) error {
	return EncodeImage(w, r.ToRGBA(), format)
}

// SaveImage saves a raster to the specified path. Format is determined
// by file extension (png, jpg/jpeg, gif, bmp, tif/tiff).
func SaveImage(r *rasterkit.Raster, path string) error {
	return saveImage(r.ToRGBA(), path)
}

func saveImage(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if err := EncodeImage(f, img, FormatFromPath(path)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
