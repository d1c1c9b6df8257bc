package rasterkit

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom, the best choice for
	// downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation.
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	// Fastest but lowest quality.
	InterpolationNearest
)

// ParseInterpolation maps "area", "linear" or "nearest" to an
// Interpolation.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(s) {
	case "area", "":
		return InterpolationArea, nil
	case "linear":
		return InterpolationLinear, nil
	case "nearest":
		return InterpolationNearest, nil
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", ErrInvalidParameter, s)
}

func (i Interpolation) String() string {
	switch i {
	case InterpolationLinear:
		return "linear"
	case InterpolationNearest:
		return "nearest"
	default:
		return "area"
	}
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resamples r to width x height with the given interpolation.
func (e *Engine) Resize(r *Raster, width, height int, interp Interpolation) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: resize to %dx%d", ErrInvalidParameter, width, height)
	}
	if r.Empty() {
		return nil, fmt.Errorf("%w: resize of empty raster", ErrInvalidParameter)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	interp.scaler().Scale(dst, dst.Bounds(), r.ToRGBA(), r.Bounds(), draw.Src, nil)
	return RasterFromImage(dst), nil
}
