package rasterkit

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one transform with its parameters bound. Apply must not modify
// its input raster.
type Step interface {
	// Name returns the step in the textual form accepted by ParseStep.
	Name() string
	Apply(e *Engine, r *Raster) (*Raster, error)
}

type funcStep struct {
	name string
	fn   func(e *Engine, r *Raster) (*Raster, error)
}

func (s funcStep) Name() string { return s.name }

func (s funcStep) Apply(e *Engine, r *Raster) (*Raster, error) {
	return s.fn(e, r)
}

func pure(name string, fn func(e *Engine, r *Raster) *Raster) Step {
	return funcStep{name: name, fn: func(e *Engine, r *Raster) (*Raster, error) {
		return fn(e, r), nil
	}}
}

// GrayscaleStep converts to luminance.
func GrayscaleStep() Step { return pure("grayscale", (*Engine).Grayscale) }

// NegativeStep inverts every channel.
func NegativeStep() Step { return pure("negative", (*Engine).Negative) }

// MirrorVerticalStep flips rows.
func MirrorVerticalStep() Step { return pure("mirror-vertical", (*Engine).MirrorVertical) }

// MirrorHorizontalStep flips columns.
func MirrorHorizontalStep() Step { return pure("mirror-horizontal", (*Engine).MirrorHorizontal) }

// RotateLeftStep rotates 90 degrees counter-clockwise.
func RotateLeftStep() Step { return pure("rotate-left", (*Engine).RotateLeft) }

// RotateRightStep rotates 90 degrees clockwise.
func RotateRightStep() Step { return pure("rotate-right", (*Engine).RotateRight) }

// ZoomInStep doubles the raster with interpolated gaps.
func ZoomInStep() Step { return pure("zoom-in", (*Engine).ZoomIn) }

// BrightnessStep adds delta to every channel.
func BrightnessStep(delta int) Step {
	return pure(fmt.Sprintf("brightness=%d", delta), func(e *Engine, r *Raster) *Raster {
		return e.Brightness(r, delta)
	})
}

// ContrastStep multiplies every channel by factor.
func ContrastStep(factor int) Step {
	return pure(fmt.Sprintf("contrast=%d", factor), func(e *Engine, r *Raster) *Raster {
		return e.Contrast(r, factor)
	})
}

// QuantizeStep reduces a grayscale raster to levels tones.
func QuantizeStep(levels uint8) Step {
	return pure(fmt.Sprintf("quantize=%d", levels), func(e *Engine, r *Raster) *Raster {
		return e.Quantize(r, levels)
	})
}

// ZoomOutStep averages fx x fy blocks.
func ZoomOutStep(fx, fy int) Step {
	return funcStep{
		name: fmt.Sprintf("zoom-out=%d,%d", fx, fy),
		fn: func(e *Engine, r *Raster) (*Raster, error) {
			return e.ZoomOut(r, fx, fy)
		},
	}
}

// ResizeStep resamples to width x height.
func ResizeStep(width, height int, interp Interpolation) Step {
	return funcStep{
		name: fmt.Sprintf("resize=%d,%d,%s", width, height, interp),
		fn: func(e *Engine, r *Raster) (*Raster, error) {
			return e.Resize(r, width, height, interp)
		},
	}
}

// ConvolveStep convolves with an arbitrary kernel.
func ConvolveStep(k Kernel, addBias bool) Step {
	parts := make([]string, 0, 10)
	for _, row := range k {
		for _, v := range row {
			parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	if addBias {
		parts = append(parts, "bias")
	}
	return pure("kernel="+strings.Join(parts, ","), func(e *Engine, r *Raster) *Raster {
		return e.Convolve(r, k, addBias)
	})
}

// NamedKernelStep convolves with a built-in kernel.
func NamedKernelStep(n NamedKernel) Step {
	return pure("convolve="+n.String(), func(e *Engine, r *Raster) *Raster {
		return e.ConvolveNamed(r, n)
	})
}

// MatchStep matches the histogram of the raster to target's.
func MatchStep(target *Raster) Step {
	return pure("match", func(e *Engine, r *Raster) *Raster {
		return e.Match(r, target)
	})
}

// equalizeStep is stateless. Session.Apply recognizes it and calls
// Engine.Equalize directly so that it can keep the before and after
// histograms.
type equalizeStep struct{}

// EqualizeStep equalizes through the luminance cumulative table.
func EqualizeStep() Step { return equalizeStep{} }

func (equalizeStep) Name() string { return "equalize" }

func (equalizeStep) Apply(e *Engine, r *Raster) (*Raster, error) {
	return e.Equalize(r).Raster, nil
}

// ParseStep parses the textual form name[=arg[,arg...]], for example
// "grayscale", "quantize=4", "zoom-out=2,3", "convolve=sobel-x" or
// "kernel=0,0,0,0,1,0,0,0,0,bias". Histogram matching needs a target
// raster and is built with MatchStep instead.
func ParseStep(s string) (Step, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(s), "=")
	name = strings.ToLower(strings.TrimSpace(name))
	var args []string
	if hasArg {
		args = strings.Split(arg, ",")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}
	}

	noArgs := func(step Step) (Step, error) {
		if hasArg {
			return nil, fmt.Errorf("%w: step %q takes no arguments", ErrInvalidParameter, name)
		}
		return step, nil
	}

	switch name {
	case "grayscale":
		return noArgs(GrayscaleStep())
	case "negative":
		return noArgs(NegativeStep())
	case "mirror-vertical":
		return noArgs(MirrorVerticalStep())
	case "mirror-horizontal":
		return noArgs(MirrorHorizontalStep())
	case "rotate-left":
		return noArgs(RotateLeftStep())
	case "rotate-right":
		return noArgs(RotateRightStep())
	case "zoom-in":
		return noArgs(ZoomInStep())
	case "equalize":
		return noArgs(EqualizeStep())
	case "brightness", "contrast":
		v, err := intArgs(name, args, 1, 1)
		if err != nil {
			return nil, err
		}
		if name == "brightness" {
			return BrightnessStep(v[0]), nil
		}
		return ContrastStep(v[0]), nil
	case "quantize":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: quantize needs one argument", ErrInvalidParameter)
		}
		levels, err := strconv.ParseUint(args[0], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: quantize levels %q: %v", ErrInvalidParameter, args[0], err)
		}
		return QuantizeStep(uint8(levels)), nil
	case "zoom-out":
		v, err := intArgs(name, args, 1, 2)
		if err != nil {
			return nil, err
		}
		fx, fy := v[0], v[0]
		if len(v) == 2 {
			fy = v[1]
		}
		if fx <= 0 || fy <= 0 {
			return nil, fmt.Errorf("%w: zoom-out factors %d,%d must be positive",
				ErrInvalidParameter, fx, fy)
		}
		return ZoomOutStep(fx, fy), nil
	case "resize":
		if len(args) != 2 && len(args) != 3 {
			return nil, fmt.Errorf("%w: resize needs width,height[,interpolation]", ErrInvalidParameter)
		}
		v, err := intArgs(name, args[:2], 2, 2)
		if err != nil {
			return nil, err
		}
		interp := InterpolationArea
		if len(args) == 3 {
			if interp, err = ParseInterpolation(args[2]); err != nil {
				return nil, err
			}
		}
		return ResizeStep(v[0], v[1], interp), nil
	case "convolve":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: convolve needs a kernel name", ErrInvalidParameter)
		}
		n, err := ParseNamedKernel(args[0])
		if err != nil {
			return nil, err
		}
		return NamedKernelStep(n), nil
	case "kernel":
		addBias := false
		if len(args) == 10 && strings.EqualFold(args[9], "bias") {
			addBias = true
			args = args[:9]
		}
		if len(args) != 9 {
			return nil, fmt.Errorf("%w: kernel needs 9 weights", ErrInvalidParameter)
		}
		var k Kernel
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: kernel weight %q: %v", ErrInvalidParameter, a, err)
			}
			k[i/3][i%3] = v
		}
		return ConvolveStep(k, addBias), nil
	case "match":
		return nil, fmt.Errorf("%w: match needs a target raster", ErrInvalidParameter)
	}
	return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidParameter, name)
}

// ParseSteps parses each element with ParseStep.
func ParseSteps(specs []string) ([]Step, error) {
	steps := make([]Step, 0, len(specs))
	for _, s := range specs {
		step, err := ParseStep(s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// intArgs parses between lo and hi integer arguments, each of which must
// fit in 32 bits.
func intArgs(name string, args []string, lo, hi int) ([]int, error) {
	if len(args) < lo || len(args) > hi {
		return nil, fmt.Errorf("%w: %s takes %d to %d arguments, got %d",
			ErrInvalidParameter, name, lo, hi, len(args))
	}
	v := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument %q: %v", ErrInvalidParameter, name, a, err)
		}
		v[i] = int(n)
	}
	return v, nil
}
