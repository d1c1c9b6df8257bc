// Package recipe reads pipelines of rasterkit steps from YAML.
//
// A recipe looks like:
//
//	steps:
//	  - op: grayscale
//	  - op: quantize
//	    levels: 4
//	  - op: zoom-out
//	    fx: 2
//	    fy: 2
//	  - op: convolve
//	    kernel: sobel-x
//	  - op: convolve
//	    matrix: [[0, 0, 0], [0, 1, 0], [0, 0, 0]]
//	    bias: false
//	  - op: match
//	    target: reference.png
//
// Relative target paths are resolved against the recipe's directory.
package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wbrown/rasterkit"
	"github.com/wbrown/rasterkit/imageutil"
	"gopkg.in/yaml.v3"
)

// Recipe is the decoded form of a recipe file.
type Recipe struct {
	Steps []StepSpec `yaml:"steps"`
}

// StepSpec is one step of a recipe. Setting a field that Op does not
// take is an error.
type StepSpec struct {
	Op            string      `yaml:"op"`
	Delta         *int        `yaml:"delta,omitempty"`
	Factor        *int        `yaml:"factor,omitempty"`
	Levels        *int        `yaml:"levels,omitempty"`
	FX            int         `yaml:"fx,omitempty"`
	FY            int         `yaml:"fy,omitempty"`
	Width         int         `yaml:"width,omitempty"`
	Height        int         `yaml:"height,omitempty"`
	Interpolation string      `yaml:"interpolation,omitempty"`
	Kernel        string      `yaml:"kernel,omitempty"`
	Matrix        [][]float64 `yaml:"matrix,omitempty"`
	Bias          *bool       `yaml:"bias,omitempty"`
	Target        string      `yaml:"target,omitempty"`
}

// Load reads and parses the recipe at path.
func Load(path string) ([]rasterkit.Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe: %w", err)
	}
	steps, err := parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", path, err)
	}
	return steps, nil
}

// Parse decodes a YAML recipe into steps. Fields outside StepSpec, fields
// the step's op does not take, and missing required fields are rejected.
// Match targets are resolved against the working directory.
func Parse(data []byte) ([]rasterkit.Step, error) {
	return parse(data, ".")
}

func parse(data []byte, baseDir string) ([]rasterkit.Step, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var r Recipe
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding recipe: %w", err)
	}

	steps := make([]rasterkit.Step, 0, len(r.Steps))
	for i, spec := range r.Steps {
		step, err := spec.step(baseDir)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, spec.Op, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// opFields lists the optional fields each op takes. Ops missing from the
// map take none.
var opFields = map[string][]string{
	"brightness": {"delta"},
	"contrast":   {"factor"},
	"quantize":   {"levels"},
	"zoom-out":   {"fx", "fy"},
	"resize":     {"width", "height", "interpolation"},
	"convolve":   {"kernel", "matrix", "bias"},
	"match":      {"target"},
}

// setFields returns the yaml names of the parameter fields present in s.
func (s StepSpec) setFields() []string {
	var set []string
	add := func(present bool, name string) {
		if present {
			set = append(set, name)
		}
	}
	add(s.Delta != nil, "delta")
	add(s.Factor != nil, "factor")
	add(s.Levels != nil, "levels")
	add(s.FX != 0, "fx")
	add(s.FY != 0, "fy")
	add(s.Width != 0, "width")
	add(s.Height != 0, "height")
	add(s.Interpolation != "", "interpolation")
	add(s.Kernel != "", "kernel")
	add(s.Matrix != nil, "matrix")
	add(s.Bias != nil, "bias")
	add(s.Target != "", "target")
	return set
}

func (s StepSpec) step(baseDir string) (rasterkit.Step, error) {
	op := strings.ToLower(strings.TrimSpace(s.Op))
	for _, f := range s.setFields() {
		if !slices.Contains(opFields[op], f) {
			return nil, fmt.Errorf("%w: %s does not take %s", rasterkit.ErrInvalidParameter, op, f)
		}
	}
	switch op {
	case "match":
		if s.Target == "" {
			return nil, fmt.Errorf("%w: match needs a target", rasterkit.ErrInvalidParameter)
		}
		path := s.Target
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		target, err := imageutil.LoadImage(path)
		if err != nil {
			return nil, err
		}
		return rasterkit.MatchStep(target), nil
	case "brightness":
		delta, err := required(s.Delta, "delta", math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return rasterkit.BrightnessStep(delta), nil
	case "contrast":
		factor, err := required(s.Factor, "factor", math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return rasterkit.ContrastStep(factor), nil
	case "quantize":
		levels, err := required(s.Levels, "levels", 0, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return rasterkit.QuantizeStep(uint8(levels)), nil
	case "zoom-out":
		fy := s.FY
		if fy == 0 {
			fy = s.FX
		}
		return rasterkit.ParseStep(fmt.Sprintf("zoom-out=%d,%d", s.FX, fy))
	case "resize":
		interp, err := rasterkit.ParseInterpolation(s.Interpolation)
		if err != nil {
			return nil, err
		}
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("%w: resize to %dx%d", rasterkit.ErrInvalidParameter, s.Width, s.Height)
		}
		return rasterkit.ResizeStep(s.Width, s.Height, interp), nil
	case "convolve":
		return s.convolveStep()
	}
	return rasterkit.ParseStep(op)
}

// required checks that a field was given and lies in [lo, hi].
func required(v *int, name string, lo, hi int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%w: missing %s", rasterkit.ErrInvalidParameter, name)
	}
	if *v < lo || *v > hi {
		return 0, fmt.Errorf("%w: %s %d out of range [%d, %d]", rasterkit.ErrInvalidParameter, name, *v, lo, hi)
	}
	return *v, nil
}

func (s StepSpec) convolveStep() (rasterkit.Step, error) {
	switch {
	case s.Kernel != "" && s.Matrix != nil:
		return nil, fmt.Errorf("%w: convolve takes kernel or matrix, not both", rasterkit.ErrInvalidParameter)
	case s.Kernel != "":
		n, err := rasterkit.ParseNamedKernel(s.Kernel)
		if err != nil {
			return nil, err
		}
		if s.Bias != nil {
			return rasterkit.ConvolveStep(n.Kernel(), *s.Bias), nil
		}
		return rasterkit.NamedKernelStep(n), nil
	case s.Matrix != nil:
		if len(s.Matrix) != 3 {
			return nil, fmt.Errorf("%w: matrix needs 3 rows", rasterkit.ErrInvalidParameter)
		}
		var k rasterkit.Kernel
		for i, row := range s.Matrix {
			if len(row) != 3 {
				return nil, fmt.Errorf("%w: matrix row %d needs 3 weights", rasterkit.ErrInvalidParameter, i+1)
			}
			copy(k[i][:], row)
		}
		return rasterkit.ConvolveStep(k, s.Bias != nil && *s.Bias), nil
	}
	return nil, fmt.Errorf("%w: convolve needs kernel or matrix", rasterkit.ErrInvalidParameter)
}
