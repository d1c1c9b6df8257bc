package rasterkit

import (
	"fmt"
	"strings"
)

// Kernel is a 3x3 convolution kernel indexed [row][column].
type Kernel [3][3]float64

// Flip returns the kernel rotated by 180 degrees. Applying the flipped
// kernel as a correlation is a true convolution with the original.
func (k Kernel) Flip() Kernel {
	var f Kernel
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			f[i][j] = k[2-i][2-j]
		}
	}
	return f
}

// Bias is added to every channel of a biased convolution so that kernels
// with negative responses stay visible.
const Bias = 127

// NamedKernel identifies a built-in kernel.
type NamedKernel int

const (
	Gaussian NamedKernel = iota
	Laplacian
	HighPass
	PrewittX
	PrewittY
	SobelX
	SobelY
)

var namedKernels = [...]struct {
	name   string
	kernel Kernel
	bias   bool
}{
	Gaussian: {"gaussian", Kernel{
		{0.0625, 0.125, 0.0625},
		{0.125, 0.25, 0.125},
		{0.0625, 0.125, 0.0625},
	}, false},
	Laplacian: {"laplacian", Kernel{
		{0, -1, 0},
		{-1, 4, -1},
		{0, -1, 0},
	}, true},
	HighPass: {"high-pass", Kernel{
		{-1, -1, -1},
		{-1, 8, -1},
		{-1, -1, -1},
	}, true},
	PrewittX: {"prewitt-x", Kernel{
		{-1, 0, 1},
		{-1, 0, 1},
		{-1, 0, 1},
	}, true},
	PrewittY: {"prewitt-y", Kernel{
		{-1, -1, -1},
		{0, 0, 0},
		{1, 1, 1},
	}, true},
	SobelX: {"sobel-x", Kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}, true},
	SobelY: {"sobel-y", Kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}, true},
}

// NamedKernels lists every built-in kernel in catalog order.
func NamedKernels() []NamedKernel {
	all := make([]NamedKernel, len(namedKernels))
	for i := range all {
		all[i] = NamedKernel(i)
	}
	return all
}

// ParseNamedKernel looks up a built-in kernel by name, e.g. "sobel-x".
func ParseNamedKernel(name string) (NamedKernel, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, nk := range namedKernels {
		if nk.name == name {
			return NamedKernel(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kernel %q", ErrInvalidParameter, name)
}

func (n NamedKernel) valid() bool {
	return n >= 0 && int(n) < len(namedKernels)
}

// String returns the kernel's catalog name.
func (n NamedKernel) String() string {
	if !n.valid() {
		return fmt.Sprintf("NamedKernel(%d)", int(n))
	}
	return namedKernels[n].name
}

// Kernel returns the kernel's weights.
func (n NamedKernel) Kernel() Kernel {
	return namedKernels[n].kernel
}

// RequiresBias reports whether the kernel's response can be negative
// and should be convolved with Bias added. Only the Gaussian blur is a
// pure smoothing kernel.
func (n NamedKernel) RequiresBias() bool {
	return namedKernels[n].bias
}

// Convolve applies k to r as a true convolution. Pixels whose 3x3
// neighborhood leaves the raster are copied through unchanged. When
// addBias is set, Bias is added to every interior channel before
// clamping.
func (e *Engine) Convolve(r *Raster, k Kernel, addBias bool) *Raster {
	flipped := k.Flip()
	var bias float64
	if addBias {
		bias = Bias
	}
	out := NewRaster(r.Width, r.Height)
	e.Traverse(r, out, func(c Cell, in, dst []RGB) {
		if c.Column == 0 || c.Row == 0 || c.Column == c.Width-1 || c.Row == c.Height-1 {
			dst[c.Index] = in[c.Index]
			return
		}
		var sumR, sumG, sumB float64
		for i := -1; i <= 1; i++ {
			for j := -1; j <= 1; j++ {
				p := in[c.Index+i*c.Width+j]
				w := flipped[i+1][j+1]
				sumR += w * float64(p.R)
				sumG += w * float64(p.G)
				sumB += w * float64(p.B)
			}
		}
		dst[c.Index] = RGB{
			R: clampUint8(sumR + bias),
			G: clampUint8(sumG + bias),
			B: clampUint8(sumB + bias),
		}
	})
	return out
}

// ConvolveNamed applies a built-in kernel with its own bias setting.
func (e *Engine) ConvolveNamed(r *Raster, n NamedKernel) *Raster {
	return e.Convolve(r, n.Kernel(), n.RequiresBias())
}
