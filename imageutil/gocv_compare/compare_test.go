// Package gocv_compare contains tests that compare the pure Go raster
// engine against gocv (OpenCV). These tests require OpenCV to be
// installed.
//
// Run with: cd imageutil/gocv_compare && go test -v
package gocv_compare

import (
	"image"
	"testing"

	"github.com/wbrown/rasterkit"
	"github.com/wbrown/rasterkit/imageutil"
	"gocv.io/x/gocv"
)

// matToRaster converts a gocv.Mat (BGR) to a raster.
func matToRaster(mat gocv.Mat) *rasterkit.Raster {
	height, width := mat.Rows(), mat.Cols()
	r := rasterkit.NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			vec := mat.GetVecbAt(y, x)
			r.Set(x, y, rasterkit.RGB{R: vec[2], G: vec[1], B: vec[0]})
		}
	}
	return r
}

// grayMatToRaster converts a single channel gocv.Mat to a gray raster.
func grayMatToRaster(mat gocv.Mat) *rasterkit.Raster {
	height, width := mat.Rows(), mat.Cols()
	r := rasterkit.NewRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.Set(x, y, rasterkit.Gray(mat.GetUCharAt(y, x)))
		}
	}
	return r
}

// rasterToMat converts a raster to a gocv.Mat (BGR).
func rasterToMat(r *rasterkit.Raster) gocv.Mat {
	mat := gocv.NewMatWithSize(r.Height, r.Width, gocv.MatTypeCV8UC3)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.At(x, y)
			mat.SetUCharAt(y, x*3, c.B)
			mat.SetUCharAt(y, x*3+1, c.G)
			mat.SetUCharAt(y, x*3+2, c.R)
		}
	}
	return mat
}

// rasterToGrayMat converts the red channel of a gray raster to a single
// channel gocv.Mat.
func rasterToGrayMat(r *rasterkit.Raster) gocv.Mat {
	mat := gocv.NewMatWithSize(r.Height, r.Width, gocv.MatTypeCV8U)
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			mat.SetUCharAt(y, x, r.At(x, y).R)
		}
	}
	return mat
}

func kernelToMat(k rasterkit.Kernel) gocv.Mat {
	mat := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			mat.SetFloatAt(i, j, float32(k[i][j]))
		}
	}
	return mat
}

// interior crops the one pixel border that convolution copies through.
func interior(r *rasterkit.Raster) *rasterkit.Raster {
	out := rasterkit.NewRaster(r.Width-2, r.Height-2)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			out.Set(x, y, r.At(x+1, y+1))
		}
	}
	return out
}

func TestCompareGrayscaleConversion(t *testing.T) {
	e := rasterkit.NewEngine()
	img := imageutil.CreateNoiseImage(256, 256, 1)
	mat := rasterToMat(img)
	defer mat.Close()

	grayMat := gocv.NewMat()
	defer grayMat.Close()
	gocv.CvtColor(mat, &grayMat, gocv.ColorBGRToGray)

	mse := imageutil.CalculateMSE(grayMatToRaster(grayMat), e.Grayscale(img))
	t.Logf("Grayscale conversion MSE: %f", mse)

	// OpenCV uses fixed point weights, so allow off-by-one rounding.
	if mse > 1.0 {
		t.Errorf("Grayscale MSE too high: %f (threshold: 1.0)", mse)
	}
}

func TestCompareConvolution(t *testing.T) {
	e := rasterkit.NewEngine()
	img := imageutil.CreateCheckerboardImage(128, 128, 16)
	mat := rasterToMat(img)
	defer mat.Close()

	for _, n := range rasterkit.NamedKernels() {
		t.Run(n.String(), func(t *testing.T) {
			// filter2D is a correlation, so hand it the flipped kernel.
			kernel := kernelToMat(n.Kernel().Flip())
			defer kernel.Close()

			var delta float64
			if n.RequiresBias() {
				delta = rasterkit.Bias
			}
			filtered := gocv.NewMat()
			defer filtered.Close()
			gocv.Filter2D(mat, &filtered, -1, kernel, image.Point{X: -1, Y: -1}, delta, gocv.BorderDefault)

			want := interior(matToRaster(filtered))
			got := interior(e.ConvolveNamed(img, n))
			maxDiff := imageutil.CalculateMaxDiff(want, got)
			t.Logf("%s max diff: %d", n, maxDiff)
			if maxDiff > 1 {
				t.Errorf("%s differs from filter2D by %d", n, maxDiff)
			}
		})
	}
}

func TestCompareMirrorAndRotate(t *testing.T) {
	e := rasterkit.NewEngine()
	img := imageutil.CreateNoiseImage(97, 61, 5)
	mat := rasterToMat(img)
	defer mat.Close()

	testCases := []struct {
		name string
		cv   func(dst *gocv.Mat)
		got  *rasterkit.Raster
	}{
		{"MirrorVertical", func(dst *gocv.Mat) { gocv.Flip(mat, dst, 0) }, e.MirrorVertical(img)},
		{"MirrorHorizontal", func(dst *gocv.Mat) { gocv.Flip(mat, dst, 1) }, e.MirrorHorizontal(img)},
		{"RotateLeft", func(dst *gocv.Mat) { gocv.Rotate(mat, dst, gocv.Rotate90CounterClockwise) }, e.RotateLeft(img)},
		{"RotateRight", func(dst *gocv.Mat) { gocv.Rotate(mat, dst, gocv.Rotate90Clockwise) }, e.RotateRight(img)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dst := gocv.NewMat()
			defer dst.Close()
			tc.cv(&dst)

			if want := matToRaster(dst); !want.Equal(tc.got) {
				t.Errorf("%s: max diff %d", tc.name, imageutil.CalculateMaxDiff(want, tc.got))
			}
		})
	}
}

func TestCompareZoomOut(t *testing.T) {
	e := rasterkit.NewEngine()
	img := imageutil.CreateNoiseImage(256, 256, 9)
	mat := rasterToMat(img)
	defer mat.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mat, &resized, image.Point{X: 64, Y: 64}, 0, 0, gocv.InterpolationArea)

	got, err := e.ZoomOut(img, 4, 4)
	if err != nil {
		t.Fatalf("ZoomOut: %v", err)
	}
	// Area interpolation with an integer factor is a block average.
	maxDiff := imageutil.CalculateMaxDiff(matToRaster(resized), got)
	t.Logf("ZoomOut max diff: %d", maxDiff)
	if maxDiff > 1 {
		t.Errorf("ZoomOut differs from INTER_AREA by %d", maxDiff)
	}
}

func TestCompareResize(t *testing.T) {
	testCases := []struct {
		name      string
		srcWidth  int
		srcHeight int
		dstWidth  int
		dstHeight int
		threshold float64
	}{
		{"Downscale 2x", 256, 256, 128, 128, 10.0},
		{"Upscale 2x", 64, 64, 128, 128, 10.0},
		{"Arbitrary", 256, 256, 100, 75, 15.0},
	}

	e := rasterkit.NewEngine()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			img := imageutil.CreateGradientImage(tc.srcWidth, tc.srcHeight)
			mat := rasterToMat(img)
			defer mat.Close()

			resized := gocv.NewMat()
			defer resized.Close()
			gocv.Resize(mat, &resized, image.Point{X: tc.dstWidth, Y: tc.dstHeight},
				0, 0, gocv.InterpolationLinear)

			got, err := e.Resize(img, tc.dstWidth, tc.dstHeight, rasterkit.InterpolationLinear)
			if err != nil {
				t.Fatalf("Resize: %v", err)
			}
			mse := imageutil.CalculateMSE(matToRaster(resized), got)
			t.Logf("%s resize MSE: %f", tc.name, mse)
			if mse > tc.threshold {
				t.Errorf("Resize MSE too high: %f (threshold: %f)", mse, tc.threshold)
			}
		})
	}
}

func TestCompareEqualize(t *testing.T) {
	e := rasterkit.NewEngine()
	img := e.Grayscale(imageutil.CreateVerticalGradientImage(64, 200))
	mat := rasterToGrayMat(img)
	defer mat.Close()

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(mat, &equalized)

	// OpenCV rescales the table from its first occupied level, so only
	// the overall shape is expected to agree.
	mse := imageutil.CalculateMSE(grayMatToRaster(equalized), e.Equalize(img).Raster)
	t.Logf("Equalize MSE: %f", mse)
	if mse > 25.0 {
		t.Errorf("Equalize MSE too high: %f (threshold: 25.0)", mse)
	}
}
