package rasterkit

import "math"

// Luminance returns the BT.601 luma of c, 0.299*R + 0.587*G + 0.114*B,
// rounded to the nearest integer.
func Luminance(c RGB) uint8 {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	return clampUint8(lum)
}

// Clamp clamps an integer to [0, 255].
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// saturate limits a channel offset or gain to [-255, 255]. Any larger
// magnitude already drives every nonzero channel to 0 or 255, and the
// limit keeps channel arithmetic from overflowing.
func saturate(v int) int {
	return min(max(v, -255), 255)
}

// clampUint8 clamps a float64 to [0, 255], rounding to nearest.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Grayscale replaces every pixel with its luminance on all channels.
func (e *Engine) Grayscale(r *Raster) *Raster {
	return e.mapPixels(r, func(c RGB) RGB {
		return Gray(Luminance(c))
	})
}

// Negative inverts every channel.
func (e *Engine) Negative(r *Raster) *Raster {
	return e.mapPixels(r, func(c RGB) RGB {
		return RGB{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
	})
}

// Brightness adds delta to every channel, clamping to [0, 255].
func (e *Engine) Brightness(r *Raster, delta int) *Raster {
	delta = saturate(delta)
	return e.mapPixels(r, func(c RGB) RGB {
		return RGB{
			R: Clamp(int(c.R) + delta),
			G: Clamp(int(c.G) + delta),
			B: Clamp(int(c.B) + delta),
		}
	})
}

// Contrast multiplies every channel by factor, clamping to [0, 255].
// The scale is not centered on mid-gray: a factor of 2 maps 100 to 200
// and anything at or above 128 to 255.
func (e *Engine) Contrast(r *Raster, factor int) *Raster {
	factor = saturate(factor)
	return e.mapPixels(r, func(c RGB) RGB {
		return RGB{
			R: Clamp(int(c.R) * factor),
			G: Clamp(int(c.G) * factor),
			B: Clamp(int(c.B) * factor),
		}
	})
}

// QuantizePlan describes the tone buckets Quantize uses for a raster.
type QuantizePlan struct {
	MinTone, MaxTone int
	Intervals        int
	Offset           float64
	IntervalLength   int
}

// Tone maps a tone to the midpoint of its bucket.
func (p QuantizePlan) Tone(tone uint8) uint8 {
	length := float64(p.IntervalLength)
	idx := math.Floor((float64(tone) - p.Offset) / length)
	low := p.Offset + length*idx
	high := low + length
	return clampUint8((low + high) / 2)
}

// PlanQuantize computes the buckets for quantizing r into levels tones.
// It scans the red channel only, so r is expected to be grayscale. The
// second result is false when quantization would be a no-op: levels is
// zero, or the raster already has no more than levels distinct tones in
// its range.
func PlanQuantize(r *Raster, levels uint8) (QuantizePlan, bool) {
	if levels == 0 || r.Empty() {
		return QuantizePlan{}, false
	}
	minTone, maxTone := 256, -1
	for _, c := range r.Pix {
		tone := int(c.R)
		if tone > maxTone {
			maxTone = tone
		}
		if tone < minTone {
			minTone = tone
		}
	}
	intervals := maxTone - minTone + 1
	if int(levels) >= intervals {
		return QuantizePlan{}, false
	}
	return QuantizePlan{
		MinTone:        minTone,
		MaxTone:        maxTone,
		Intervals:      intervals,
		Offset:         float64(minTone) - 0.5,
		IntervalLength: intervals / int(levels),
	}, true
}

// Quantize reduces a grayscale raster to roughly levels tones, writing
// each pixel as the midpoint of its bucket. When PlanQuantize reports a
// no-op the result is an unchanged copy of r.
func (e *Engine) Quantize(r *Raster, levels uint8) *Raster {
	plan, ok := PlanQuantize(r, levels)
	if !ok {
		return r.Clone()
	}
	var lut [256]uint8
	for t := range lut {
		lut[t] = plan.Tone(uint8(t))
	}
	return e.mapPixels(r, func(c RGB) RGB {
		return Gray(lut[c.R])
	})
}
