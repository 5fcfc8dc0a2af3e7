package ui

import (
	"image/color"
	"math"
)

const (
	maskMaxAlpha      = 160.0
	maskGlowBase      = 0.35
	maskGlowRange     = 0.65
	maskIntensityBias = 0.75
)

// MaskPixels tints buf by mask intensity. buf holds premultiplied RGBA, four
// bytes per mask entry; zero intensity leaves a transparent pixel.
func MaskPixels(buf []byte, mask []float32, tint color.RGBA) {
	for i, v := range mask {
		base := i * 4
		intensity := clamp01(float64(v))
		if intensity == 0 {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}

		alpha := math.Round(maskMaxAlpha * math.Pow(intensity, maskIntensityBias))
		glow := (maskGlowBase + maskGlowRange*math.Sqrt(intensity)) * alpha / 255

		buf[base+0] = scaleColorComponent(tint.R, glow)
		buf[base+1] = scaleColorComponent(tint.G, glow)
		buf[base+2] = scaleColorComponent(tint.B, glow)
		buf[base+3] = uint8(alpha)
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled <= 0 {
		return 0
	}
	if scaled >= 255 {
		return 255
	}
	return uint8(scaled)
}
