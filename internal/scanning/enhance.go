package scanning

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// contrastBoost is the percentage passed to imaging.AdjustContrast
const contrastBoost = 50

// Enhance converts an image into a high-contrast grayscale copy suited for
// OCR: grayscale, contrast boost, then a linear stretch of the luminance
// histogram to the full 0..255 range. The input is left untouched.
func Enhance(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, contrastBoost)
	return normalize(out)
}

// normalize stretches the gray levels of img so the darkest pixel maps to 0
// and the brightest to 255
func normalize(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(math.MaxUint8), uint8(0)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return img
	}

	scale := float64(math.MaxUint8) / float64(hi-lo)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		v := c.R
		if v < lo {
			v = lo
		}
		level := uint8(math.Round(float64(v-lo) * scale))
		return color.NRGBA{R: level, G: level, B: level, A: c.A}
	})
}
