package scanning

import (
	"image"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// grayRange returns the darkest and brightest red-channel values of img
func grayRange(img image.Image) (uint8, uint8) {
	lo, hi := uint8(255), uint8(0)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R < lo {
				lo = c.R
			}
			if c.R > hi {
				hi = c.R
			}
		}
	}
	return lo, hi
}

var _ = Describe("Enhance", func() {
	var (
		input  *image.RGBA
		output image.Image
	)

	BeforeEach(func() {
		input = image.NewRGBA(image.Rect(0, 0, 4, 2))
		for x := 0; x < 4; x++ {
			input.Set(x, 0, color.RGBA{R: 120, G: 40, B: 200, A: 255})
			input.Set(x, 1, color.RGBA{R: 140, G: 150, B: 160, A: 255})
		}
	})

	JustBeforeEach(func() {
		output = Enhance(input)
	})

	It("keeps the image dimensions", func() {
		Expect(output.Bounds().Dx()).To(Equal(4))
		Expect(output.Bounds().Dy()).To(Equal(2))
	})

	It("produces gray pixels", func() {
		c := color.NRGBAModel.Convert(output.At(0, 0)).(color.NRGBA)
		Expect(c.R).To(Equal(c.G))
		Expect(c.G).To(Equal(c.B))
	})

	It("stretches the histogram to the full range", func() {
		lo, hi := grayRange(output)
		Expect(lo).To(Equal(uint8(0)))
		Expect(hi).To(Equal(uint8(255)))
	})

	It("does not modify the input", func() {
		Expect(input.RGBAAt(0, 0)).To(Equal(color.RGBA{R: 120, G: 40, B: 200, A: 255}))
	})

	When("the image is a single flat color", func() {
		BeforeEach(func() {
			input = image.NewRGBA(image.Rect(0, 0, 2, 2))
			for x := 0; x < 2; x++ {
				for y := 0; y < 2; y++ {
					input.Set(x, y, color.RGBA{R: 90, G: 90, B: 90, A: 255})
				}
			}
		})

		It("leaves the levels unstretched", func() {
			lo, hi := grayRange(output)
			Expect(lo).To(Equal(hi))
		})
	})
})
