package scanning

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tesseract", func() {
	It("returns the context error without starting recognition", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		text, err := NewTesseract().Recognize(ctx, []byte("not an image"), OCROptions{})
		Expect(err).To(MatchError(context.Canceled))
		Expect(text).To(BeEmpty())
	})
})
