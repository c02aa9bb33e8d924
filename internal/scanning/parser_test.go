package scanning

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DocumentParser implementations", func() {
	invalid := []byte("this is not a PDF document")

	Describe("FitzParser", func() {
		It("fails on a buffer that is not a PDF", func() {
			_, err := FitzParser{}.ParseText(context.Background(), invalid)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("PDFParser", func() {
		It("fails on a buffer that is not a PDF", func() {
			_, err := PDFParser{}.ParseText(context.Background(), invalid)
			Expect(err).To(HaveOccurred())
		})
	})
})
