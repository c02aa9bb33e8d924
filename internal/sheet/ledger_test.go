package sheet

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ledger", func() {
	var (
		tempDir string
		ledger  *Ledger
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "invoice-ledger-test-*")
		Expect(err).NotTo(HaveOccurred())

		ledger, err = NewLedger(filepath.Join(tempDir, "ledger.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		ledger.Close()
		os.RemoveAll(tempDir)
	})

	It("starts empty", func() {
		rows, err := ledger.ReadRows()
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("appends rows in order across records", func() {
		Expect(ledger.Append(context.Background(), sampleRecord(), processedAt)).To(Succeed())

		second := sampleRecord()
		second.InvoiceNo = "INV-0002"
		second.Items = second.Items[:1]
		Expect(ledger.Append(context.Background(), second, processedAt)).To(Succeed())

		rows, err := ledger.ReadRows()
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][:5]).To(Equal([]string{"INV-0001", "12/01/2024", "Seller Corp", "Buyer Inc", "Widget"}))
		Expect(rows[1][4]).To(Equal("Gadget"))
		Expect(rows[1][6]).To(Equal("25.5"))
		Expect(rows[2][0]).To(Equal("INV-0002"))
	})

	It("refuses to append with a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(ledger.Append(ctx, sampleRecord(), processedAt)).To(MatchError(context.Canceled))
	})
})
