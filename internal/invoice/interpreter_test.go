package invoice

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeCompleter returns a canned response and records the request
type fakeCompleter struct {
	response string
	err      error
	requests []CompletionRequest
}

func (f *fakeCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

var _ = Describe("Interpreter", func() {
	var (
		completer   *fakeCompleter
		interpreter *Interpreter
		rawText     string
		record      *Record
		err         error
	)

	BeforeEach(func() {
		completer = &fakeCompleter{response: widgetJSON}
		interpreter = NewInterpreter(completer)
		rawText = "INV-0001 ... 12/01/2024 ... Seller Corp ... Buyer Inc ... Widget x2 @ 50 = 100 ... Tax: 10 ... Total: 110"
	})

	JustBeforeEach(func() {
		record, err = interpreter.Interpret(context.Background(), rawText)
	})

	It("returns the parsed record", func() {
		Expect(err).NotTo(HaveOccurred())
		Expect(record.InvoiceNo).To(Equal("INV-0001"))
	})

	It("sends a single request", func() {
		Expect(completer.requests).To(HaveLen(1))
	})

	It("uses the extraction system role, low temperature and a 2000 token ceiling", func() {
		req := completer.requests[0]
		Expect(req.System).To(Equal("You are an expert at structured extraction from invoice documents."))
		Expect(req.Temperature).To(Equal(0.2))
		Expect(req.MaxTokens).To(Equal(2000))
	})

	It("includes the raw text in the prompt", func() {
		Expect(completer.requests[0].Prompt).To(HaveSuffix(rawText))
	})

	It("names the extraction targets in order", func() {
		prompt := completer.requests[0].Prompt
		targets := []string{"INV-XXXX", "DD/MM/YYYY", "Seller name", "Buyer name", "unit price", "Tax", "Total"}
		last := -1
		for _, target := range targets {
			idx := strings.Index(prompt, target)
			Expect(idx).To(BeNumerically(">", last), "target %q out of order", target)
			last = idx
		}
		Expect(prompt).To(ContainSubstring("use null"))
	})

	It("builds the same prompt for the same text", func() {
		_, err := interpreter.Interpret(context.Background(), rawText)
		Expect(err).NotTo(HaveOccurred())
		Expect(completer.requests[1].Prompt).To(Equal(completer.requests[0].Prompt))
	})

	When("the text is longer than 4000 characters", func() {
		BeforeEach(func() {
			rawText = strings.Repeat("a", 4000) + "TAIL"
		})

		It("only sends the first 4000 characters", func() {
			prompt := completer.requests[0].Prompt
			Expect(prompt).To(HaveSuffix(strings.Repeat("a", 4000)))
			Expect(prompt).NotTo(ContainSubstring("TAIL"))
		})
	})

	When("the text contains multibyte characters past the limit", func() {
		BeforeEach(func() {
			rawText = strings.Repeat("é", 4001)
		})

		It("truncates on a character boundary", func() {
			Expect(completer.requests[0].Prompt).To(HaveSuffix(strings.Repeat("é", 4000)))
			Expect(strings.Count(completer.requests[0].Prompt, "é")).To(Equal(4000))
		})
	})

	When("the completion is not JSON", func() {
		BeforeEach(func() {
			completer.response = "not json"
		})

		It("returns ErrMalformedResponse without retrying", func() {
			Expect(err).To(MatchError(ErrMalformedResponse))
			Expect(record).To(BeNil())
			Expect(completer.requests).To(HaveLen(1))
		})
	})

	When("the completion lacks a date", func() {
		BeforeEach(func() {
			completer.response = `{"invoiceNo": "INV-0001", "date": null}`
		})

		It("returns ErrIncompleteInvoice", func() {
			Expect(err).To(MatchError(ErrIncompleteInvoice))
			Expect(record).To(BeNil())
		})
	})

	When("the completion call fails", func() {
		BeforeEach(func() {
			completer.err = errors.New("503 service unavailable")
		})

		It("surfaces the provider error", func() {
			Expect(err).To(MatchError(ContainSubstring("503 service unavailable")))
			Expect(err).NotTo(MatchError(ErrMalformedResponse))
			Expect(completer.requests).To(HaveLen(1))
		})
	})
})
