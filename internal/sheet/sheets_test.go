package sheet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"google.golang.org/api/option"
)

var _ = Describe("Sheets", func() {
	var (
		server   *ghttp.Server
		appender *Sheets
		request  *http.Request
		body     struct {
			MajorDimension string  `json:"majorDimension"`
			Values         [][]any `json:"values"`
		}
	)

	BeforeEach(func() {
		server = ghttp.NewServer()

		var err error
		appender, err = NewSheets(context.Background(), "sheet-123", "",
			option.WithEndpoint(server.URL()+"/"),
			option.WithoutAuthentication(),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	capture := func(w http.ResponseWriter, r *http.Request) {
		request = r
		data, err := io.ReadAll(r.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(data, &body)).To(Succeed())
	}

	It("requires a spreadsheet id", func() {
		_, err := NewSheets(context.Background(), "", "", option.WithoutAuthentication())
		Expect(err).To(HaveOccurred())
	})

	When("the API accepts the append", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", MatchRegexp(`^/v4/spreadsheets/sheet-123/values/.+:append$`)),
				capture,
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]any{"spreadsheetId": "sheet-123"}),
			))
		})

		It("appends to the configured range with USER_ENTERED", func() {
			Expect(appender.Append(context.Background(), sampleRecord(), processedAt)).To(Succeed())

			Expect(request.URL.Path).To(ContainSubstring("/v4/spreadsheets/sheet-123/values/"))
			Expect(strings.HasSuffix(request.URL.Path, ":append")).To(BeTrue())
			Expect(request.URL.Path).To(ContainSubstring("Sheet1!A:K"))
			Expect(request.URL.Query().Get("valueInputOption")).To(Equal("USER_ENTERED"))
			Expect(request.URL.Query().Get("insertDataOption")).To(Equal("INSERT_ROWS"))
		})

		It("sends one row per line item", func() {
			Expect(appender.Append(context.Background(), sampleRecord(), processedAt)).To(Succeed())

			Expect(body.MajorDimension).To(Equal("ROWS"))
			Expect(body.Values).To(HaveLen(2))
			Expect(body.Values[0][0]).To(Equal("INV-0001"))
			Expect(body.Values[1][4]).To(Equal("Gadget"))
		})
	})

	When("the API rejects the append", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusForbidden, map[string]any{
				"error": map[string]any{"code": 403, "message": "The caller does not have permission"},
			}))
		})

		It("returns an error", func() {
			err := appender.Append(context.Background(), sampleRecord(), processedAt)
			Expect(err).To(MatchError(ContainSubstring("sheet-123")))
		})
	})
})
