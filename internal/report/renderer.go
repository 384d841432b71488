// Package report lays out a VerificationReport as a downloadable PDF.
//
// Core PDF fonts are single-byte, so every string passed to the document goes
// through Transliterate first: characters outside ISO-8859-1 (and C1 control
// codes) are dropped, never substituted and never reported as an error.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"bootcheck/internal/domain"
)

const (
	ContentType = "application/pdf"
	Title       = "BOOTCHECK VERIFICATION REPORT"
)

type color struct{ r, g, b int }

var (
	colorAuthentic  = color{0, 100, 0}
	colorInspection = color{180, 0, 0}
	colorBody       = color{0, 0, 0}
)

type Renderer struct {
	now func() time.Time
}

type Option func(*Renderer)

// WithClock fixes the issue date source.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the PDF bytes. Only a failure of the document builder itself
// is an error; empty or unmatched report text still renders.
func (r *Renderer) Render(rep *domain.VerificationReport, brand, model string) ([]byte, error) {
	if rep == nil {
		rep = domain.NewVerificationReport("", "", time.Time{})
	}
	issued := r.now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(issued)
	pdf.SetModificationDate(issued)
	pdf.SetTitle(Title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 15, Title, "", 1, "", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, IssueLine(issued), "", 1, "", false, 0, "")
	pdf.Line(10, 35, 200, 35)
	pdf.Ln(15)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 10, Transliterate(ProductLine(brand, model)), "", 1, "", false, 0, "")

	c := colorInspection
	if rep.Status == domain.StatusVerifiedAuthentic {
		c = colorAuthentic
	}
	pdf.SetTextColor(c.r, c.g, c.b)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, StatusLine(rep), "", 1, "", false, 0, "")

	pdf.SetTextColor(colorBody.r, colorBody.g, colorBody.b)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 6, Transliterate(rep.RawText), "", "", false)

	if err := pdf.Error(); err != nil {
		return nil, domain.RenderError("building PDF failed", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domain.RenderError("writing PDF failed", err)
	}
	return buf.Bytes(), nil
}

func IssueLine(t time.Time) string {
	return "Issued on: " + t.Format("2006-01-02")
}

func ProductLine(brand, model string) string {
	return fmt.Sprintf("PRODUCT: %s %s", strings.ToUpper(brand), strings.ToUpper(model))
}

func StatusLine(rep *domain.VerificationReport) string {
	return "STATUS: " + rep.Status.Label()
}

// FileName is the download name offered for a report on model.
func FileName(model string) string {
	return "BootCheck_" + model + ".pdf"
}

// Transliterate re-encodes s as ISO-8859-1 bytes, dropping anything that does not fit.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			continue
		}
		if c >= 0x80 && c <= 0x9f {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
