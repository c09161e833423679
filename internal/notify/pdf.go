package notify

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	marginMM = 18.0
	qtyColMM = 18.0
)

// RenderPDF lays out the quote summary on an A4 page: title, client block
// and a quantity/product table.
func RenderPDF(n Notice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetTitle(fmt.Sprintf("Orcamento %d", n.Quote.ID), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Orçamento #%d", n.Quote.ID)), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr("Cliente: "+n.User.ClientName()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Email: "+n.User.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Data: "+FormatDate(n.Quote.CreatedAt)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr("Itens Solicitados:"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(qtyColMM, 7, tr("Qtd."), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Produto"), "", 1, "L", false, 0, "")
	pageW, _ := pdf.GetPageSize()
	y := pdf.GetY()
	pdf.Line(marginMM, y, pageW-marginMM, y)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	for _, l := range n.Lines {
		pdf.CellFormat(qtyColMM, 7, strconv.Itoa(l.Quantity), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(l.ProductName), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var storedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders a stored timestamp as dd/mm/yyyy; unparseable values
// are returned unchanged.
func FormatDate(s string) string {
	for _, layout := range storedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}
