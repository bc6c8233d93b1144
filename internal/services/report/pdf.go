package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/models"
)

const (
	marginLeft   = 15.0
	marginTop    = 15.0
	marginRight  = 15.0
	marginBottom = 15.0
	contentWidth = 210.0 - marginLeft - marginRight
)

// RenderPDF renders the plan, with an optional explanation, as an A4 PDF.
func RenderPDF(req *models.OptimizationRequest, result *models.OptimizationResult, explanation string, generated time.Time) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no plan to render")
	}
	t := Derive(result)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	// Core fonts are cp1252, so £ needs translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 12, "Your Savings Plan", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", generated.Format("2 January 2006")), "", 1, "L", false, 0, "")
	if result.Mock {
		pdf.CellFormat(contentWidth, 6, "Example plan: the optimiser could not be reached.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Summary box
	pdf.SetFillColor(245, 247, 250)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, "Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(50, 50, 50)

	var rows [][2]string
	if req != nil {
		rows = append(rows, [2]string{"Annual earnings", common.FormatMoney(req.Earnings)})
	}
	rows = append(rows,
		[2]string{"Total invested", common.FormatMoneyDecimal(t.TotalAmount)},
		[2]string{"Held in ISAs", common.FormatMoneyDecimal(t.ISAAmount)},
		[2]string{"Gross annual interest", common.FormatMoneyDecimal(t.GrossInterest)},
		[2]string{"Net annual interest", common.FormatMoneyDecimal(t.NetInterest)},
		[2]string{"Net effective AER", t.NetAER.StringFixed(2) + "%"},
	)
	if result.Horizon != nil {
		rows = append(rows, [2]string{"Best time period", result.Horizon.String()})
	}
	for i, row := range rows {
		left, right := "L", "R"
		if i == len(rows)-1 {
			left, right = "LB", "RB"
		}
		pdf.CellFormat(contentWidth/2, 7, tr(row[0]), left, 0, "L", true, 0, "")
		pdf.CellFormat(contentWidth/2, 7, tr(row[1]), right, 1, "R", true, 0, "")
	}
	pdf.Ln(8)

	// Investments table
	widths := []float64{70, 30, 20, 40, 20}
	headers := []string{"Account", "Amount", "AER", "Term", "ISA"}
	aligns := []string{"L", "R", "R", "L", "C"}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.SetFillColor(245, 247, 250)
	for i, inv := range result.Investments {
		isa := ""
		if inv.IsISA {
			isa = "Yes"
		}
		cells := []string{inv.AccountName, common.FormatMoney(inv.Amount), common.FormatPct(inv.AER), inv.Term, isa}
		for j, c := range cells {
			pdf.CellFormat(widths[j], 7, tr(c), "1", 0, aligns[j], i%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}

	if explanation != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 51, 102)
		pdf.CellFormat(contentWidth, 8, "Why this plan", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(50, 50, 50)
		pdf.MultiCell(contentWidth, 5, tr(explanation), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}
	return buf.Bytes(), nil
}
