package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ledgerops/tx-ledger-go/internal/domain"
)

// Fixed A4 layout used by the PDF report.
const (
	pdfMargin  = 15.0
	pdfPageW   = 210.0
	pdfPageH   = 297.0
	pdfRowH    = 9.0
	pdfDetailH = 42.0
	pdfBreakAt = pdfPageH - 25.0 // content below this triggers a page break
	colID      = 62.0
	colAmount  = 46.0
	colType    = 30.0
	colDate    = 42.0
)

// WritePDF renders the report summary as a fixed-layout PDF document and
// streams it to w. The document is deterministic for identical input
// except for the "generated on" footer. A failed write to w aborts
// generation; nothing is ever staged on disk.
func WritePDF(w io.Writer, rs domain.ReportSummary) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transaction Summary Report", false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	// Manual page-break control: table continuation redraws its header.
	pdf.SetAutoPageBreak(false, pdfMargin)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(148, 163, 184)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated on %s", time.Now().Format("2006-01-02 15:04:05 MST")),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	drawBanner(pdf)
	drawSummaryBox(pdf, rs.Summary)
	drawTopTable(pdf, rs.TopTransactions)
	drawDetails(pdf, rs.TopTransactions)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawBanner(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(0, 0, pdfPageW, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(pdfMargin, 9)
	pdf.CellFormat(pdfPageW-2*pdfMargin, 10, "Transaction Summary Report", "", 0, "C", false, 0, "")
}

func drawSummaryBox(pdf *gofpdf.Fpdf, s domain.Summary) {
	top := 36.0
	pdf.SetFillColor(248, 250, 252)
	pdf.SetDrawColor(226, 232, 240)
	pdf.Rect(pdfMargin, top, pdfPageW-2*pdfMargin, 26, "FD")

	pdf.SetTextColor(30, 58, 138)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(pdfMargin+5, top+4)
	pdf.CellFormat(80, 6, "Summary Statistics", "", 0, "L", false, 0, "")

	pdf.SetTextColor(51, 65, 85)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(pdfMargin+5, top+12)
	pdf.CellFormat(85, 6, fmt.Sprintf("Total Transactions: %d", s.TotalTransactions), "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, fmt.Sprintf("Total Volume: $%.2f", s.TotalVolume), "", 0, "L", false, 0, "")
	pdf.SetXY(pdfMargin+5, top+19)
	pdf.CellFormat(85, 6, fmt.Sprintf("Average Size: $%.2f", s.AvgTransactionSize), "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, fmt.Sprintf("Completed: %d", s.CompletedTransactions), "", 0, "L", false, 0, "")
}

func drawTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(37, 99, 235)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetX(pdfMargin)
	pdf.CellFormat(colID, pdfRowH, "Transaction ID", "", 0, "L", true, 0, "")
	pdf.CellFormat(colAmount, pdfRowH, "Amount & Currency", "", 0, "L", true, 0, "")
	pdf.CellFormat(colType, pdfRowH, "Type", "", 0, "L", true, 0, "")
	pdf.CellFormat(colDate, pdfRowH, "Date", "", 1, "L", true, 0, "")
}

func drawTopTable(pdf *gofpdf.Fpdf, top []domain.TopTransaction) {
	pdf.SetXY(pdfMargin, 70)
	pdf.SetTextColor(30, 58, 138)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Top Transactions", "", 1, "L", false, 0, "")

	drawTableHeader(pdf)

	if len(top) == 0 {
		pdf.SetTextColor(51, 65, 85)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetX(pdfMargin)
		pdf.CellFormat(0, pdfRowH, "No transactions available", "", 1, "L", false, 0, "")
		return
	}

	for i, tx := range top {
		// Never split a row: overflowing rows move whole to a fresh
		// table on the next page, header redrawn.
		if pdf.GetY()+pdfRowH > pdfBreakAt {
			pdf.AddPage()
			pdf.SetY(pdfMargin)
			drawTableHeader(pdf)
		}

		if i%2 == 0 {
			pdf.SetFillColor(248, 250, 252)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetTextColor(51, 65, 85)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetX(pdfMargin)
		pdf.CellFormat(colID, pdfRowH, truncateID(tx.TransactionID), "", 0, "L", true, 0, "")
		pdf.CellFormat(colAmount, pdfRowH, fmt.Sprintf("%.2f %s", tx.Amount, tx.Currency), "", 0, "L", true, 0, "")
		pdf.CellFormat(colType, pdfRowH, tx.Type, "", 0, "L", true, 0, "")
		pdf.CellFormat(colDate, pdfRowH, time.UnixMilli(tx.Timestamp).UTC().Format("Jan 2, 2006"), "", 1, "L", true, 0, "")
	}
}

func drawDetails(pdf *gofpdf.Fpdf, top []domain.TopTransaction) {
	if len(top) == 0 {
		return
	}

	y := pdf.GetY() + 10
	pdf.SetXY(pdfMargin, y)
	pdf.SetTextColor(30, 58, 138)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Transaction Details", "", 1, "L", false, 0, "")

	for _, tx := range top {
		if pdf.GetY()+pdfDetailH > pdfBreakAt {
			pdf.AddPage()
			pdf.SetY(pdfMargin)
		}
		boxTop := pdf.GetY() + 2
		pdf.SetFillColor(248, 250, 252)
		pdf.SetDrawColor(226, 232, 240)
		pdf.Rect(pdfMargin, boxTop, pdfPageW-2*pdfMargin, pdfDetailH-6, "FD")

		pdf.SetTextColor(51, 65, 85)
		pdf.SetFont("Helvetica", "", 9)

		left := pdfMargin + 6
		right := pdfMargin + 96

		pdf.Text(left, boxTop+8, "Transaction ID: "+tx.TransactionID)
		pdf.Text(left, boxTop+16, "Origin User: "+tx.OriginUserID)
		pdf.Text(left, boxTop+24, "Origin Country: "+tx.OriginCountry)
		pdf.Text(left, boxTop+32, "Reference: "+tx.Reference)

		pdf.Text(right, boxTop+8, fmt.Sprintf("Amount: %.2f %s", tx.Amount, tx.Currency))
		pdf.Text(right, boxTop+16, "Destination User: "+tx.DestinationUserID)
		pdf.Text(right, boxTop+24, "Destination Country: "+tx.DestinationCountry)

		pdf.SetY(boxTop + pdfDetailH - 4)
	}
}

func truncateID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
