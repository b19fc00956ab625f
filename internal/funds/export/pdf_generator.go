package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// PDFGenerator renders a fund-tracking report as a one-page summary
// followed by the transaction table.
type PDFGenerator struct {
	options PDFOptions
}

// PDFOptions configures PDF generation
type PDFOptions struct {
	Title          string  `json:"title"`
	FontFamily     string  `json:"font_family"`
	FontSize       float64 `json:"font_size"`
	TitleFontSize  float64 `json:"title_font_size"`
	AlternateRows  bool    `json:"alternate_rows"`
	IncludePageNum bool    `json:"include_page_num"`
}

// DefaultPDFOptions returns default PDF options
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Title:          "Fund Tracking Report",
		FontFamily:     "Arial",
		FontSize:       9,
		TitleFontSize:  16,
		AlternateRows:  true,
		IncludePageNum: true,
	}
}

// NewPDFGenerator creates a new PDF generator
func NewPDFGenerator(options PDFOptions) *PDFGenerator {
	return &PDFGenerator{options: options}
}

// Generate writes the report to w.
func (g *PDFGenerator) Generate(w io.Writer, report *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := g.options

	if opts.IncludePageNum {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-15)
			pdf.SetFont(opts.FontFamily, "I", 8)
			pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
		})
	}
	pdf.AddPage()

	pdf.SetFont(opts.FontFamily, "B", opts.TitleFontSize)
	pdf.CellFormat(0, 10, opts.Title, "", 1, "L", false, 0, "")
	pdf.SetFont(opts.FontFamily, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Last %d days, generated %s",
		report.Days, report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	g.writeSummary(pdf, report)
	pdf.Ln(6)
	g.writeTransactions(pdf, report)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func (g *PDFGenerator) writeSummary(pdf *gofpdf.Fpdf, report *Report) {
	stats := report.Statistics
	rows := [][2]string{
		{"Total donations", fmt.Sprintf("%.2f", stats.TotalDonations)},
		{"Total disbursements", fmt.Sprintf("%.2f", stats.TotalDisbursements)},
		{"Net flow", fmt.Sprintf("%.2f", stats.NetFlow)},
		{"Transactions", fmt.Sprintf("%d", stats.TransactionCount)},
	}

	pdf.SetFont(g.options.FontFamily, "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	for _, row := range rows {
		pdf.CellFormat(60, 6, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row[1], "1", 1, "R", false, 0, "")
	}
}

func (g *PDFGenerator) writeTransactions(pdf *gofpdf.Fpdf, report *Report) {
	pdf.SetFont(g.options.FontFamily, "B", 11)
	pdf.CellFormat(0, 7, "Transactions", "", 1, "L", false, 0, "")

	headers := []string{"Date", "Type", "Charity", "Amount", "Status"}
	widths := []float64{24, 28, 70, 30, 28}

	pdf.SetFont(g.options.FontFamily, "B", g.options.FontSize)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(g.options.FontFamily, "", g.options.FontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(242, 242, 242)
	for i, tx := range report.Transactions {
		fill := g.options.AlternateRows && i%2 == 1
		pdf.CellFormat(widths[0], 6, tx.Date.Format("2006-01-02"), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, string(tx.Type), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 6, tx.CharityName, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", tx.Amount), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 6, tx.Status, "1", 1, "L", fill, 0, "")
	}

	if len(report.Transactions) == 0 {
		pdf.CellFormat(0, 6, "No transactions in this period", "1", 1, "C", false, 0, "")
	}
}
