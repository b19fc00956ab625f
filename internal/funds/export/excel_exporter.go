package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"givehope/admin-portal/admin-gateway/internal/platform"
)

// Report is the data a fund-tracking export renders.
type Report struct {
	Days         int
	Statistics   platform.FundStatistics
	Transactions []platform.Transaction
	GeneratedAt  time.Time
}

// ExcelExporter renders a fund-tracking report as a workbook: a summary
// sheet with the period totals and a transactions sheet.
type ExcelExporter struct {
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SummarySheet      string `json:"summary_sheet"`
	TransactionsSheet string `json:"transactions_sheet"`
	FreezeHeader      bool   `json:"freeze_header"`
	TimestampFormat   string `json:"timestamp_format"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SummarySheet:      "Summary",
		TransactionsSheet: "Transactions",
		FreezeHeader:      true,
		TimestampFormat:   "2006-01-02 15:04:05",
	}
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(options ExcelOptions) *ExcelExporter {
	return &ExcelExporter{options: options}
}

// Export writes the workbook to w.
func (e *ExcelExporter) Export(w io.Writer, report *Report) error {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", e.options.SummarySheet)
	if err := e.writeSummary(file, report); err != nil {
		return err
	}
	if err := e.writeTransactions(file, report); err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeSummary(file *excelize.File, report *Report) error {
	sheet := e.options.SummarySheet
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Period (days)", report.Days},
		{"Total donations", report.Statistics.TotalDonations},
		{"Total disbursements", report.Statistics.TotalDisbursements},
		{"Net flow", report.Statistics.NetFlow},
		{"Transaction count", report.Statistics.TransactionCount},
		{"Fetched at", report.GeneratedAt.Format(e.options.TimestampFormat)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return file.SetColWidth(sheet, "A", "A", 24)
}

func (e *ExcelExporter) writeTransactions(file *excelize.File, report *Report) error {
	sheet := e.options.TransactionsSheet
	if _, err := file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create transactions sheet: %w", err)
	}

	header := []interface{}{"ID", "Type", "Amount", "Charity", "Campaign", "Donor", "Date", "Status", "Reference"}
	if err := file.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, tx := range report.Transactions {
		row := []interface{}{
			tx.ID,
			string(tx.Type),
			tx.Amount,
			tx.CharityName,
			tx.CampaignName,
			tx.DonorName,
			tx.Date.Format("2006-01-02"),
			tx.Status,
			tx.ReferenceNumber,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write transaction row: %w", err)
		}
	}

	if e.options.FreezeHeader {
		if err := file.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
	}
	return nil
}
