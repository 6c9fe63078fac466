// Package export renders payroll views as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/garmentworks/payroll-backend-go/internal/domain/payroll"
	"github.com/garmentworks/payroll-backend-go/internal/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	OperationsSheet = "Operations"
)

var summaryHeaders = []string{"Worker", "Total Pieces", "Total Advance", "Net Amount", "Status"}

var operationHeaders = []string{"Worker", "Date", "Source", "Product", "Operation", "Pieces", "Rate", "Amount", "Paid"}

// WorkerMonthlySummary writes one summary row per worker and one operations row per ledger entry.
func WorkerMonthlySummary(summaries []payroll.WorkerMonthlySummary, year, month int) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(OperationsSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// Title row, then headers on row 2
	title := fmt.Sprintf("Worker payroll %s %d", time.Month(month), year)
	if err := f.SetCellValue(SummarySheet, "A1", title); err != nil {
		return nil, err
	}
	if err := writeHeader(f, SummarySheet, 2, summaryHeaders, headerStyle); err != nil {
		return nil, err
	}
	if err := writeHeader(f, OperationsSheet, 1, operationHeaders, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(SummarySheet, "A", "A", 24)
	f.SetColWidth(SummarySheet, "B", "E", 14)
	f.SetColWidth(OperationsSheet, "A", "A", 24)
	f.SetColWidth(OperationsSheet, "B", "I", 14)

	opRow := 2
	for i, s := range summaries {
		status := "Pending"
		if s.Paid {
			status = "Paid"
		}
		if err := f.SetSheetRow(SummarySheet, cell(1, i+3), &[]interface{}{
			s.WorkerName, s.TotalPieces, s.TotalAdvance.InexactFloat64(), s.TotalAmount.InexactFloat64(), status,
		}); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}

		for _, e := range s.Entries {
			date := ""
			if !e.Date.IsZero() {
				date = utils.DateKey(e.Date)
			}
			paid := "No"
			if e.Paid {
				paid = "Yes"
			}
			if err := f.SetSheetRow(OperationsSheet, cell(1, opRow), &[]interface{}{
				s.WorkerName, date, string(e.Source), e.ProductName, e.OperationName, e.PiecesDone,
				e.AmountPerPiece.InexactFloat64(), e.TotalAmount.InexactFloat64(), paid,
			}); err != nil {
				return nil, fmt.Errorf("failed to write operation row: %w", err)
			}
			opRow++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// FileName is the download name of a month's workbook.
func FileName(year, month int) string {
	return fmt.Sprintf("worker-payroll-%s.xlsx", utils.MonthKey(year, month))
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), style)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
