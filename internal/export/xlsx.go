package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"tenant-exit-portal/internal/model"
)

const exitSheet = "Exit Requests"

// ExitRequestsXLSX writes one row per request under a bold header row.
func ExitRequestsXLSX(reqs []model.ExitRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exitSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	headers := exitHeaders
	if err := f.SetSheetRow(exitSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(exitHeaders), 1)
	if err := f.SetCellStyle(exitSheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range reqs {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exitRecord(r)
		if err := f.SetSheetRow(exitSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	f.SetColWidth(exitSheet, "A", "B", 16)
	f.SetColWidth(exitSheet, "C", "C", 25)
	f.SetColWidth(exitSheet, "E", "E", 30)
	f.SetColWidth(exitSheet, "F", "H", 15)
	f.SetColWidth(exitSheet, "I", "I", 45)
	f.SetColWidth(exitSheet, "J", "J", 20)
	f.SetColWidth(exitSheet, "K", "K", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
