package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/shrimpsizemoose/festboard/internal/scoring"
)

const headerWidth = 18

// StandingsWorkbook builds one worksheet per standings table with a bold header row.
func StandingsWorkbook(st *scoring.Standings) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range StandingsSheets(st) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write %s row %d: %w", sheet.Name, r+1, err)
			}
		}

		if len(sheet.Rows) > 0 {
			if err := styleHeader(f, sheet.Name, len(sheet.Rows[0]), bold); err != nil {
				return nil, err
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// styleHeader bolds the first row and widens the used columns.
func styleHeader(f *excelize.File, sheet string, columns, style int) error {
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return fmt.Errorf("failed to locate %s header: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return fmt.Errorf("failed to locate %s columns: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, headerWidth); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", sheet, err)
	}
	return nil
}

func WriteStandingsWorkbook(w io.Writer, st *scoring.Standings) error {
	f, err := StandingsWorkbook(st)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
