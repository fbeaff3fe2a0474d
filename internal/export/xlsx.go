package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"snapdocs/internal/domain"
)

const sheetName = "Extraction"

func renderXLSX(res *domain.ExtractionResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Field", "Value"}); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "B1", headerStyle); err != nil {
		return nil, err
	}

	for i, row := range Flatten(res) {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &[]any{row.Key, row.Value}); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "B", 60); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
