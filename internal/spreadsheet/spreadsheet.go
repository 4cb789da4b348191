// Package spreadsheet converts record collections to and from XLSX workbooks
package spreadsheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/campusweb/content-server/internal/logger"
	"github.com/campusweb/content-server/internal/record"
)

// ContentType is the media type of XLSX workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxSheetNameLength = 31

// Row is one data row read from a workbook. Number is the 1-based spreadsheet row.
type Row struct {
	Number int
	Record record.Record
}

// Write renders records as a single-sheet workbook with one column per field.
// The first row holds the column names.
func Write(w io.Writer, sheet string, columns []string, records []record.Record) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("Failed to close workbook: %v", err)
		}
	}()

	name := sheetName(sheet)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(columns))
		for j, c := range columns {
			values[j] = cellValue(rec[c])
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Read parses the first sheet of a workbook. The first row names the fields,
// blank cells are omitted and fully blank rows are skipped. Cells reading TRUE
// or FALSE become booleans; every other value is kept as text.
func Read(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnf("Failed to close workbook: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("workbook has no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]Row, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		rec := record.Record{}
		for j, cell := range cells {
			if j >= len(header) || header[j] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			rec[header[j]] = parseCell(cell)
		}
		if len(rec) == 0 {
			continue
		}
		out = append(out, Row{Number: i + 2, Record: rec})
	}
	return out, nil
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "Sheet1"
	}
	if len(name) > maxSheetNameLength {
		name = name[:maxSheetNameLength]
	}
	return name
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case string, bool, float64, int, int64:
		return t
	default:
		if s, ok := record.Scalar(v); ok {
			return s
		}
		return fmt.Sprint(v)
	}
}

func parseCell(cell string) any {
	switch cell {
	case "TRUE":
		return true
	case "FALSE":
		return false
	default:
		return cell
	}
}
