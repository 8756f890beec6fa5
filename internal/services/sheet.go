package services

import (
	"fmt"
	"io"

	"clauseforge/internal/apperrors"

	"github.com/xuri/excelize/v2"
)

// Sheet is a parsed spreadsheet: the header row plus one map per data row
// keyed by raw header text. Blank cells are empty strings, never absent, so
// downstream emptiness checks can rely on the key existing.
type Sheet struct {
	Headers []string
	Rows    []map[string]string
}

// ParseSheet reads the first worksheet of an xlsx stream. Only the first
// worksheet is considered. Duplicate header names keep the first occurrence.
func ParseSheet(reader io.Reader) (*Sheet, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, apperrors.Validation("failed to read spreadsheet: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.Validation("spreadsheet contains no worksheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, apperrors.Validation("spreadsheet is empty")
	}

	headers := rows[0]
	sheet := &Sheet{Headers: headers}

	for _, cells := range rows[1:] {
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if _, exists := row[header]; exists {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row[header] = value
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Rows) == 0 {
		return nil, apperrors.Validation("spreadsheet has no data rows")
	}

	return sheet, nil
}

// normalizedView maps normalized header keys to row values, first occurrence
// winning when two headers normalize identically.
func (s *Sheet) normalizedView(row map[string]string, normalize func(string) string) map[string]string {
	view := make(map[string]string, len(row))
	for _, header := range s.Headers {
		value, ok := row[header]
		if !ok {
			continue
		}
		key := normalize(header)
		if _, exists := view[key]; !exists {
			view[key] = value
		}
	}
	return view
}
