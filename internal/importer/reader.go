package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"stockinsight/internal/model"
	"stockinsight/internal/parser"
)

// ReadFile decodes an uploaded .xlsx or .csv file into a RawTable. This is
// the file-reading edge; the core pipeline never touches file bytes.
func ReadFile(path string) (*model.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		return ReadCSV(f, filepath.Base(path))
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

// ReadXLSX reads the first sheet of a workbook into a RawTable.
func ReadXLSX(path string) (*model.RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return buildTable(rows, filepath.Base(path)), nil
}

// ReadCSV reads comma- or semicolon-delimited data into a RawTable.
func ReadCSV(r io.Reader, source string) (*model.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(string(data))
	reader.FieldsPerRecord = -1 // rows may be short
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return buildTable(rows, source), nil
}

// detectDelimiter sniffs the first line; Indonesian exports often use
// semicolons because comma is the decimal separator in that locale.
func detectDelimiter(data string) rune {
	line := data
	if idx := strings.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// buildTable assembles a RawTable, detecting whether the first row is a
// header.
func buildTable(rows [][]string, source string) *model.RawTable {
	table := &model.RawTable{Source: source}
	if len(rows) == 0 {
		return table
	}

	if DetectHeader(rows[0]) {
		table.HasHeader = true
		table.Headers = rows[0]
		table.Rows = rows[1:]
	} else {
		table.Rows = rows
	}
	return table
}

// DetectHeader decides whether a first row reads as column labels: every
// non-empty cell lettered, none a bare number. A data row of a sales export
// always carries at least one numeric cell (price, quantity or total).
func DetectHeader(row []string) bool {
	lettered := 0
	for _, cell := range row {
		v := strings.TrimSpace(cell)
		if v == "" {
			continue
		}
		if parser.IsPureNumber(v) {
			return false
		}
		if parser.HasLetter(v) {
			lettered++
		}
	}
	return lettered > 0
}
