package maze

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads a grid source. The format is chosen by extension: ".xlsx" for a
// spreadsheet (first sheet), anything else is read as CSV.
func Load(path string) (*Grid, error) {
	var (
		values [][]int
		err    error
	)
	if isSpreadsheet(path) {
		values, err = readXLSX(path)
	} else {
		values, err = readCSVFile(path)
	}
	if err != nil {
		return nil, err
	}
	return FromRows(values)
}

// Save writes the grid to path, as a spreadsheet for ".xlsx" and CSV otherwise.
func (g *Grid) Save(path string) error {
	if isSpreadsheet(path) {
		return writeXLSX(path, g.Values())
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, g.Values()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadCSV parses comma separated cell values.
func ReadCSV(r io.Reader) ([][]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return parseRecords(records)
}

// WriteCSV writes cell values as comma separated rows.
func WriteCSV(w io.Writer, values [][]int) error {
	writer := csv.NewWriter(w)
	for _, line := range values {
		record := make([]string, len(line))
		for i, v := range line {
			record[i] = strconv.Itoa(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func readCSVFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func readXLSX(path string) ([][]int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrFormat)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	// Trailing blank cells are dropped by the reader; pad them back as Empty.
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i := range rows {
		for len(rows[i]) < width {
			rows[i] = append(rows[i], "")
		}
	}
	return parseRecords(rows)
}

func writeXLSX(path string, values [][]int) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	for row, line := range values {
		cell, err := excelize.CoordinatesToCellName(1, row+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func parseRecords(records [][]string) ([][]int, error) {
	values := make([][]int, 0, len(records))
	for row, record := range records {
		line := make([]int, len(record))
		for col, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				line[col] = int(Empty)
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				// Spreadsheets written by other tools sometimes store "1.0".
				f, ferr := strconv.ParseFloat(field, 64)
				if ferr != nil || f != float64(int(f)) {
					return nil, fmt.Errorf("%w: cell %d,%d: %q is not an integer", ErrFormat, row, col, field)
				}
				v = int(f)
			}
			line[col] = v
		}
		values = append(values, line)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty grid source", ErrFormat)
	}
	return values, nil
}

func isSpreadsheet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}
