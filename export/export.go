// Package export writes the reconciled report as a CSV or Excel table.
//
// Column order is fixed: key, missing-locale count, anomaly-locale list,
// then one column per projected locale in projected order. Writers are
// called only after the whole row set is built, so a fatal extraction
// never leaves a partial output artifact behind.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/l10ntools/apkstrings/report"
)

// SheetName is the Excel worksheet holding the report.
const SheetName = "Strings"

// anomalyDelimiter joins the anomaly-locale list in one cell.
const anomalyDelimiter = ", "

// utf8BOM makes spreadsheet applications detect CSV encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func headerRow(locales []string) []string {
	header := []string{"Key", "MissingLocales", "PlaceholderAnomalies"}
	return append(header, locales...)
}

func dataRow(row report.Row) []string {
	record := []string{
		row.Key,
		strconv.Itoa(row.MissingCount),
		strings.Join(row.AnomalyLocales, anomalyDelimiter),
	}
	return append(record, row.Texts...)
}

// WriteCSV writes the report as UTF-8 CSV with a BOM.
func WriteCSV(path string, locales []string, rows []report.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(headerRow(locales)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(dataRow(row)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// WriteExcel writes the report as an .xlsx workbook with a single sheet.
// Column widths are sized to content, capped at 50 characters; only the
// first 26 columns are sized (spreadsheets with more locales keep the
// default width beyond column Z).
func WriteExcel(path string, locales []string, rows []report.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetName)

	header := headerRow(locales)
	widths := make([]int, len(header))

	writeRow := func(rowNum int, record []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(record))
		for i, v := range record {
			values[i] = v
			if n := len(v); n > widths[i] {
				widths[i] = n
			}
		}
		return f.SetSheetRow(SheetName, cell, &values)
	}

	if err := writeRow(1, header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, dataRow(row)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	for i := range header {
		if i >= 26 {
			break
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		width := widths[i] + 2
		if width > 50 {
			width = 50
		}
		if err := f.SetColWidth(SheetName, col, col, float64(width)); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
