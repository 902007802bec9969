// Package excel reads BOQ workbooks and CSV exports into rows the import
// service can load. It tolerates the header spellings the field teams actually
// send and strips currency formatting from numeric cells.
package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Row is one parsed BOQ line before any database identity is assigned.
type Row struct {
	Number      int // 1-based data row number in the source file
	BOQRef      string
	Description string
	Make        string
	Model       string
	Unit        string
	BOQQty      decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

var headerAliases = map[string]string{
	"boq ref":     "boq_ref",
	"boq_ref":     "boq_ref",
	"description": "description",
	"make":        "make",
	"model":       "model",
	"unit":        "unit",
	"boq qty":     "boq_qty",
	"boq_qty":     "boq_qty",
	"rate":        "rate",
	"amount":      "amount",
}

var requiredColumns = []string{"boq_ref", "description", "unit", "boq_qty", "rate"}

var numericPattern = regexp.MustCompile(`-?[\d.]+`)

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadWorkbook parses an xlsx/xlsm upload. Sheet selection follows the shape
// of real uploads: prefer the first sheet whose header row carries a BOQ Ref
// column, then a sheet named after the project/BOQ, then the first sheet.
func (r *Reader) ReadWorkbook(data []byte) ([]Row, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	target := ""
	for _, sheet := range sheets {
		rows, err := file.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, ok := mapHeader(rows[0])["boq_ref"]; ok {
			target = sheet
			break
		}
	}
	if target == "" {
		for _, sheet := range sheets {
			upper := strings.ToUpper(sheet)
			if strings.Contains(upper, "BOQ") || strings.Contains(upper, "PROJECT") {
				target = sheet
				break
			}
		}
	}
	if target == "" {
		target = sheets[0]
	}

	rows, err := file.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", target, err)
	}
	return parseRows(rows)
}

// ReadCSV parses a CSV upload with the same header mapping as workbooks.
func (r *Reader) ReadCSV(data []byte) ([]Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return parseRows(records)
}

func parseRows(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	columns := mapHeader(records[0])
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(record []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		row := Row{
			Number:      i + 1,
			BOQRef:      cell(record, "boq_ref"),
			Description: cell(record, "description"),
			Make:        cell(record, "make"),
			Model:       cell(record, "model"),
			Unit:        cell(record, "unit"),
			BOQQty:      CleanNumeric(cell(record, "boq_qty")),
			Rate:        CleanNumeric(cell(record, "rate")),
		}
		if row.Make == "" {
			row.Make = "N/A"
		}
		if row.Model == "" {
			row.Model = "N/A"
		}
		if raw := cell(record, "amount"); raw != "" {
			row.Amount = CleanNumeric(raw)
		} else {
			row.Amount = row.BOQQty.Mul(row.Rate).Round(2)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for idx, raw := range header {
		key := strings.ToLower(strings.TrimSpace(raw))
		key = strings.TrimSuffix(key, ".")
		if name, ok := headerAliases[key]; ok {
			if _, seen := columns[name]; !seen {
				columns[name] = idx
			}
		}
	}
	return columns
}

// CleanNumeric extracts a decimal from spreadsheet cells that may carry
// commas, currency symbols or trailing text. Unparseable cells become zero,
// matching how uploads treat blank quantities.
func CleanNumeric(raw string) decimal.Decimal {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
	match := numericPattern.FindString(cleaned)
	if match == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return value
}
