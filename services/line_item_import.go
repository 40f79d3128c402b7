package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ImportRowError is a problem with one cell of an imported estimate sheet.
// Row is 1-based and counts the header row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// ImportResult is the outcome of reading a line item sheet. Rows with errors
// are left out of LineItems.
type ImportResult struct {
	LineItems []LineItem
	Errors    []ImportRowError
	Ignored   []string
}

// lineItemColumns maps accepted header spellings to LineItem fields.
var lineItemColumns = map[string]string{
	"description":  "description",
	"item":         "description",
	"category":     "category",
	"trade":        "category",
	"room":         "room",
	"location":     "room",
	"quantity":     "quantity",
	"qty":          "quantity",
	"unit":         "unit",
	"uom":          "unit",
	"unit price":   "unit_price",
	"unit_price":   "unit_price",
	"rcv":          "rcv",
	"depreciation": "depreciation",
	"dep":          "depreciation",
	"acv":          "acv",
}

// ImportLineItems reads line items from a CSV or XLSX sheet, chosen by the
// file extension of name. The first row is the header; description and rcv
// columns are required.
func ImportLineItems(name string, r io.Reader) (ImportResult, error) {
	var headers []string
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		headers, rows, err = parseCSV(r)
	case ".xlsx":
		headers, rows, err = parseExcel(r)
	default:
		return ImportResult{}, fmt.Errorf("unsupported line item file %q: use .csv or .xlsx", name)
	}
	if err != nil {
		return ImportResult{}, err
	}

	fields, ignored := mapHeaders(headers)
	for _, required := range []string{"description", "rcv"} {
		if !containsString(fields, required) {
			return ImportResult{}, fmt.Errorf("missing required column %q", required)
		}
	}

	result := ImportResult{Ignored: ignored}
	for i, row := range rows {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		item, rowErrs := lineItemFromRow(rowNum, fields, row)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.LineItems = append(result.LineItems, item)
	}
	return result, nil
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads the first sheet of an xlsx workbook.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeaders returns the LineItem field per column ("" when unknown) and the
// unrecognized header names.
func mapHeaders(headers []string) ([]string, []string) {
	mapped := make([]string, len(headers))
	var ignored []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSuffix(norm, " *")
		if key, ok := lineItemColumns[strings.TrimSpace(norm)]; ok {
			mapped[i] = key
		} else {
			ignored = append(ignored, h)
		}
	}
	return mapped, ignored
}

func lineItemFromRow(rowNum int, fields []string, row []string) (LineItem, []ImportRowError) {
	var item LineItem
	var errs []ImportRowError
	amount := func(field, raw string) (decimal.NullDecimal, bool) {
		d, ok, err := parseAmount(raw)
		if err != nil {
			errs = append(errs, ImportRowError{Row: rowNum, Field: field, Message: fmt.Sprintf("%q is not a number", raw)})
			return decimal.NullDecimal{}, false
		}
		if !ok {
			return decimal.NullDecimal{}, true
		}
		return decimal.NewNullDecimal(d), true
	}

	for i, field := range fields {
		if field == "" || i >= len(row) {
			continue
		}
		v := row[i]
		switch field {
		case "description":
			item.Description = strings.TrimSpace(v)
		case "category":
			item.Category = strings.TrimSpace(v)
		case "room":
			item.Room = strings.TrimSpace(v)
		case "unit":
			item.Unit = strings.TrimSpace(v)
		case "quantity":
			if d, ok := amount(field, v); ok {
				item.Quantity = nullToFloat(d)
			}
		case "unit_price":
			if d, ok := amount(field, v); ok {
				item.UnitPrice = nullToFloat(d)
			}
		case "rcv":
			if d, ok := amount(field, v); ok {
				item.RCV = nullToFloat(d)
			}
		case "depreciation":
			if d, ok := amount(field, v); ok {
				item.Depreciation = nullToPtr(d)
			}
		case "acv":
			if d, ok := amount(field, v); ok {
				item.ACV = nullToPtr(d)
			}
		}
	}
	if item.Description == "" {
		errs = append(errs, ImportRowError{Row: rowNum, Field: "description", Message: "required"})
	}
	return item, errs
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
