package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet      = "Summary"
	distributionSheet = "Distribution"
)

// GenerateRAPExcel renders the RAP document as a workbook with a Summary
// sheet (claim, contractor, category totals) and a Distribution sheet (line
// items by room with their RAP price).
func GenerateRAPExcel(data RAPExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(distributionSheet); err != nil {
		return nil, fmt.Errorf("create distribution sheet: %w", err)
	}

	styles, err := newRAPStyles(f)
	if err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, styles, data); err != nil {
		return nil, err
	}
	if err := writeDistributionSheet(f, styles, data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type rapStyles struct {
	title, label, header, cell, money, total, totalMoney int
}

func newRAPStyles(f *excelize.File) (rapStyles, error) {
	var s rapStyles
	moneyFmt := "$#,##0.00;-$#,##0.00"
	defs := []struct {
		dst   *int
		name  string
		style *excelize.Style
	}{
		{&s.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.label, "label", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}}},
		{&s.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&s.cell, "cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&s.money, "money", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
		{&s.total, "total", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Border: thinBorders()}},
		{&s.totalMoney, "total money", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Border: thinBorders(), CustomNumFmt: &moneyFmt}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.dst = id
	}
	return s, nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeSummarySheet(f *excelize.File, s rapStyles, data RAPExport) error {
	sh := summarySheet
	widths := map[string]float64{"A": 28, "B": 10, "C": 18, "D": 18, "E": 18}
	for c, w := range widths {
		if err := f.SetColWidth(sh, c, c, w); err != nil {
			return fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	if err := f.MergeCell(sh, "A1", "E1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sh, "A1", sanitizeExcelCell(data.Title()))
	f.SetCellStyle(sh, "A1", "E1", s.title)
	f.SetCellValue(sh, "A2", "Document ID")
	f.SetCellValue(sh, "B2", data.DocumentID)
	f.SetCellValue(sh, "A3", "Generated")
	f.SetCellValue(sh, "B3", data.GeneratedAt.Format("2006-01-02 15:04 MST"))
	f.SetCellStyle(sh, "A2", "A3", s.label)

	row := 5
	for _, h := range data.Header.Fields() {
		f.SetCellValue(sh, cellName(1, row), h.Label)
		f.SetCellStyle(sh, cellName(1, row), cellName(1, row), s.label)
		f.SetCellValue(sh, cellName(2, row), sanitizeExcelCell(h.Value))
		row++
	}
	row++

	for _, cf := range ContractorFields {
		f.SetCellValue(sh, cellName(1, row), cf.Label)
		f.SetCellStyle(sh, cellName(1, row), cellName(1, row), s.label)
		f.SetCellValue(sh, cellName(2, row), sanitizeExcelCell(data.Contractor.Value(cf.Name)))
		row++
	}
	row++

	headers := []string{"Category", "Items", "IA Estimate", "Contractor Price", "Adjustment"}
	for i, h := range headers {
		f.SetCellValue(sh, cellName(i+1, row), h)
	}
	f.SetCellStyle(sh, cellName(1, row), cellName(len(headers), row), s.header)
	row++

	for _, r := range data.Summary {
		f.SetCellValue(sh, cellName(1, row), sanitizeExcelCell(r.Category))
		f.SetCellValue(sh, cellName(2, row), r.ItemCount)
		f.SetCellValue(sh, cellName(3, row), r.IAEstimate)
		f.SetCellValue(sh, cellName(4, row), r.ContractorPrice)
		f.SetCellValue(sh, cellName(5, row), r.Adjustment)
		f.SetCellStyle(sh, cellName(1, row), cellName(2, row), s.cell)
		f.SetCellStyle(sh, cellName(3, row), cellName(5, row), s.money)
		row++
	}

	f.SetCellValue(sh, cellName(1, row), "Total")
	f.SetCellValue(sh, cellName(3, row), data.Totals.IAEstimate)
	f.SetCellValue(sh, cellName(4, row), data.Totals.ContractorPrice)
	f.SetCellValue(sh, cellName(5, row), data.Totals.Adjustment)
	f.SetCellStyle(sh, cellName(1, row), cellName(2, row), s.total)
	f.SetCellStyle(sh, cellName(3, row), cellName(5, row), s.totalMoney)
	return nil
}

func writeDistributionSheet(f *excelize.File, s rapStyles, data RAPExport) error {
	sh := distributionSheet
	widths := []float64{16, 40, 20, 8, 8, 14, 14, 14}
	for i, w := range widths {
		c, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sh, c, c, w); err != nil {
			return fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	headers := []string{"Room", "Description", "Category", "Qty", "Unit", "RCV", "RAP Price", "RAP Unit Price"}
	for i, h := range headers {
		f.SetCellValue(sh, cellName(i+1, 1), h)
	}
	f.SetCellStyle(sh, "A1", cellName(len(headers), 1), s.header)

	row := 2
	for _, room := range data.Rooms {
		for _, it := range room.Items {
			f.SetCellValue(sh, cellName(1, row), sanitizeExcelCell(room.Room))
			f.SetCellValue(sh, cellName(2, row), sanitizeExcelCell(it.Description))
			f.SetCellValue(sh, cellName(3, row), sanitizeExcelCell(it.CategoryOrDefault()))
			f.SetCellValue(sh, cellName(4, row), it.Quantity)
			f.SetCellValue(sh, cellName(5, row), sanitizeExcelCell(it.Unit))
			f.SetCellValue(sh, cellName(6, row), it.RCV)
			f.SetCellValue(sh, cellName(7, row), it.DistributedPrice)
			f.SetCellValue(sh, cellName(8, row), it.DistributedUnitPrice)
			f.SetCellStyle(sh, cellName(1, row), cellName(5, row), s.cell)
			f.SetCellStyle(sh, cellName(6, row), cellName(8, row), s.money)
			row++
		}
		f.SetCellValue(sh, cellName(1, row), sanitizeExcelCell(room.Room+" total"))
		f.SetCellValue(sh, cellName(6, row), room.RCV)
		f.SetCellValue(sh, cellName(7, row), room.DistributedTotal)
		f.SetCellStyle(sh, cellName(1, row), cellName(5, row), s.total)
		f.SetCellStyle(sh, cellName(6, row), cellName(8, row), s.totalMoney)
		row++
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
