package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfGray      = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfLightGray = &props.Color{Red: 140, Green: 140, Blue: 140}
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfSectionBg = &props.Color{Red: 240, Green: 240, Blue: 240}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfGreen     = &props.Color{Red: 21, Green: 128, Blue: 61}
	pdfRed       = &props.Color{Red: 185, Green: 28, Blue: 28}
)

// GenerateRAPPDF renders the RAP document as a PDF.
func GenerateRAPPDF(data RAPExport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfLightGray,
		}).
		Build()

	m := maroto.New(cfg)

	addRAPHeader(m, data)
	addContractorBlock(m, data.Contractor)
	addSummaryTable(m, data)
	for _, room := range data.Rooms {
		addRoomTable(m, room)
	}
	addRAPFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addRAPHeader(m core.Maroto, data RAPExport) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title(), props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New("Document: "+data.DocumentID, props.Text{Size: 8, Align: align.Left, Color: pdfGray}),
			),
			col.New(6).Add(
				text.New("Date: "+data.GeneratedAt.Format("January 2, 2006"), props.Text{Size: 9, Align: align.Right, Color: pdfGray}),
			),
		),
	)

	// Claim metadata as label/value pairs, two per row.
	fields := data.Header.Fields()
	for i := 0; i < len(fields); i += 2 {
		r := row.New(6)
		for _, f := range fields[i:min(i+2, len(fields))] {
			r.Add(
				col.New(2).Add(text.New(f.Label+":", props.Text{Size: 8, Style: fontstyle.Bold})),
				col.New(4).Add(text.New(f.Value, props.Text{Size: 8})),
			)
		}
		m.AddRows(r)
	}
	m.AddRows(row.New(4))
}

func addContractorBlock(m core.Maroto, c ContractorDetails) {
	addSectionTitle(m, "Contractor")
	label := props.Text{Size: 8, Style: fontstyle.Bold}
	value := props.Text{Size: 8}
	for _, f := range ContractorFields {
		m.AddRows(row.New(6).Add(
			col.New(3).Add(text.New(f.Label, label)),
			col.New(9).Add(text.New(c.Value(f.Name), value)),
		))
	}
	m.AddRows(row.New(4))
}

func addSectionTitle(m core.Maroto, title string) {
	m.AddRows(row.New(8).Add(
		col.New(12).Add(
			text.New(title, props.Text{Size: 10, Style: fontstyle.Bold, Top: 1.5}),
		).WithStyle(&props.Cell{BackgroundColor: pdfSectionBg}),
	))
}

// tableHeader adds a dark header row. sizes and titles must have equal length.
func tableHeader(m core.Maroto, sizes []int, titles []string) {
	style := &props.Cell{BackgroundColor: pdfHeaderBg}
	r := row.New(8)
	for i, title := range titles {
		a := align.Right
		if i == 0 {
			a = align.Left
		}
		r.Add(col.New(sizes[i]).Add(
			text.New(title, props.Text{Size: 8, Style: fontstyle.Bold, Align: a, Color: pdfWhite, Top: 1.5}),
		).WithStyle(style))
	}
	m.AddRows(r)
}

func adjustmentColor(adj float64) *props.Color {
	switch {
	case adj > 0:
		return pdfGreen
	case adj < 0:
		return pdfRed
	}
	return nil
}

func addSummaryTable(m core.Maroto, data RAPExport) {
	addSectionTitle(m, "Pricing Summary")
	sizes := []int{4, 1, 2, 3, 2}
	tableHeader(m, sizes, []string{"Category", "Items", "IA Estimate", "Contractor Price", "Adjustment"})

	cell := props.Text{Size: 8, Align: align.Right}
	for _, s := range data.Summary {
		adj := cell
		adj.Color = adjustmentColor(s.Adjustment)
		m.AddRows(row.New(7).Add(
			col.New(sizes[0]).Add(text.New(s.Category, props.Text{Size: 8})),
			col.New(sizes[1]).Add(text.New(fmt.Sprintf("%d", s.ItemCount), cell)),
			col.New(sizes[2]).Add(text.New(FormatUSD(s.IAEstimate), cell)),
			col.New(sizes[3]).Add(text.New(FormatUSD(s.ContractorPrice), cell)),
			col.New(sizes[4]).Add(text.New(FormatAdjustment(s.Adjustment), adj)),
		))
	}

	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	adj := bold
	adj.Color = adjustmentColor(data.Totals.Adjustment)
	totalCell := &props.Cell{BackgroundColor: pdfSectionBg}
	m.AddRows(row.New(8).Add(
		col.New(sizes[0]+sizes[1]).Add(text.New("Total", props.Text{Size: 9, Style: fontstyle.Bold})).WithStyle(totalCell),
		col.New(sizes[2]).Add(text.New(FormatUSD(data.Totals.IAEstimate), bold)).WithStyle(totalCell),
		col.New(sizes[3]).Add(text.New(FormatUSD(data.Totals.ContractorPrice), bold)).WithStyle(totalCell),
		col.New(sizes[4]).Add(text.New(FormatAdjustment(data.Totals.Adjustment), adj)).WithStyle(totalCell),
	))
	m.AddRows(row.New(6))
}

func addRoomTable(m core.Maroto, room RoomGroup) {
	addSectionTitle(m, room.Room)
	sizes := []int{4, 2, 1, 1, 2, 2}
	tableHeader(m, sizes, []string{"Description", "Category", "Qty", "Unit", "RCV", "RAP Price"})

	left := props.Text{Size: 7}
	right := props.Text{Size: 7, Align: align.Right}
	for _, it := range room.Items {
		m.AddRows(row.New(7).Add(
			col.New(sizes[0]).Add(text.New(it.Description, left)),
			col.New(sizes[1]).Add(text.New(it.CategoryOrDefault(), left)),
			col.New(sizes[2]).Add(text.New(FormatQuantity(it.Quantity), right)),
			col.New(sizes[3]).Add(text.New(it.Unit, right)),
			col.New(sizes[4]).Add(text.New(FormatUSD(it.RCV), right)),
			col.New(sizes[5]).Add(text.New(FormatUSD(it.DistributedPrice), right)),
		))
	}

	bold := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(row.New(7).Add(
		col.New(sizes[0]+sizes[1]+sizes[2]+sizes[3]).Add(text.New(room.Room+" total", props.Text{Size: 8, Style: fontstyle.Bold})),
		col.New(sizes[4]).Add(text.New(FormatUSD(room.RCV), bold)),
		col.New(sizes[5]).Add(text.New(FormatUSD(room.DistributedTotal), bold)),
	))
	m.AddRows(row.New(4))
}

func addRAPFooter(m core.Maroto, data RAPExport) {
	m.AddRows(row.New(6))
	m.AddRows(row.New(6).Add(
		col.New(12).Add(
			text.New(
				fmt.Sprintf("Generated on %s", data.GeneratedAt.Format("2006-01-02 15:04 MST")),
				props.Text{Size: 7, Align: align.Left, Color: pdfLightGray},
			),
		),
	))
}
