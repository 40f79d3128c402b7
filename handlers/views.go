package handlers

import (
	"rapbuilder/services"
	"rapbuilder/templates"
)

func buildShell(title string, state services.WorkflowState) templates.Shell {
	current := state.Step.Index()
	steps := make([]templates.StepItem, 0, len(services.Steps))
	for i, st := range services.Steps {
		steps = append(steps, templates.StepItem{
			Number: i + 1,
			Label:  st.Label(),
			Active: i == current,
			Done:   i < current,
		})
	}
	return templates.Shell{Title: title, Steps: steps, FileName: state.FileName}
}

func sign(v float64) int {
	switch {
	case v > 0.005:
		return 1
	case v < -0.005:
		return -1
	}
	return 0
}

func buildReviewData(state services.WorkflowState) templates.ReviewData {
	data := templates.ReviewData{
		Shell:      buildShell("Category Review", state),
		Categories: services.TradeCategories,
	}
	var total float64
	for _, g := range services.ForReview(state.Items) {
		rg := templates.ReviewGroup{
			Category:    g.Category,
			ItemCount:   g.ItemCount(),
			UniqueCount: len(g.Rows),
			TotalRCV:    services.FormatUSD(g.TotalRCV()),
		}
		for _, r := range g.Rows {
			rg.Rows = append(rg.Rows, templates.ReviewRow{
				Description: r.Description,
				Unit:        r.Unit,
				Count:       r.Count,
				TotalRCV:    services.FormatUSD(r.TotalRCV),
			})
		}
		data.Groups = append(data.Groups, rg)
		data.ItemCount += rg.ItemCount
		total += g.TotalRCV()
	}
	data.TotalRCV = services.FormatUSD(total)
	return data
}

func pricingRow(p services.CategoryPricing) templates.PricingRow {
	row := templates.PricingRow{
		Category:        p.Category,
		ItemCount:       p.ItemCount,
		IAEstimate:      services.FormatUSD(p.IAEstimate),
		ContractorPrice: p.ContractorPrice,
		Adjustment:      "-",
		Invalid:         p.Invalid(),
	}
	if adj, ok := p.Adjustment(); ok {
		row.Adjustment = services.FormatAdjustment(adj)
		row.AdjustmentSign = sign(adj)
	}
	return row
}

func buildTotals(t services.PricingTotals) templates.Totals {
	return templates.Totals{
		IAEstimate:      services.FormatUSD(t.IAEstimate),
		ContractorPrice: services.FormatUSD(t.ContractorPrice),
		Adjustment:      services.FormatAdjustment(t.Adjustment),
		AdjustmentSign:  sign(t.Adjustment),
	}
}

func buildPricingData(state services.WorkflowState, errMsg string) templates.PricingData {
	data := templates.PricingData{
		Shell:  buildShell("Contractor Pricing", state),
		Totals: buildTotals(state.Pricing.Totals()),
		Error:  errMsg,
	}
	for _, p := range state.Pricing {
		data.Rows = append(data.Rows, pricingRow(p))
	}
	return data
}

var fieldInputTypes = map[string]string{"email": "email", "phone": "tel"}

func buildExportData(state services.WorkflowState, contractor services.ContractorDetails, verr *services.ValidationError) templates.ExportData {
	data := templates.ExportData{
		Shell:  buildShell("Export", state),
		Totals: buildTotals(state.Pricing.Totals()),
	}
	for _, f := range state.Header.Fields() {
		data.Header = append(data.Header, templates.LabelValue{Label: f.Label, Value: f.Value})
	}
	for _, p := range state.Pricing.Priced() {
		row := pricingRow(p)
		row.ContractorPrice = services.FormatUSD(p.Amount())
		data.Summary = append(data.Summary, row)
	}

	for _, room := range services.GroupByRoom(services.Distribute(state.Items, state.Pricing)) {
		r := templates.Room{
			Name:     room.Room,
			RCV:      services.FormatUSD(room.RCV),
			RAPTotal: services.FormatUSD(room.DistributedTotal),
		}
		for _, it := range room.Items {
			r.Items = append(r.Items, templates.RoomItem{
				Description: it.Description,
				Category:    it.CategoryOrDefault(),
				Quantity:    services.FormatQuantity(it.Quantity),
				Unit:        it.Unit,
				RCV:         services.FormatUSD(it.RCV),
				RAPPrice:    services.FormatUSD(it.DistributedPrice),
			})
		}
		data.Rooms = append(data.Rooms, r)
	}

	missing := map[string]bool{}
	if verr != nil {
		data.Error = verr.Error()
		for _, m := range verr.MissingFields {
			missing[m] = true
		}
	}
	for _, f := range services.ContractorFields {
		ff := templates.FormField{
			Name:  f.Name,
			Label: f.Label,
			Type:  "text",
			Value: contractor.Value(f.Name),
		}
		if t, ok := fieldInputTypes[f.Name]; ok {
			ff.Type = t
		}
		if missing[f.Name] {
			ff.Error = "Required"
		} else if verr != nil {
			ff.Error = verr.InvalidFields[f.Name]
		}
		data.Fields = append(data.Fields, ff)
	}
	return data
}
