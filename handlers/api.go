package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
)

type sessionResponse struct {
	Step       services.Step              `json:"step"`
	FileName   string                     `json:"fileName"`
	Busy       bool                       `json:"busy"`
	Error      string                     `json:"error,omitempty"`
	Header     services.HeaderInfo        `json:"header"`
	Items      []services.LineItem        `json:"lineItems"`
	Pricing    []services.CategoryPricing `json:"pricing"`
	Totals     services.PricingTotals     `json:"totals"`
	Contractor services.ContractorDetails `json:"contractor"`
}

// HandleSessionAPI returns the caller's workflow state as JSON.
func HandleSessionAPI(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		items := s.State.Items
		if items == nil {
			items = []services.LineItem{}
		}
		pricing := []services.CategoryPricing(s.State.Pricing)
		if pricing == nil {
			pricing = []services.CategoryPricing{}
		}
		header := s.State.Header
		if header == nil {
			header = services.HeaderInfo{}
		}
		return e.JSON(http.StatusOK, sessionResponse{
			Step:       s.State.Step,
			FileName:   s.State.FileName,
			Busy:       s.ID != "" && deps.Guard.Busy(s.ID),
			Error:      s.State.Error,
			Header:     header,
			Items:      items,
			Pricing:    pricing,
			Totals:     s.State.Pricing.Totals(),
			Contractor: s.Contractor,
		})
	}
}
