package handlers

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
	"rapbuilder/templates"
)

// HandlePricingPage renders the per-category pricing sheet.
func HandlePricingPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepPricing {
			return redirect(e, s.State.Step.Path())
		}
		return renderPricing(e, s.State, "")
	}
}

func renderPricing(e *core.RequestEvent, state services.WorkflowState, errMsg string) error {
	data := buildPricingData(state, errMsg)
	var component templ.Component
	if isHTMX(e) {
		component = templates.PricingContent(data)
	} else {
		component = templates.PricingPage(data)
	}
	return component.Render(e.Request.Context(), e.Response)
}

// applyPrices copies every posted "price[<category>]" field into the sheet.
// Keys are applied in sorted order so the first bad category is stable.
func applyPrices(e *core.RequestEvent, state services.WorkflowState) (services.WorkflowState, error) {
	if err := e.Request.ParseForm(); err != nil {
		return state, err
	}
	keys := make([]string, 0, len(e.Request.PostForm))
	for k := range e.Request.PostForm {
		if strings.HasPrefix(k, "price[") && strings.HasSuffix(k, "]") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		category := k[len("price[") : len(k)-1]
		next, err := state.SetContractorPrice(category, e.Request.PostForm.Get(k))
		if err != nil {
			return state, err
		}
		state = next
	}
	return state, nil
}

// HandlePricingSave records the posted prices. With action=continue it also
// runs the export gate and advances; a failed gate re-renders the sheet with
// the message and a 422.
func HandlePricingSave(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepPricing {
			return respondError(deps, e, "pricing", services.ErrInvalidTransition)
		}

		state, err := applyPrices(e, s.State)
		if err != nil {
			return respondError(deps, e, "pricing", err)
		}
		s.State = state
		if s, err = persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "pricing", err)
		}

		if e.Request.FormValue("action") != "continue" {
			if isHTMX(e) {
				SetToast(e, "success", "Prices saved")
				return renderPricing(e, s.State, "")
			}
			return e.Redirect(http.StatusFound, services.StepPricing.Path())
		}

		next, err := s.State.ContinueToExport()
		if err != nil {
			var ve *services.ValidationError
			if errors.As(err, &ve) {
				deps.log("pricing").Infof("export gate rejected prices: %v", err)
				e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
				e.Response.WriteHeader(http.StatusUnprocessableEntity)
				return renderPricing(e, s.State, ve.Error())
			}
			return respondError(deps, e, "pricing", err)
		}
		s.State = next
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "pricing", err)
		}
		return redirect(e, services.StepExport.Path())
	}
}

// HandlePricingBack keeps any posted prices and returns to review.
func HandlePricingBack(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepPricing {
			return respondError(deps, e, "pricing", services.ErrInvalidTransition)
		}
		state, err := applyPrices(e, s.State)
		if err != nil {
			return respondError(deps, e, "pricing", err)
		}
		if state, err = state.Back(); err != nil {
			return respondError(deps, e, "pricing", err)
		}
		s.State = state
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "pricing", err)
		}
		return redirect(e, services.StepReview.Path())
	}
}
