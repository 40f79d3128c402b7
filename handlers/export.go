package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
	"rapbuilder/templates"
)

// HandleExportPage shows the summary, room distribution and contractor form.
func HandleExportPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepExport {
			return redirect(e, s.State.Step.Path())
		}
		return renderExport(e, http.StatusOK, buildExportData(s.State, s.Contractor, nil))
	}
}

func renderExport(e *core.RequestEvent, status int, data templates.ExportData) error {
	var component templ.Component
	if isHTMX(e) {
		component = templates.ExportContent(data)
	} else {
		component = templates.ExportPage(data)
	}
	if status != http.StatusOK {
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		e.Response.WriteHeader(status)
	}
	return component.Render(e.Request.Context(), e.Response)
}

func contractorFromForm(e *core.RequestEvent) services.ContractorDetails {
	return services.ContractorDetails{
		Name:    e.Request.FormValue("name"),
		Address: e.Request.FormValue("address"),
		Phone:   e.Request.FormValue("phone"),
		Email:   e.Request.FormValue("email"),
		License: e.Request.FormValue("license"),
	}
}

// HandleExport validates the contractor details and streams the RAP document
// in the requested format. The entered details are kept even when invalid.
func HandleExport(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := deps.log("export")
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepExport {
			return respondError(deps, e, "export", services.ErrInvalidTransition)
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		format, err := services.ParseExportFormat(e.Request.FormValue("format"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		s.Contractor = contractorFromForm(e)
		if s, err = persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "export", err)
		}

		data, err := s.State.BuildExport(s.Contractor, deps.Config.PhoneRegion, deps.Now())
		if err != nil {
			var ve *services.ValidationError
			if errors.As(err, &ve) {
				log.Infof("contractor details rejected: %v", err)
				return renderExport(e, http.StatusUnprocessableEntity, buildExportData(s.State, s.Contractor, ve))
			}
			return respondError(deps, e, "export", err)
		}

		ctx, cancel := context.WithTimeout(e.Request.Context(), deps.Config.ExportTimeout)
		defer cancel()
		file, err := services.RenderRAP(ctx, format, data)
		if err != nil {
			return respondError(deps, e, "export", fmt.Errorf("generate %s: %w", format, err))
		}

		log.WithFields(map[string]any{
			"session":  s.ID,
			"document": data.DocumentID,
			"format":   string(format),
			"bytes":    len(file.Body),
		}).Info("RAP exported")

		e.Response.Header().Set("Content-Type", file.ContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(file.Body)
		return err
	}
}

// HandleExportBack keeps the contractor details and returns to pricing.
func HandleExportBack(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		state, err := s.State.Back()
		if err != nil {
			return respondError(deps, e, "export", err)
		}
		if s.State.Step == services.StepExport {
			if err := e.Request.ParseForm(); err == nil && len(e.Request.PostForm) > 0 {
				s.Contractor = contractorFromForm(e)
			}
		}
		s.State = state
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "export", err)
		}
		return redirect(e, services.StepPricing.Path())
	}
}
