package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
	"rapbuilder/templates"
)

// maxUploadSize bounds the estimate PDF accepted from the browser.
const maxUploadSize = 50 << 20

// HandleUploadPage renders the upload step.
func HandleUploadPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepUpload {
			return redirect(e, s.State.Step.Path())
		}
		data := templates.UploadData{
			Shell:    buildShell("Upload Estimate", s.State),
			FileName: s.State.FileName,
			Error:    s.State.Error,
			Busy:     s.ID != "" && deps.Guard.Busy(s.ID),
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.UploadContent(data)
		} else {
			component = templates.UploadPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleUpload accepts an estimate PDF, sends it to the parsing service and
// moves the workflow to review. Any failure leaves the workflow at upload
// with the message recorded.
func HandleUpload(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log := deps.log("upload")
		s := currentSession(app, deps, e)

		e.Request.Body = http.MaxBytesReader(e.Response, e.Request.Body, maxUploadSize)
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return respondError(deps, e, "upload", services.ErrNoFileSelected)
			}
			log.Infof("could not read upload: %v", err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded file")
		}
		defer file.Close()

		state, err := s.State.SelectFile(header.Filename, header.Header.Get("Content-Type"))
		if err != nil {
			if errors.Is(err, services.ErrUploadType) {
				s.State = state
				if _, saveErr := persist(app, deps, e, s); saveErr != nil {
					log.Errorf("could not save session: %v", saveErr)
				}
			}
			return uploadFailed(deps, e, err)
		}
		s.State = state
		// The new workflow replaces the old one; the contractor form is kept.
		if s, err = persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "upload", err)
		}

		release, err := deps.Guard.Acquire(s.ID)
		if err != nil {
			return respondError(deps, e, "upload", err)
		}
		defer release()

		state, err = s.State.BeginParse()
		if err != nil {
			return respondError(deps, e, "upload", err)
		}

		log = log.WithFields(map[string]any{"session": s.ID, "file": header.Filename})
		log.Info("parsing estimate")
		result, err := deps.Parser.ParseEstimate(e.Request.Context(), header.Filename, file)
		if err != nil {
			log.Warnf("parse failed: %v", err)
			s.State = state.ParseFailed(err)
			if _, saveErr := persist(app, deps, e, s); saveErr != nil {
				log.Errorf("could not save session: %v", saveErr)
			}
			return uploadFailed(deps, e, err)
		}

		s.State = state.ParseSucceeded(result, deps.Policy)
		log.WithField("items", len(s.State.Items)).Info("estimate parsed")
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "upload", err)
		}
		return redirect(e, services.StepReview.Path())
	}
}

// uploadFailed reports err as a toast for HTMX requests. Plain form posts go
// back to the upload page, which shows the recorded message.
func uploadFailed(deps *Deps, e *core.RequestEvent, err error) error {
	if isHTMX(e) {
		return respondError(deps, e, "upload", err)
	}
	deps.log("upload").Infof("upload rejected: %v", err)
	return e.Redirect(http.StatusFound, services.StepUpload.Path())
}
