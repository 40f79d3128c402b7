package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
)

// HandleStartOver discards the workflow and returns to upload. Contractor
// details survive so a second claim does not need them retyped.
func HandleStartOver(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.ID != "" && deps.Guard.Busy(s.ID) {
			return respondError(deps, e, "start_over", services.ErrParseInFlight)
		}
		s.State = s.State.StartOver()
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "start_over", err)
		}
		deps.log("start_over").WithField("session", s.ID).Info("workflow reset")
		return redirect(e, services.StepUpload.Path())
	}
}
