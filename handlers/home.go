package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleHome sends the browser to the page for its current step.
func HandleHome(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		return redirect(e, s.State.Step.Path())
	}
}
