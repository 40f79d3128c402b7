package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
)

type contextKey string

// SessionKey holds the loaded services.Session in the request context.
const SessionKey contextKey = "rapSession"

// SessionCookie identifies the browser's workflow.
const SessionCookie = "rap_session"

// GetSession extracts the session loaded by SessionMiddleware.
func GetSession(r *http.Request) (services.Session, bool) {
	s, ok := r.Context().Value(SessionKey).(services.Session)
	return s, ok
}

// SessionMiddleware reads the "rap_session" cookie, loads the workflow and
// stores it in the request context. A cookie pointing at a missing session
// is cleared.
func SessionMiddleware(app *pocketbase.PocketBase, deps *Deps) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := loadSession(app, deps, e)
		ctx := context.WithValue(e.Request.Context(), SessionKey, s)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// currentSession returns the session from the context, loading it from the
// cookie when the middleware did not run.
func currentSession(app *pocketbase.PocketBase, deps *Deps, e *core.RequestEvent) services.Session {
	if s, ok := GetSession(e.Request); ok {
		return s
	}
	return loadSession(app, deps, e)
}

func loadSession(app *pocketbase.PocketBase, deps *Deps, e *core.RequestEvent) services.Session {
	cookie, err := e.Request.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return services.NewSession()
	}

	s, err := services.LoadSession(app, cookie.Value)
	if err != nil {
		deps.log("session").WithField("session", cookie.Value).Warnf("could not load session, starting fresh: %v", err)
		return services.NewSession()
	}
	if s.ID == "" {
		deps.log("session").WithField("session", cookie.Value).Info("session not found, clearing cookie")
		http.SetCookie(e.Response, &http.Cookie{
			Name:   SessionCookie,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
	return s
}

// persist saves s and issues the session cookie on first save.
func persist(app *pocketbase.PocketBase, deps *Deps, e *core.RequestEvent, s services.Session) (services.Session, error) {
	isNew := s.ID == ""
	saved, err := services.SaveSession(app, s)
	if err != nil {
		return s, err
	}
	if isNew {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     SessionCookie,
			Value:    saved.ID,
			Path:     "/",
			MaxAge:   int(deps.Config.SessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	ctx := context.WithValue(e.Request.Context(), SessionKey, saved)
	e.Request = e.Request.WithContext(ctx)
	return saved, nil
}
