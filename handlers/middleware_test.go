package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"rapbuilder/services"
	"rapbuilder/testhelpers"
)

func TestGetSession_FromContext(t *testing.T) {
	expected := services.Session{ID: "abc123", State: services.NewWorkflow()}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), SessionKey, expected)
	req = req.WithContext(ctx)

	got, ok := GetSession(req)
	if !ok {
		t.Fatal("expected session in context")
	}
	if got.ID != expected.ID {
		t.Errorf("expected ID %q, got %q", expected.ID, got.ID)
	}
}

func TestGetSession_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetSession(req); ok {
		t.Error("expected no session")
	}
}

func TestSessionMiddleware_LoadsSession(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})
	id := saveState(t, app, reviewState(t), services.ContractorDetails{})

	req := newRequest(http.MethodGet, "/review", nil, id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := SessionMiddleware(app, deps)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	s, ok := GetSession(e.Request)
	if !ok {
		t.Fatal("expected session in request context")
	}
	if s.ID != id || s.State.Step != services.StepReview {
		t.Errorf("loaded session = %s at %s", s.ID, s.State.Step)
	}
}

func TestSessionMiddleware_NoCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})

	req := newRequest(http.MethodGet, "/", nil, "")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := SessionMiddleware(app, deps)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	s, ok := GetSession(e.Request)
	if !ok {
		t.Fatal("expected a fresh session in context")
	}
	if s.ID != "" || s.State.Step != services.StepUpload {
		t.Errorf("expected unsaved upload session, got %+v", s)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be set without a save")
	}
}

func TestSessionMiddleware_ClearsStaleCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})

	req := newRequest(http.MethodGet, "/", nil, "gone1234567890a")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := SessionMiddleware(app, deps)(e); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected stale session cookie to be cleared")
	}
}

func TestPersist_IssuesCookieOnce(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})

	req := newRequest(http.MethodPost, "/", nil, "")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	saved, err := persist(app, deps, e, services.NewSession())
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected saved session id")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != saved.ID {
		t.Fatalf("expected one session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Errorf("cookie attributes = %+v", cookies[0])
	}
	if s, ok := GetSession(e.Request); !ok || s.ID != saved.ID {
		t.Error("persist must refresh the request context")
	}

	rec2 := httptest.NewRecorder()
	e2 := newTestRequestEvent(app, newRequest(http.MethodPost, "/", nil, saved.ID), rec2)
	if _, err := persist(app, deps, e2, saved); err != nil {
		t.Fatalf("second persist: %v", err)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Error("an existing session must not get a new cookie")
	}
}
