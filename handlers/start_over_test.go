package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rapbuilder/services"
	"rapbuilder/testhelpers"
)

func TestHandleHome_RedirectsToStep(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})
	pricingID := saveState(t, app, pricingState(t), services.ContractorDetails{})

	tests := []struct {
		name    string
		session string
		want    string
	}{
		{"no session", "", "/upload"},
		{"unknown session", "doesnotexist123", "/upload"},
		{"pricing session", pricingID, "/pricing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(http.MethodGet, "/", nil, tt.session)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleHome(app, deps)(e); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if loc := rec.Header().Get("Location"); loc != tt.want {
				t.Errorf("expected redirect to %q, got %q", tt.want, loc)
			}
		})
	}
}

func TestHandleStartOver(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})
	id := saveState(t, app, exportState(t), validContractor())

	req := formRequest(http.MethodPost, "/start-over", "", id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleStartOver(app, deps)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if loc := rec.Header().Get("Location"); loc != "/upload" {
		t.Fatalf("expected redirect to /upload, got %q", loc)
	}

	s := loadState(t, app, id)
	if s.State.Step != services.StepUpload {
		t.Errorf("expected upload step, got %s", s.State.Step)
	}
	if len(s.State.Items) != 0 || len(s.State.Pricing) != 0 || s.State.FileName != "" {
		t.Errorf("workflow not reset: %+v", s.State)
	}
	if s.Contractor.Name != "Acme Builders" {
		t.Errorf("contractor details should survive start over, got %+v", s.Contractor)
	}
}

func TestHandleStartOver_BlockedDuringParse(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})
	id := saveState(t, app, reviewState(t), services.ContractorDetails{})

	release, err := deps.Guard.Acquire(id)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	req := formRequest(http.MethodPost, "/start-over", "", id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleStartOver(app, deps)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if s := loadState(t, app, id); s.State.Step != services.StepReview {
		t.Errorf("workflow must be untouched, got %s", s.State.Step)
	}
}

func TestHandleSessionAPI(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})
	id := saveState(t, app, exportState(t), validContractor())

	req := newRequest(http.MethodGet, "/api/session", nil, id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleSessionAPI(app, deps)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got struct {
		Step    string                     `json:"step"`
		Busy    bool                       `json:"busy"`
		Header  map[string]any             `json:"header"`
		Items   []services.LineItem        `json:"lineItems"`
		Pricing []services.CategoryPricing `json:"pricing"`
		Totals  services.PricingTotals     `json:"totals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Step != "export" {
		t.Errorf("step = %q", got.Step)
	}
	if len(got.Items) != 4 || len(got.Pricing) != 2 {
		t.Errorf("items = %d pricing = %d", len(got.Items), len(got.Pricing))
	}
	if got.Totals.ContractorPrice != 300 || got.Totals.Adjustment != 150 {
		t.Errorf("totals = %+v", got.Totals)
	}
	if got.Header["claim_number"] != "CLM-1001" {
		t.Errorf("header = %v", got.Header)
	}
}

func TestHandleSessionAPI_FreshSession(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	deps := newTestDeps(t, &stubParser{})

	req := newRequest(http.MethodGet, "/api/session", nil, "")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleSessionAPI(app, deps)(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `"step":"upload"`, `"lineItems":[]`, `"pricing":[]`, `"header":{}`)
	if sessionCookie(rec) != "" {
		t.Error("reading state must not create a session")
	}
}
