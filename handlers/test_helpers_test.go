package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"

	"rapbuilder/config"
	"rapbuilder/services"
	"rapbuilder/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// stubParser answers ParseEstimate with a canned result.
type stubParser struct {
	result services.ParseResult
	err    error
	calls  int
	file   string
}

func (p *stubParser) ParseEstimate(ctx context.Context, fileName string, pdf io.Reader) (services.ParseResult, error) {
	p.calls++
	p.file = fileName
	if _, err := io.ReadAll(pdf); err != nil {
		return services.ParseResult{}, err
	}
	return p.result, p.err
}

func newTestDeps(t *testing.T, parser services.EstimateParser) *Deps {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return &Deps{
		Config: &config.Config{
			PhoneRegion:   "US",
			ParseTimeout:  time.Minute,
			ExportTimeout: 30 * time.Second,
			SessionTTL:    time.Hour,
		},
		Logger: logger,
		Parser: parser,
		Guard:  services.NewParseGuard(),
		Policy: services.DedupByLine,
		Now:    func() time.Time { return testNow },
	}
}

// sampleParseResult decodes the shared sample parser response.
func sampleParseResult(t *testing.T) services.ParseResult {
	t.Helper()
	var body struct {
		Header    services.HeaderInfo `json:"header"`
		LineItems []services.LineItem `json:"line_items"`
	}
	if err := json.Unmarshal([]byte(testhelpers.SampleEstimateJSON), &body); err != nil {
		t.Fatalf("decode sample estimate: %v", err)
	}
	return services.ParseResult{Header: body.Header, LineItems: body.LineItems}
}

// reviewState is the workflow right after the sample estimate was parsed.
func reviewState(t *testing.T) services.WorkflowState {
	t.Helper()
	state, err := services.NewWorkflow().SelectFile("estimate.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("select file: %v", err)
	}
	if state, err = state.BeginParse(); err != nil {
		t.Fatalf("begin parse: %v", err)
	}
	return state.ParseSucceeded(sampleParseResult(t), services.DedupByLine)
}

func pricingState(t *testing.T) services.WorkflowState {
	t.Helper()
	state, err := reviewState(t).ContinueToPricing()
	if err != nil {
		t.Fatalf("continue to pricing: %v", err)
	}
	return state
}

func exportState(t *testing.T) services.WorkflowState {
	t.Helper()
	state := pricingState(t)
	var err error
	if state, err = state.SetContractorPrice("Drywall", "200"); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if state, err = state.SetContractorPrice("Painting", "100"); err != nil {
		t.Fatalf("set price: %v", err)
	}
	if state, err = state.ContinueToExport(); err != nil {
		t.Fatalf("continue to export: %v", err)
	}
	return state
}

// saveState stores state as a new session and returns its id.
func saveState(t *testing.T, app *pocketbase.PocketBase, state services.WorkflowState, contractor services.ContractorDetails) string {
	t.Helper()
	s, err := services.SaveSession(app, services.Session{State: state, Contractor: contractor})
	if err != nil {
		t.Fatalf("save session: %v", err)
	}
	return s.ID
}

func loadState(t *testing.T, app *pocketbase.PocketBase, id string) services.Session {
	t.Helper()
	s, err := services.LoadSession(app, id)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if s.ID != id {
		t.Fatalf("session %s not found", id)
	}
	return s
}

// newRequest builds a request carrying the session cookie when id is set.
func newRequest(method, target string, body io.Reader, sessionID string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionID})
	}
	return req
}

func formRequest(method, target, body, sessionID string) *http.Request {
	req := newRequest(method, target, bytes.NewBufferString(body), sessionID)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// uploadRequest builds a multipart POST /upload with one "file" part.
func uploadRequest(t *testing.T, fileName, contentType string, data []byte, sessionID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	w.Close()

	req := newRequest(http.MethodPost, "/upload", &buf, sessionID)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// sessionCookie returns the rap_session cookie set on the response, or "".
func sessionCookie(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c.Value
		}
	}
	return ""
}

func validContractor() services.ContractorDetails {
	return services.ContractorDetails{
		Name:    "Acme Builders",
		Address: "1 Main St, Springfield",
		Phone:   "650-253-0000",
		Email:   "gc@example.com",
		License: "GC-42",
	}
}
