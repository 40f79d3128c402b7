// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestSession stores a raw rap_sessions record at step. fields are set
// on the record as given, so JSON fields may be passed as Go values.
func CreateTestSession(t *testing.T, app *pocketbase.PocketBase, step string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.SessionsCollection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collections.SessionsCollection, err)
	}

	record := core.NewRecord(col)
	record.Set("step", step)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test session: %v", err)
	}

	return record
}

// SampleEstimateJSON is a parser response with two categories across two
// rooms and one duplicated line.
const SampleEstimateJSON = `{
  "success": true,
  "header": {"claim_number": "CLM-1001", "insured_name": "Jane Homeowner"},
  "line_items": [
    {"description": "Remove drywall", "category": "Drywall", "room": "Kitchen", "quantity": 10, "unit": "SF", "unit_price": 1, "rcv": 10},
    {"description": "Hang drywall", "category": "Drywall", "room": "Kitchen", "quantity": 30, "unit": "SF", "unit_price": 1, "rcv": 30},
    {"description": "Tape drywall", "category": "Drywall", "room": "Bedroom", "quantity": 60, "unit": "SF", "unit_price": 1, "rcv": 60},
    {"description": "Tape drywall", "category": "Drywall", "room": "Bedroom", "quantity": 60, "unit": "SF", "unit_price": 1, "rcv": 60},
    {"description": "Paint walls", "category": "Painting", "room": "Bedroom", "quantity": 5, "unit": "SF", "unit_price": "10.00", "rcv": "50.00"}
  ]
}`

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
