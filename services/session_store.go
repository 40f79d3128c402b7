package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/collections"
)

// Session is a persisted workflow. ID is empty until the first save.
type Session struct {
	ID         string
	State      WorkflowState
	Contractor ContractorDetails
}

// NewSession returns an unsaved session at the upload step.
func NewSession() Session {
	return Session{State: NewWorkflow()}
}

// LoadSession reads the session with id. An empty or unknown id yields a
// fresh unsaved session.
func LoadSession(app *pocketbase.PocketBase, id string) (Session, error) {
	if id == "" {
		return NewSession(), nil
	}
	rec, err := app.FindRecordById(collections.SessionsCollection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return NewSession(), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session %s: %w", id, err)
	}
	return sessionFromRecord(rec)
}

func sessionFromRecord(rec *core.Record) (Session, error) {
	s := Session{ID: rec.Id}
	s.State.Step = Step(rec.GetString("step"))
	if s.State.Step.Index() < 0 {
		s.State.Step = StepUpload
	}
	s.State.FileName = rec.GetString("file_name")
	s.State.Error = rec.GetString("error")

	for field, dst := range map[string]any{
		"header":     &s.State.Header,
		"line_items": &s.State.Items,
		"pricing":    &s.State.Pricing,
		"contractor": &s.Contractor,
	} {
		if raw := rec.GetString(field); raw == "" || raw == "null" {
			continue
		}
		if err := rec.UnmarshalJSONField(field, dst); err != nil {
			return Session{}, fmt.Errorf("decode session %s field %s: %w", rec.Id, field, err)
		}
	}
	return s, nil
}

// SaveSession writes s, creating the record on first save, and returns the
// session with its ID set. The in-flight parse flag is not persisted.
func SaveSession(app *pocketbase.PocketBase, s Session) (Session, error) {
	var rec *core.Record
	if s.ID != "" {
		found, err := app.FindRecordById(collections.SessionsCollection, s.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return s, fmt.Errorf("load session %s: %w", s.ID, err)
		}
		rec = found
	}
	if rec == nil {
		col, err := app.FindCollectionByNameOrId(collections.SessionsCollection)
		if err != nil {
			return s, fmt.Errorf("find %s collection: %w", collections.SessionsCollection, err)
		}
		rec = core.NewRecord(col)
	}

	header := s.State.Header
	if header == nil {
		header = HeaderInfo{}
	}
	items := s.State.Items
	if items == nil {
		items = []LineItem{}
	}
	pricing := s.State.Pricing
	if pricing == nil {
		pricing = PricingSheet{}
	}

	rec.Set("step", string(s.State.Step))
	rec.Set("file_name", s.State.FileName)
	rec.Set("error", s.State.Error)
	rec.Set("header", header)
	rec.Set("line_items", items)
	rec.Set("pricing", pricing)
	rec.Set("contractor", s.Contractor)

	if err := app.Save(rec); err != nil {
		return s, fmt.Errorf("save session: %w", err)
	}
	s.ID = rec.Id
	return s, nil
}

// DeleteSession removes the stored session, if any.
func DeleteSession(app *pocketbase.PocketBase, id string) error {
	if id == "" {
		return nil
	}
	rec, err := app.FindRecordById(collections.SessionsCollection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session %s: %w", id, err)
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}
