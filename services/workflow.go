package services

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// Step is a stage of the RAP workflow.
type Step string

const (
	StepUpload  Step = "upload"
	StepReview  Step = "review"
	StepPricing Step = "pricing"
	StepExport  Step = "export"
)

// Steps lists the workflow stages in order.
var Steps = []Step{StepUpload, StepReview, StepPricing, StepExport}

// Index is the step's position in Steps, or -1.
func (s Step) Index() int {
	for i, st := range Steps {
		if st == s {
			return i
		}
	}
	return -1
}

// Label is the step's display name.
func (s Step) Label() string {
	switch s {
	case StepUpload:
		return "Upload"
	case StepReview:
		return "Review"
	case StepPricing:
		return "Pricing"
	case StepExport:
		return "Export"
	}
	return string(s)
}

// Path is the page that renders the step.
func (s Step) Path() string {
	if s.Index() < 0 {
		return "/upload"
	}
	return "/" + string(s)
}

// WorkflowState is everything accumulated for one estimate. Transitions never
// modify the receiver; each returns the next state.
type WorkflowState struct {
	Step     Step         `json:"step"`
	FileName string       `json:"fileName"`
	Loading  bool         `json:"loading"`
	Error    string       `json:"error"`
	Header   HeaderInfo   `json:"header"`
	Items    []LineItem   `json:"items"`
	Pricing  PricingSheet `json:"pricing"`
}

// NewWorkflow returns the initial state.
func NewWorkflow() WorkflowState {
	return WorkflowState{Step: StepUpload}
}

func (s WorkflowState) require(step Step) error {
	if s.Step != step {
		return fmt.Errorf("%w: expected %s, at %s", ErrInvalidTransition, step, s.Step)
	}
	return nil
}

// IsPDF reports whether an uploaded file is a PDF. The declared content type
// decides; generic or missing types fall back to the file extension.
func IsPDF(fileName, contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil && mediaType != "application/octet-stream" {
		return mediaType == "application/pdf"
	}
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

// SelectFile chooses a new source document. A PDF discards everything
// accumulated so far; anything else leaves the state as it was apart from
// the error message.
func (s WorkflowState) SelectFile(fileName, contentType string) (WorkflowState, error) {
	if s.Loading {
		return s, ErrParseInFlight
	}
	if !IsPDF(fileName, contentType) {
		next := s
		next.Error = ErrUploadType.Error()
		return next, ErrUploadType
	}
	next := NewWorkflow()
	next.FileName = fileName
	return next, nil
}

// BeginParse marks the selected document as being parsed.
func (s WorkflowState) BeginParse() (WorkflowState, error) {
	if err := s.require(StepUpload); err != nil {
		return s, err
	}
	if s.Loading {
		return s, ErrParseInFlight
	}
	if s.FileName == "" {
		return s, ErrNoFileSelected
	}
	next := s
	next.Loading = true
	next.Error = ""
	return next, nil
}

// ParseSucceeded stores the parser output, deduplicated with policy, and
// moves to review.
func (s WorkflowState) ParseSucceeded(result ParseResult, policy DedupPolicy) WorkflowState {
	next := s
	next.Loading = false
	next.Error = ""
	next.Header = result.Header
	if next.Header == nil {
		next.Header = HeaderInfo{}
	}
	next.Items = RemoveDuplicates(result.LineItems, policy)
	next.Pricing = nil
	next.Step = StepReview
	return next
}

// ParseFailed leaves the workflow at upload with err as the message.
func (s WorkflowState) ParseFailed(err error) WorkflowState {
	next := s
	next.Loading = false
	next.Step = StepUpload
	next.Error = err.Error()
	return next
}

// Reclassify moves every item with description to category.
func (s WorkflowState) Reclassify(description, category string) (WorkflowState, error) {
	if err := s.require(StepReview); err != nil {
		return s, err
	}
	items, err := Reclassify(s.Items, description, category)
	if err != nil {
		return s, err
	}
	next := s
	next.Items = items
	next.Error = ""
	return next, nil
}

// ContinueToPricing snapshots category totals and opens the pricing step.
// Prices entered on an earlier visit are kept.
func (s WorkflowState) ContinueToPricing() (WorkflowState, error) {
	if err := s.require(StepReview); err != nil {
		return s, err
	}
	next := s
	next.Pricing = InitializePricing(GroupByCategory(s.Items), s.Pricing)
	next.Step = StepPricing
	next.Error = ""
	return next, nil
}

// SetContractorPrice records the raw entry for category.
func (s WorkflowState) SetContractorPrice(category, raw string) (WorkflowState, error) {
	if err := s.require(StepPricing); err != nil {
		return s, err
	}
	sheet, err := s.Pricing.SetContractorPrice(category, raw)
	if err != nil {
		return s, err
	}
	next := s
	next.Pricing = sheet
	return next, nil
}

// ContinueToExport requires at least one priced category.
func (s WorkflowState) ContinueToExport() (WorkflowState, error) {
	if err := s.require(StepPricing); err != nil {
		return s, err
	}
	if err := s.Pricing.ValidateForExport(); err != nil {
		return s, err
	}
	next := s
	next.Step = StepExport
	next.Error = ""
	return next, nil
}

// Back returns to the previous step without discarding anything.
func (s WorkflowState) Back() (WorkflowState, error) {
	next := s
	next.Error = ""
	switch s.Step {
	case StepPricing:
		next.Step = StepReview
	case StepExport:
		next.Step = StepPricing
	default:
		return s, fmt.Errorf("%w: cannot go back from %s", ErrInvalidTransition, s.Step)
	}
	return next, nil
}

// StartOver discards the workflow.
func (s WorkflowState) StartOver() WorkflowState {
	return NewWorkflow()
}

// BuildExport computes the RAP payload from the current state.
func (s WorkflowState) BuildExport(contractor ContractorDetails, phoneRegion string, now time.Time) (RAPExport, error) {
	if err := s.require(StepExport); err != nil {
		return RAPExport{}, err
	}
	if err := ValidateContractor(contractor, phoneRegion); err != nil {
		return RAPExport{}, err
	}
	return BuildRAPExport(contractor.Trimmed(), s.Header, s.Items, s.Pricing, now), nil
}
