package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUploadType        = errors.New("please select a valid PDF file")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrCategoryNotPriced = errors.New("category is not part of the pricing sheet")
	ErrInvalidTransition = errors.New("action not allowed at the current step")
	ErrParseInFlight     = errors.New("an estimate is already being processed")
	ErrNoFileSelected    = errors.New("no estimate file selected")
)

// ValidationError is returned when a step gate rejects user input.
// MissingFields lists empty required fields in form order; InvalidFields maps
// a field to a format problem.
type ValidationError struct {
	Message       string
	MissingFields []string
	InvalidFields map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.MissingFields) > 0 {
		return "Please fill in all fields: " + strings.Join(e.MissingFields, ", ")
	}
	keys := make([]string, 0, len(e.InvalidFields))
	for k := range e.InvalidFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.InvalidFields[k]))
	}
	return "Please correct: " + strings.Join(parts, "; ")
}

// ParseFailureError means the parsing service answered but did not produce
// usable line items.
type ParseFailureError struct {
	Message string
}

func (e *ParseFailureError) Error() string {
	return e.Message
}

// ConnectivityError means the parsing service could not be reached.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("Failed to connect to server: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}
