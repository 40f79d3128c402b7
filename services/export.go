package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ExportFormat selects the RAP document renderer.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatXLSX ExportFormat = "xlsx"
	FormatJSON ExportFormat = "json"
)

// ParseExportFormat accepts pdf, xlsx or json. Empty means pdf.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatXLSX, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of the rendered document.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	}
	return "application/pdf"
}

// ExportFile is a rendered RAP document ready for download.
type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// ExportFilename returns RAP_<claim number>_<unix seconds>.<ext>, using
// "export" when the claim number is unknown.
func ExportFilename(data RAPExport, format ExportFormat) string {
	claim := unsafeFilenameChars.ReplaceAllString(data.Header.ClaimNumber(), "-")
	claim = strings.Trim(claim, "-")
	if claim == "" {
		claim = "export"
	}
	return fmt.Sprintf("RAP_%s_%d.%s", claim, data.GeneratedAt.Unix(), format)
}

func renderRAP(format ExportFormat, data RAPExport) ([]byte, error) {
	switch format {
	case FormatPDF:
		return GenerateRAPPDF(data)
	case FormatXLSX:
		return GenerateRAPExcel(data)
	case FormatJSON:
		b, err := json.MarshalIndent(data.Payload(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json export: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// RenderRAP renders data in the background and returns when the document is
// ready or ctx is done, whichever happens first.
func RenderRAP(ctx context.Context, format ExportFormat, data RAPExport) (ExportFile, error) {
	type result struct {
		body []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := renderRAP(format, data)
		done <- result{body, err}
	}()

	select {
	case <-ctx.Done():
		return ExportFile{}, fmt.Errorf("render %s export: %w", format, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return ExportFile{}, r.err
		}
		return ExportFile{
			Name:        ExportFilename(data, format),
			ContentType: format.ContentType(),
			Body:        r.body,
		}, nil
	}
}
