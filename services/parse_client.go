package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"
)

const parseEstimatePath = "/api/parse-estimate"

// maxParseResponse bounds the parser response read into memory.
const maxParseResponse = 32 << 20

// ParseResult is the structured content of an estimate PDF.
type ParseResult struct {
	Header    HeaderInfo
	LineItems []LineItem
}

// EstimateParser turns an estimate PDF into line items.
type EstimateParser interface {
	ParseEstimate(ctx context.Context, fileName string, pdf io.Reader) (ParseResult, error)
}

// ParseClient calls the external estimate parsing service.
type ParseClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewParseClient returns a client for the service at baseURL.
func NewParseClient(baseURL string, timeout time.Duration) *ParseClient {
	return &ParseClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type parseResponse struct {
	Success   bool       `json:"success"`
	Header    HeaderInfo `json:"header"`
	LineItems []LineItem `json:"line_items"`
	Error     string     `json:"error"`
	Details   string     `json:"details"`
}

func (r parseResponse) failure() *ParseFailureError {
	switch {
	case strings.TrimSpace(r.Error) != "":
		return &ParseFailureError{Message: r.Error}
	case strings.TrimSpace(r.Details) != "":
		return &ParseFailureError{Message: r.Details}
	}
	return &ParseFailureError{Message: "Failed to parse estimate"}
}

// ParseEstimate uploads the PDF as multipart field "file". Transport failures
// are returned as *ConnectivityError; any answer that does not carry line
// items is a *ParseFailureError.
func (c *ParseClient) ParseEstimate(ctx context.Context, fileName string, pdf io.Reader) (ParseResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return ParseResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return ParseResult{}, fmt.Errorf("read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return ParseResult{}, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+parseEstimatePath, &body)
	if err != nil {
		return ParseResult{}, &ConnectivityError{Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return ParseResult{}, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxParseResponse))
	if err != nil {
		return ParseResult{}, &ConnectivityError{Err: err}
	}

	var parsed parseResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ParseResult{}, &ParseFailureError{Message: "Failed to parse estimate"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Success {
		return ParseResult{}, parsed.failure()
	}

	header := parsed.Header
	if header == nil {
		header = HeaderInfo{}
	}
	return ParseResult{Header: header, LineItems: parsed.LineItems}, nil
}

// ParseGuard allows one parse at a time per session.
type ParseGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewParseGuard returns an empty guard.
func NewParseGuard() *ParseGuard {
	return &ParseGuard{active: make(map[string]struct{})}
}

// Acquire marks session as parsing. It returns ErrParseInFlight when a parse
// is already running for the session; otherwise the caller must call the
// returned release func.
func (g *ParseGuard) Acquire(session string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[session]; busy {
		return nil, ErrParseInFlight
	}
	g.active[session] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.active, session)
		g.mu.Unlock()
	}, nil
}

// Busy reports whether a parse is running for session.
func (g *ParseGuard) Busy(session string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.active[session]
	return busy
}
