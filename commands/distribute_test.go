package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"rapbuilder/services"
	"rapbuilder/testhelpers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cmd := NewDistributeCommand(logger)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const contractorJSON = `{"name":"Acme Builders","address":"1 Main St","phone":"650-253-0000","email":"gc@example.com","license":"GC-42"}`

func TestDistribute_PrintsRooms(t *testing.T) {
	dir := t.TempDir()
	est := writeFile(t, dir, "estimate.json", testhelpers.SampleEstimateJSON)

	out, err := runCommand(t, "--estimate", est, "--price", "Drywall=200", "--price", "Painting=100")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	for _, want := range []string{"Kitchen total", "Bedroom total", "$120.00", "Total Contractor", "$300.00", "+$150.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestDistribute_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	est := writeFile(t, dir, "estimate.json", testhelpers.SampleEstimateJSON)

	out, err := runCommand(t, "--estimate", est, "--price", "Drywall=200", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rooms []services.RoomGroup
	if err := json.Unmarshal([]byte(out), &rooms); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rooms) != 2 || rooms[0].Room != "Kitchen" || rooms[1].Room != "Bedroom" {
		t.Fatalf("rooms = %+v", rooms)
	}
	// Drywall RCV 10/30/60 after dropping the duplicate tape line.
	want := []float64{20, 60}
	for i, it := range rooms[0].Items {
		if d := it.DistributedPrice - want[i]; d > 0.001 || d < -0.001 {
			t.Errorf("kitchen item %d distributed = %v, want %v", i, it.DistributedPrice, want[i])
		}
	}
	if rooms[1].Items[0].DistributedPrice < 119.999 || rooms[1].Items[0].DistributedPrice > 120.001 {
		t.Errorf("bedroom drywall distributed = %v, want 120", rooms[1].Items[0].DistributedPrice)
	}
}

func TestDistribute_Errors(t *testing.T) {
	dir := t.TempDir()
	est := writeFile(t, dir, "estimate.json", testhelpers.SampleEstimateJSON)
	empty := writeFile(t, dir, "empty.json", `{"line_items":[]}`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing estimate flag", nil, "estimate"},
		{"malformed price", []string{"--estimate", est, "--price", "Drywall"}, "Category=amount"},
		{"invalid amount", []string{"--estimate", est, "--price", "Painting=lots"}, "not a valid amount"},
		{"negative amount", []string{"--estimate", est, "--price", "Painting=-5"}, "not a valid amount"},
		{"unknown category", []string{"--estimate", est, "--price", "Roofing=10"}, "not part of the pricing sheet"},
		{"bad policy", []string{"--estimate", est, "--dedup", "fuzzy"}, "fuzzy"},
		{"no items", []string{"--estimate", empty}, "no line items"},
		{"export without contractor", []string{"--estimate", est, "--price", "Drywall=1", "--price", "Painting=1", "--export", filepath.Join(dir, "x.pdf")}, "--contractor"},
		{"export with nothing priced", []string{"--estimate", est, "--contractor", "c.json", "--export", filepath.Join(dir, "x.pdf")}, "at least one contractor price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDistribute_ExportXLSX(t *testing.T) {
	dir := t.TempDir()
	est := writeFile(t, dir, "estimate.json", testhelpers.SampleEstimateJSON)
	gc := writeFile(t, dir, "gc.json", contractorJSON)
	target := filepath.Join(dir, "rap.xlsx")

	out, err := runCommand(t, "--estimate", est, "--price", "Drywall=200", "--price", "Painting=100",
		"--contractor", gc, "--export", target)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "wrote "+target) {
		t.Errorf("output = %q", out)
	}

	f, err := excelize.OpenFile(target)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex("Distribution"); idx < 0 {
		t.Error("Distribution sheet missing")
	}
}

func TestDistribute_ExportRejectsBadContractor(t *testing.T) {
	dir := t.TempDir()
	est := writeFile(t, dir, "estimate.json", testhelpers.SampleEstimateJSON)
	gc := writeFile(t, dir, "gc.json", `{"name":"Acme","address":"1 Main St","phone":"650-253-0000","email":"","license":"GC-42"}`)

	_, err := runCommand(t, "--estimate", est, "--price", "Drywall=200", "--price", "Painting=100",
		"--contractor", gc, "--export", filepath.Join(dir, "rap.pdf"))
	if err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected missing email error, got %v", err)
	}
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		format, path string
		want         services.ExportFormat
		wantErr      bool
	}{
		{"", "out.pdf", services.FormatPDF, false},
		{"", "out.XLSX", services.FormatXLSX, false},
		{"", "out", services.FormatPDF, false},
		{"json", "out.pdf", services.FormatJSON, false},
		{"", "out.csv", "", true},
	}
	for _, tt := range tests {
		got, err := exportFormat(&distributeOptions{format: tt.format, export: tt.path})
		if (err != nil) != tt.wantErr {
			t.Errorf("exportFormat(%q, %q) err = %v", tt.format, tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("exportFormat(%q, %q) = %q, want %q", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestDistribute_CSVSheet(t *testing.T) {
	dir := t.TempDir()
	sheet := writeFile(t, dir, "items.csv", `Description,Category,Room,Qty,Unit,RCV
Remove drywall,Drywall,Kitchen,10,SF,10
Hang drywall,Drywall,Kitchen,30,SF,"$30.00"
`)

	out, err := runCommand(t, "--estimate", sheet, "--claim", "CLM-9", "--price", "Drywall=80", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, out)
	}
	var rooms []services.RoomGroup
	if err := json.Unmarshal([]byte(out), &rooms); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(rooms) != 1 || len(rooms[0].Items) != 2 {
		t.Fatalf("rooms = %+v", rooms)
	}
	if got := rooms[0].Items[1].DistributedPrice; got < 59.999 || got > 60.001 {
		t.Errorf("hang drywall distributed = %v, want 60", got)
	}
}

func TestDistribute_CSVSheetRowErrors(t *testing.T) {
	dir := t.TempDir()
	sheet := writeFile(t, dir, "items.csv", "Description,RCV\nRemove drywall,ten\n")

	_, err := runCommand(t, "--estimate", sheet)
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("expected row error, got %v", err)
	}
}
