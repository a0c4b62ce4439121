package exports

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Name:    "countries",
		Columns: []string{"Code", "Name", "Active"},
		Rows: [][]string{
			{"EG", "Egypt", "true"},
			{"SA", "Saudi Arabia", "true"},
		},
	}
}

func TestSheetTitle(t *testing.T) {
	if got := sampleTable().SheetTitle(); got != "Countries" {
		t.Fatalf("sheet title = %q, want Countries", got)
	}
	if got := (Table{}).SheetTitle(); got != "Export" {
		t.Fatalf("empty table title = %q, want Export", got)
	}
}

func TestBuildExcelRoundTrip(t *testing.T) {
	data, err := BuildExcel(sampleTable())
	if err != nil {
		t.Fatalf("build excel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Countries" {
		t.Fatalf("sheets = %v, want [Countries]", sheets)
	}
	rows, err := f.GetRows("Countries")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rows))
	}
	if rows[0][1] != "Name" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[2][1] != "Saudi Arabia" {
		t.Fatalf("data row = %v", rows[2])
	}
}

func TestParseExcelSkipsBlankRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]string{"Code", "Name"})
	_ = f.SetSheetRow(sheet, "A2", &[]string{"EG", "Egypt"})
	_ = f.SetSheetRow(sheet, "A4", &[]string{"SA", "Saudi Arabia"})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()

	header, data, err := ParseExcel(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(header) != 2 || header[0] != "Code" {
		t.Fatalf("header = %v", header)
	}
	if len(data) != 2 {
		t.Fatalf("data rows = %d, want 2 (blank row dropped)", len(data))
	}
}

func TestWriteCSVUsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Code,Name,Active\r\n") {
		t.Fatalf("unexpected header line: %q", out)
	}
	if strings.Count(out, "\r\n") != 3 {
		t.Fatalf("expected 3 CRLF lines, got %q", out)
	}
}

type stubRenderer struct {
	html string
}

func (s *stubRenderer) RenderHTML(_ context.Context, html string) ([]byte, error) {
	s.html = html
	return []byte("%PDF-stub"), nil
}

func TestBuildPDFRendersHTMLTable(t *testing.T) {
	renderer := &stubRenderer{}
	out, err := BuildPDF(context.Background(), renderer, sampleTable())
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if string(out) != "%PDF-stub" {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(renderer.html, "<h1>Countries</h1>") {
		t.Fatalf("missing title in html: %s", renderer.html)
	}
	if !strings.Contains(renderer.html, "<td>Egypt</td>") {
		t.Fatalf("missing row in html: %s", renderer.html)
	}
}
