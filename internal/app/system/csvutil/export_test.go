package csvutil

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExport_QuotesCommaAndQuote(t *testing.T) {
	records := []map[string]any{
		{"a": 1, "b": "x,y"},
		{"a": 2, "b": `he said "hi"`},
	}

	body, err := Export(records)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := "a,b\n1,\"x,y\"\n2,\"he said \"\"hi\"\"\"\n"
	if string(body) != want {
		t.Errorf("Export() =\n%s\nwant\n%s", body, want)
	}
}

func TestExport_HeaderIsUnionInFirstSeenOrder(t *testing.T) {
	records := []map[string]any{
		{"name": "Acme"},
		{"name": "Beta", "email": "b@x.io"},
		{"zip": "02134", "name": "Gamma"},
	}

	body, err := Export(records, "name")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if lines[0] != "name,email,zip" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Acme,," {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[3] != "Gamma,,02134" {
		t.Errorf("row 3 = %q", lines[3])
	}
}

func TestExport_NestedValuesAsJSON(t *testing.T) {
	records := []map[string]any{
		{"id": 1, "meta": map[string]any{"k": "v"}, "tags": []any{"a", "b"}, "none": nil},
	}

	body, err := Export(records, "id")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if lines[0] != "id,meta,none,tags" {
		t.Errorf("header = %q", lines[0])
	}
	if want := `1,"{""k"":""v""}",,"[""a"",""b""]"`; lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestExport_NewlineIsQuoted(t *testing.T) {
	body, err := Export([]map[string]any{{"note": "line1\nline2"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "\"line1\nline2\"") {
		t.Errorf("newline field not quoted: %q", body)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 7, 4, 18, 0, 0, 0, time.UTC)
	if got := Filename("companies", now); got != "companies_2024-07-04.csv" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestFilename_UsesUTCDate(t *testing.T) {
	eastern := time.FixedZone("EST", -5*3600)
	now := time.Date(2024, 7, 4, 21, 30, 0, 0, eastern)
	if got := Filename("companies", now); got != "companies_2024-07-05.csv" {
		t.Errorf("Filename() = %q, want the UTC date", got)
	}
}

func TestWrite_SetsDownloadHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	now := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)

	if err := Write(rec, "companies", []map[string]any{{"a": "b"}}, now); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="companies_2024-07-04.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "a\nb\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestNormalize(t *testing.T) {
	arr := []any{map[string]any{"a": 1}, "skip", map[string]any{"a": 2}}
	if got := Normalize(arr); len(got) != 2 {
		t.Errorf("array: got %d records", len(got))
	}
	wrapped := map[string]any{"data": arr}
	if got := Normalize(wrapped); len(got) != 2 {
		t.Errorf("wrapped: got %d records", len(got))
	}
	single := map[string]any{"a": 1}
	if got := Normalize(single); len(got) != 1 {
		t.Errorf("single: got %d records", len(got))
	}
	if got := Normalize("nope"); got != nil {
		t.Errorf("scalar: got %v", got)
	}
}
