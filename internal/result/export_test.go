package result

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"tasktracker/internal/task"
)

func sampleViews(t *testing.T) []task.View {
	t.Helper()
	s := task.NewStore(task.WithClock(func() time.Time {
		return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	}))
	if _, err := s.Add("1", "Buy milk, eggs", "2024-06-20", "High"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("2", "File taxes", "2024-06-10", "Low"); err != nil {
		t.Fatal(err)
	}
	var out []task.View
	for v := range s.List() {
		out = append(out, v)
	}
	return out
}

func TestExportCSV(t *testing.T) {
	b, err := NewExporter().Export(sampleViews(t), "csv")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	header := []string{"id", "description", "status", "priority", "due_date", "days_remaining"}
	for i, h := range header {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	want := []string{"1", "Buy milk, eggs", "Pending", "High", "2024-06-20", "5"}
	for i, w := range want {
		if records[1][i] != w {
			t.Errorf("row1[%d] = %q, want %q", i, records[1][i], w)
		}
	}
	if records[2][5] != "-5" {
		t.Errorf("expected -5 days remaining, got %q", records[2][5])
	}
}

func TestExportJSON(t *testing.T) {
	b, err := NewExporter().Export(sampleViews(t), "JSON")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	var got []task.View
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[0].DueDate.String() != "2024-06-20" || got[1].DaysRemaining != -5 {
		t.Fatalf("unexpected views %+v", got)
	}
}

func TestExportJSONEmpty(t *testing.T) {
	b, err := NewExporter().Export(nil, "json")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(b) != "[]" {
		t.Fatalf("expected empty array, got %s", b)
	}
}

func TestExportPDF(t *testing.T) {
	for _, views := range [][]task.View{sampleViews(t), nil} {
		b, err := NewExporter().Export(views, "pdf")
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !bytes.HasPrefix(b, []byte("%PDF")) {
			t.Fatalf("output is not a PDF: %q", b[:min(len(b), 16)])
		}
	}
}

func TestExportPDFEncodesText(t *testing.T) {
	s := task.NewStore(task.WithClock(func() time.Time {
		return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	}))
	if _, err := s.Add("1", "Café ✅", "2024-06-20", "High"); err != nil {
		t.Fatal(err)
	}
	views := slices.Collect(s.List())

	e := NewExporter()
	e.compress = false
	b, err := e.Export(views, "pdf")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.Contains(b, []byte("Caf\xe9 .")) {
		t.Fatal("expected description in cp1252 with unmapped runes replaced")
	}
	if bytes.Contains(b, []byte("Caf\xc3\xa9")) {
		t.Fatal("description written as raw UTF-8")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	_, err := NewExporter().Export(nil, "xlsx")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if ContentType("xlsx") != "" {
		t.Fatal("expected no content type for unknown format")
	}
}
