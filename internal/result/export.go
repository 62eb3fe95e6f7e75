package result

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tasktracker/internal/task"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported export formats.
var Formats = []string{"json", "csv", "pdf"}

type Exporter struct {
	now      func() time.Time
	compress bool
}

func NewExporter() *Exporter { return &Exporter{now: time.Now, compress: true} }

// ContentType returns the MIME type for format, or "" if format is unknown.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv"
	case "pdf":
		return "application/pdf"
	}
	return ""
}

func (e *Exporter) Export(views []task.View, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		if views == nil {
			views = []task.View{}
		}
		return json.MarshalIndent(views, "", "  ")
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "description", "status", "priority", "due_date", "days_remaining"})
		for _, v := range views {
			_ = w.Write([]string{v.ID, v.Description, string(v.Status), string(v.Priority), v.DueDate.String(), strconv.Itoa(v.DaysRemaining)})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case "pdf":
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.SetCompression(e.compress)
		// core fonts are cp1252; runes outside it print as '.'
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(40, 10, "Task Report")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		pdf.Cell(40, 6, "Generated "+e.now().Format("2006-01-02 15:04"))
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 10)
		if len(views) == 0 {
			pdf.MultiCell(0, 6, "No tasks available.", "0", "L", false)
		}
		for _, v := range views {
			line := fmt.Sprintf("[%s] %s  (%s, %s priority, due %s, %s)", v.ID, v.Description, v.Status, v.Priority, v.DueDate, daysLabel(v.DaysRemaining))
			pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		}
		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnknownFormat)
	}
}

func daysLabel(n int) string {
	switch {
	case n == 0:
		return "due today"
	case n < 0:
		return fmt.Sprintf("%d days overdue", -n)
	default:
		return fmt.Sprintf("%d days left", n)
	}
}
