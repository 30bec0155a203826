package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"vitalboard/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Report errors.
var (
	ErrUnknownField = errors.New("unknown report field")
	ErrNoData       = errors.New("no data available for the selected time range")
)

// FieldSummary is the records/reports statistics payload for one field over
// one range.
type FieldSummary struct {
	Field FieldInfo        `json:"field"`
	Range models.TimeRange `json:"range"`
	Stats Stats            `json:"stats"`
}

// ReportDocument is a rendered PDF plus the filename it should be saved as.
type ReportDocument struct {
	Filename string
	Content  []byte
}

type ReportService struct {
	readings Readings
	now      func() time.Time
}

func NewReportService(readings Readings) *ReportService {
	return &ReportService{readings: readings, now: time.Now}
}

var _ Reports = (*ReportService)(nil)

// Summary computes the field statistics over the range. An empty or fully
// null result set yields Stats with Defined=false, not an error.
func (s *ReportService) Summary(ctx context.Context, field models.Field, tr models.TimeRange) (FieldSummary, error) {
	if _, ok := models.ParseField(string(field)); !ok {
		return FieldSummary{}, ErrUnknownField
	}
	readings := s.readings.InRange(ctx, tr)
	return FieldSummary{
		Field: fieldInfo(field),
		Range: tr,
		Stats: Summarize(readings, field),
	}, nil
}

// PDF renders the summary document. Export is inert when the result set is
// empty: ErrNoData instead of an empty report.
func (s *ReportService) PDF(ctx context.Context, field models.Field, tr models.TimeRange) (ReportDocument, error) {
	if _, ok := models.ParseField(string(field)); !ok {
		return ReportDocument{}, ErrUnknownField
	}
	readings := s.readings.InRange(ctx, tr)
	if len(readings) == 0 {
		return ReportDocument{}, ErrNoData
	}

	now := s.now()
	content, err := renderReportPDF(fieldInfo(field), Summarize(readings, field), tr, now)
	if err != nil {
		return ReportDocument{}, fmt.Errorf("render report pdf: %w", err)
	}
	return ReportDocument{
		Filename: fmt.Sprintf("health-report-%s.pdf", now.Format("2006-01-02")),
		Content:  content,
	}, nil
}

// Fixed A4 layout: title, range and generation lines centered up top, the
// field analysis block at the left margin, disclaimer pinned near the bottom.
func renderReportPDF(fi FieldInfo, stats Stats, tr models.TimeRange, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; unit strings carry ° and need translating
	tl := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	tr = models.NewTimeRange(tr.Start, tr.End)

	const centerX = 105.0

	pdf.SetFont("Helvetica", "B", 22)
	textCentered(pdf, centerX, 20, "Health Monitoring Report")

	pdf.SetFont("Helvetica", "", 12)
	textCentered(pdf, centerX, 30, fmt.Sprintf("Date Range: %s - %s",
		tr.Start.Format("01/02/2006"), tr.End.Format("01/02/2006")))

	pdf.SetFont("Helvetica", "", 10)
	textCentered(pdf, centerX, 35, "Generated on: "+generatedAt.Format("1/2/2006, 3:04:05 PM"))

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(20, 45, fmt.Sprintf("%s Data Analysis", fi.Label))

	pdf.SetFont("Helvetica", "", 12)
	if stats.Defined {
		pdf.Text(20, 55, fmt.Sprintf("Number of Readings: %d", stats.Count))
		pdf.Text(20, 62, tl(fmt.Sprintf("Minimum: %.2f %s", stats.Min, fi.Unit)))
		pdf.Text(20, 69, tl(fmt.Sprintf("Maximum: %.2f %s", stats.Max, fi.Unit)))
		pdf.Text(20, 76, tl(fmt.Sprintf("Average: %.2f %s", stats.Mean, fi.Unit)))
		if fi.NormalRange != "" {
			pdf.Text(20, 83, tl("Normal Range: "+fi.NormalRange))
		}
	} else {
		pdf.Text(20, 55, "No data available for the selected sensor and time range")
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(20, 280, "Note: This report is generated for informational purposes only and is not a substitute for professional medical advice.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func textCentered(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}
