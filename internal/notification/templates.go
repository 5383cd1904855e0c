package notification

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template names double as the audit-log template keys, so resend can
// route a historical entry back to its renderer.
const (
	TemplateBookingConfirmed  = "booking-confirmed"
	TemplateCollectorAssigned = "collector-assigned"
	TemplateSampleCollected   = "sample-collected"
	TemplateReportReady       = "report-ready"
)

// One data struct per template: the renderer accepts nothing outside
// this closed field set, so a stray placeholder is a compile/parse
// failure instead of a silently unresolved marker.

type BookingConfirmedData struct {
	PatientName  string
	BookingRef   string
	BookingDate  string
	TimeSlot     string
	Address      string
	Phone        string
	Tests        []TestLine
	TotalAmount  float64
	DashboardURL string
}

type CollectorAssignedData struct {
	PatientName    string
	BookingRef     string
	BookingDate    string
	TimeSlot       string
	Address        string
	CollectorName  string
	CollectorPhone string
	CollectorArea  string
	DashboardURL   string
}

type SampleCollectedData struct {
	PatientName  string
	BookingRef   string
	CollectedAt  string
	DashboardURL string
}

type ReportReadyData struct {
	PatientName  string
	BookingRef   string
	CompletedAt  string
	Tests        []TestLine
	ReportURL    string
	ReportNotes  string
	DashboardURL string
}

type TestLine struct {
	Name  string
	Price float64
}

func render(name string, data interface{}) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name+".html", data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return sb.String(), nil
}

func formatDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

func formatDateTime(t time.Time) string {
	return t.Format("Monday, 2 January 2006, 3:04 PM")
}

func joinAddress(line1 string, line2 *string, city, pincode string) string {
	parts := []string{line1}
	if line2 != nil && *line2 != "" {
		parts = append(parts, *line2)
	}
	parts = append(parts, city+" - "+pincode)
	return strings.Join(parts, ", ")
}
