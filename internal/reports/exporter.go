package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders rosters and tickets.
type Exporter interface {
	ExportRoster(format string, r Roster) (*File, error)
	Ticket(t Ticket) (*File, error)
}

type exporter struct {
	now func() time.Time
}

func NewExporter() Exporter {
	return &exporter{now: time.Now}
}

var rosterHeaders = []string{
	"Registration ID", "Name", "Email", "Phone", "Status", "Payment Status",
	"Amount", "Method", "Registered At", "Special Requirements", "Emergency Contact",
}

const timeLayout = "2006-01-02 15:04:05"

func (row RosterRow) values() []string {
	return []string{
		row.RegistrationID,
		row.Name,
		row.Email,
		row.Phone,
		row.Status,
		row.PaymentStatus,
		fmt.Sprintf("%.2f", row.PaymentAmount),
		row.PaymentMethod,
		row.RegisteredAt.Format(timeLayout),
		row.SpecialRequirements,
		row.EmergencyContact,
	}
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	s = strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(s), "_"), "_")
	if s == "" {
		return "event"
	}
	return s
}

func (e *exporter) ExportRoster(format string, r Roster) (*File, error) {
	base := fmt.Sprintf("%s_registrations_%s", slug(r.EventTitle), e.now().Format("20060102_150405"))

	switch format {
	case FormatCSV:
		data, err := e.rosterCSV(r)
		if err != nil {
			return nil, err
		}
		return &File{Data: data, Filename: base + ".csv", MimeType: "text/csv"}, nil

	case FormatExcel:
		data, err := e.rosterExcel(r)
		if err != nil {
			return nil, err
		}
		return &File{Data: data, Filename: base + ".xlsx", MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}, nil

	case FormatPDF:
		data, err := e.rosterPDF(r)
		if err != nil {
			return nil, err
		}
		return &File{Data: data, Filename: base + ".pdf", MimeType: "application/pdf"}, nil

	default:
		return nil, fmt.Errorf("unsupported format for roster: %s", format)
	}
}

func (e *exporter) rosterCSV(r Roster) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(rosterHeaders); err != nil {
		return nil, err
	}
	for _, row := range r.Rows {
		if err := writer.Write(row.values()); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) rosterExcel(r Roster) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Registrations"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range rosterHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	for i, row := range r.Rows {
		for j, v := range row.values() {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if j == 6 {
				f.SetCellValue(sheetName, cell, row.PaymentAmount)
				continue
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) rosterPDF(r Roster) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, r.EventTitle+" - Registrations")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("%s | %s | %d / %d booked",
		r.EventDate.Format("02 Jan 2006 15:04"), r.Location, r.Booked, r.Capacity))
	pdf.Ln(12)

	// the PDF drops ID, special requirements and contact to fit the page
	headers := []string{"Name", "Email", "Phone", "Status", "Payment", "Amount", "Method", "Registered At"}
	widths := []float64{40, 60, 30, 25, 25, 22, 28, 37}

	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range r.Rows {
		values := []string{
			row.Name,
			row.Email,
			row.Phone,
			row.Status,
			row.PaymentStatus,
			fmt.Sprintf("%.2f", row.PaymentAmount),
			row.PaymentMethod,
			row.RegisteredAt.Format(timeLayout),
		}
		for i, v := range values {
			pdf.CellFormat(widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *exporter) Ticket(t Ticket) (*File, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 12, "Event Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 14)
	pdf.MultiCell(0, 8, t.EventTitle, "", "C", false)
	pdf.Ln(4)

	lines := [][2]string{
		{"Ticket No.", t.RegistrationID},
		{"Name", t.HolderName},
		{"Email", t.HolderEmail},
		{"Date", t.EventDate.Format("Mon, 02 Jan 2006 15:04")},
		{"Location", t.Location},
		{"Duration", fmt.Sprintf("%.1f hours", t.Duration)},
		{"Status", t.Status},
		{"Payment", fmt.Sprintf("%s (%.2f INR)", t.PaymentStatus, t.PaymentAmount)},
		{"Registered", t.RegisteredAt.Format("02 Jan 2006")},
	}
	if t.EmergencyContact != "" {
		lines = append(lines, [2]string{"Emergency", t.EmergencyContact})
	}

	for _, l := range lines {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 7, l[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 7, l[1], "", "L", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 5, "Please carry this ticket and a photo ID to the meeting point.", "", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &File{
		Data:     buf.Bytes(),
		Filename: fmt.Sprintf("ticket_%s.pdf", t.RegistrationID),
		MimeType: "application/pdf",
	}, nil
}
