package reports

import "time"

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// ValidFormat accepts "xlsx" as an alias of excel.
func ValidFormat(f string) (string, bool) {
	switch f {
	case FormatCSV, FormatPDF:
		return f, true
	case FormatExcel, "xlsx":
		return FormatExcel, true
	}
	return "", false
}

// RosterRow is one registration in an event roster export.
type RosterRow struct {
	RegistrationID      string
	Name                string
	Email               string
	Phone               string
	Status              string
	PaymentStatus       string
	PaymentAmount       float64
	PaymentMethod       string
	RegisteredAt        time.Time
	SpecialRequirements string
	EmergencyContact    string
}

// Roster is an event's registrations ready for export.
type Roster struct {
	EventTitle string
	EventDate  time.Time
	Location   string
	Capacity   int
	Booked     int
	Rows       []RosterRow
}

// Ticket is the printable confirmation for one registration.
type Ticket struct {
	RegistrationID   string
	HolderName       string
	HolderEmail      string
	EventTitle       string
	EventDate        time.Time
	Location         string
	Duration         float64
	Status           string
	PaymentStatus    string
	PaymentAmount    float64
	RegisteredAt     time.Time
	EmergencyContact string
}

// File is an export ready to be written to the response.
type File struct {
	Data     []byte
	Filename string
	MimeType string
}
