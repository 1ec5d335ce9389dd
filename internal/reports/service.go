package reports

import (
	"context"
	"strings"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
)

var (
	ErrUnsupportedFormat = utils.Validation("Unsupported format. Use csv, excel or pdf")
	ErrNoTicket          = utils.Validation("No ticket is available for a cancelled registration")
)

type Service interface {
	ExportRoster(ctx context.Context, adminID, eventID, format, ip string) (*File, error)
	Ticket(ctx context.Context, userID, registrationID string) (*File, error)
}

type service struct {
	regs     registration.Service
	exporter Exporter
	audit    auditlog.Service
}

func NewService(regs registration.Service, exporter Exporter, audit auditlog.Service) Service {
	return &service{regs: regs, exporter: exporter, audit: audit}
}

func contactLine(c registration.EmergencyContact) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Phone, c.Relationship} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (s *service) ExportRoster(ctx context.Context, adminID, eventID, format, ip string) (*File, error) {
	format, ok := ValidFormat(strings.ToLower(format))
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	ev, regs, err := s.regs.Roster(ctx, adminID, eventID)
	if err != nil {
		return nil, err
	}

	roster := Roster{
		EventTitle: ev.Title,
		EventDate:  ev.Date,
		Location:   ev.Location,
		Capacity:   ev.MaxParticipants,
		Booked:     ev.CurrentParticipants,
		Rows:       make([]RosterRow, 0, len(regs)),
	}
	for _, r := range regs {
		row := RosterRow{
			RegistrationID:      r.ID,
			Status:              string(r.Status),
			PaymentStatus:       string(r.PaymentStatus),
			PaymentAmount:       r.PaymentAmount,
			PaymentMethod:       string(r.PaymentMethod),
			RegisteredAt:        r.RegistrationDate,
			SpecialRequirements: r.SpecialRequirements,
			EmergencyContact:    contactLine(r.EmergencyContact.Data()),
		}
		if r.User != nil {
			row.Name, row.Email, row.Phone = r.User.Name, r.User.Email, r.User.Phone
		}
		roster.Rows = append(roster.Rows, row)
	}

	file, err := s.exporter.ExportRoster(format, roster)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		_ = s.audit.LogAction(ctx, &adminID, &eventID, "REGISTRATIONS_EXPORTED", map[string]interface{}{
			"format": format,
			"rows":   len(roster.Rows),
		}, ip, "success")
	}
	return file, nil
}

func (s *service) Ticket(ctx context.Context, userID, registrationID string) (*File, error) {
	reg, err := s.regs.GetMine(ctx, userID, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.Status == registration.StatusCancelled {
		return nil, ErrNoTicket
	}
	if reg.Event == nil {
		return nil, registration.ErrRegistrationNotFound
	}

	t := Ticket{
		RegistrationID:   reg.ID,
		EventTitle:       reg.Event.Title,
		EventDate:        reg.Event.Date,
		Location:         reg.Event.Location,
		Duration:         reg.Event.Duration,
		Status:           string(reg.Status),
		PaymentStatus:    string(reg.PaymentStatus),
		PaymentAmount:    reg.PaymentAmount,
		RegisteredAt:     reg.RegistrationDate,
		EmergencyContact: contactLine(reg.EmergencyContact.Data()),
	}
	if reg.User != nil {
		t.HolderName, t.HolderEmail = reg.User.Name, reg.User.Email
	}
	return s.exporter.Ticket(t)
}
