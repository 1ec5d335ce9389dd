package event

import (
	"context"
	"strings"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"gorm.io/datatypes"
)

type Service interface {
	// public catalog
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	GetPublic(ctx context.Context, id string) (*Event, error)

	// admin, scoped to events the caller created
	Dashboard(ctx context.Context, adminID string) (*Dashboard, error)
	ListOwned(ctx context.Context, adminID string, q ListQuery) (*ListResult, error)
	GetOwned(ctx context.Context, adminID, id string) (*Event, error)
	Create(ctx context.Context, adminID string, in Input, ip string) (*Event, error)
	Update(ctx context.Context, adminID, id string, in Input, ip string) (*Event, error)
	UpdateProgress(ctx context.Context, adminID, id string, progress float64, ip string) (*Event, error)
	UpdateStatus(ctx context.Context, adminID, id string, status Status, ip string) (*Event, error)
	Delete(ctx context.Context, adminID, id string, ip string) error
}

type service struct {
	repo  Repository
	audit auditlog.Service
	now   func() time.Time
}

func NewService(repo Repository, audit auditlog.Service) Service {
	return &service{repo: repo, audit: audit, now: time.Now}
}

const publicPageSize = 12

type ListQuery struct {
	Page      utils.Page
	Search    string
	Category  Category
	Status    string // "" uses the default, "all" disables the filter
	SortBy    string
	SortOrder string // "asc" | "desc"
}

type ListResult struct {
	Events     []Event          `json:"events"`
	Pagination utils.Pagination `json:"pagination"`
	Categories []Category       `json:"categories"`
}

type Dashboard struct {
	Stats        *Stats  `json:"stats"`
	RecentEvents []Event `json:"recentEvents"`
}

// Input is an admin create/update payload. Nil pointers and zero values
// mean "not provided" on update.
type Input struct {
	Title           string
	Description     string
	Category        Category
	Date            *time.Time
	Location        string
	Coordinates     *Coordinates
	Images          []Image
	MaxParticipants *int
	Price           *float64
	Duration        *float64
	Difficulty      Difficulty
	Requirements    []string
	Highlights      []string
	Organizer       *Organizer
	IsActive        *bool
}

func (q ListQuery) filter(defaultStatus Status) Filter {
	f := Filter{
		Search:   strings.TrimSpace(q.Search),
		Category: q.Category,
		SortBy:   q.SortBy,
		SortDesc: strings.EqualFold(q.SortOrder, "desc"),
		Limit:    q.Page.Limit,
		Offset:   q.Page.Offset(),
	}
	switch q.Status {
	case "":
		f.Status = defaultStatus
	case "all":
	default:
		f.Status = Status(q.Status)
	}
	return f
}

// ===========================
// Public catalog
// ===========================

func (s *service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page.Limit <= 0 {
		q.Page = utils.Page{Number: max(q.Page.Number, 1), Limit: publicPageSize}
	}
	f := q.filter(StatusUpcoming)
	f.OnlyActive = true
	return s.list(ctx, f, q.Page)
}

func (s *service) GetPublic(ctx context.Context, id string) (*Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsActive {
		return nil, ErrEventUnavailable
	}
	return e, nil
}

func (s *service) list(ctx context.Context, f Filter, page utils.Page) (*ListResult, error) {
	events, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	cats, err := s.repo.DistinctCategories(ctx, Filter{OnlyActive: f.OnlyActive, CreatedBy: f.CreatedBy})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []Event{}
	}
	return &ListResult{
		Events:     events,
		Pagination: utils.NewPagination(page, total),
		Categories: cats,
	}, nil
}

// ===========================
// Admin
// ===========================

func (s *service) Dashboard(ctx context.Context, adminID string) (*Dashboard, error) {
	stats, err := s.repo.Stats(ctx, adminID, s.now())
	if err != nil {
		return nil, err
	}
	recent, _, err := s.repo.List(ctx, Filter{CreatedBy: adminID, SortBy: "createdAt", SortDesc: true, Limit: 5})
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, RecentEvents: recent}, nil
}

func (s *service) ListOwned(ctx context.Context, adminID string, q ListQuery) (*ListResult, error) {
	if q.Status == "" {
		q.Status = "all"
	}
	if q.SortBy == "" {
		q.SortBy, q.SortOrder = "createdAt", "desc"
	}
	f := q.filter("")
	f.CreatedBy = adminID
	return s.list(ctx, f, q.Page)
}

func (s *service) GetOwned(ctx context.Context, adminID, id string) (*Event, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.CreatedBy != adminID {
		return nil, ErrEventNotFound
	}
	n, err := s.repo.CountRegistrations(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.RegistrationCount = n
	return e, nil
}

func (s *service) Create(ctx context.Context, adminID string, in Input, ip string) (*Event, error) {
	if in.Date == nil || in.MaxParticipants == nil || in.Price == nil || in.Duration == nil || in.Category == "" {
		return nil, utils.Validation("Missing required fields")
	}
	if !in.Date.After(s.now()) {
		return nil, ErrDateNotInFuture
	}

	e := &Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Category:        in.Category,
		Date:            in.Date.UTC(),
		Location:        strings.TrimSpace(in.Location),
		Images:          datatypes.NewJSONSlice(nonNil(in.Images)),
		MaxParticipants: *in.MaxParticipants,
		Price:           *in.Price,
		Duration:        *in.Duration,
		Difficulty:      DifficultyModerate,
		Status:          StatusUpcoming,
		Requirements:    datatypes.NewJSONSlice(nonNil(in.Requirements)),
		Highlights:      datatypes.NewJSONSlice(nonNil(in.Highlights)),
		CreatedBy:       adminID,
		IsActive:        true,
	}
	if in.Difficulty != "" {
		e.Difficulty = in.Difficulty
	}
	if in.Coordinates != nil {
		c := datatypes.NewJSONType(*in.Coordinates)
		e.Coordinates = &c
	}
	if in.Organizer != nil {
		e.Organizer = datatypes.NewJSONType(*in.Organizer)
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		s.log(ctx, adminID, "", "EVENT_CREATED", map[string]interface{}{"title": e.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.log(ctx, adminID, e.ID, "EVENT_CREATED", map[string]interface{}{"title": e.Title}, ip, "success")
	return e, nil
}

// Update applies the provided fields. Once any registration exists the
// capacity and price are kept as they are.
func (s *service) Update(ctx context.Context, adminID, id string, in Input, ip string) (*Event, error) {
	e, err := s.GetOwned(ctx, adminID, id)
	if err != nil {
		return nil, err
	}

	locked := e.RegistrationCount > 0
	var ignored []string

	if v := strings.TrimSpace(in.Title); v != "" {
		e.Title = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		e.Description = v
	}
	if in.Category != "" {
		e.Category = in.Category
	}
	if in.Date != nil && !in.Date.Equal(e.Date) {
		if !in.Date.After(s.now()) {
			return nil, ErrDateNotInFuture
		}
		e.Date = in.Date.UTC()
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		e.Location = v
	}
	if in.Coordinates != nil {
		c := datatypes.NewJSONType(*in.Coordinates)
		e.Coordinates = &c
	}
	if in.Images != nil {
		e.Images = datatypes.NewJSONSlice(in.Images)
	}
	if in.MaxParticipants != nil {
		if locked {
			ignored = append(ignored, "maxParticipants")
		} else {
			e.MaxParticipants = *in.MaxParticipants
		}
	}
	if in.Price != nil {
		if locked {
			ignored = append(ignored, "price")
		} else {
			e.Price = *in.Price
		}
	}
	if in.Duration != nil {
		e.Duration = *in.Duration
	}
	if in.Difficulty != "" {
		e.Difficulty = in.Difficulty
	}
	if in.Requirements != nil {
		e.Requirements = datatypes.NewJSONSlice(in.Requirements)
	}
	if in.Highlights != nil {
		e.Highlights = datatypes.NewJSONSlice(in.Highlights)
	}
	if in.Organizer != nil {
		e.Organizer = datatypes.NewJSONType(*in.Organizer)
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, e); err != nil {
		s.log(ctx, adminID, e.ID, "EVENT_UPDATED", map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	details := map[string]interface{}{"title": e.Title}
	if len(ignored) > 0 {
		details["ignored_fields"] = ignored
	}
	s.log(ctx, adminID, e.ID, "EVENT_UPDATED", details, ip, "success")
	return s.GetOwned(ctx, adminID, id)
}

func (s *service) UpdateProgress(ctx context.Context, adminID, id string, progress float64, ip string) (*Event, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}
	e, err := s.GetOwned(ctx, adminID, id)
	if err != nil {
		return nil, err
	}

	e.SetProgress(int(progress + 0.5))
	if err := s.repo.UpdateFields(ctx, e.ID, map[string]interface{}{"progress": e.Progress}); err != nil {
		return nil, err
	}
	s.log(ctx, adminID, e.ID, "EVENT_PROGRESS_UPDATED", map[string]interface{}{"progress": e.Progress}, ip, "success")
	return e, nil
}

func (s *service) UpdateStatus(ctx context.Context, adminID, id string, status Status, ip string) (*Event, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	e, err := s.GetOwned(ctx, adminID, id)
	if err != nil {
		return nil, err
	}

	from := e.Status
	e.Status = status
	if err := s.repo.UpdateFields(ctx, e.ID, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	s.log(ctx, adminID, e.ID, "EVENT_STATUS_UPDATED", map[string]interface{}{"from": from, "to": status}, ip, "success")
	return e, nil
}

func (s *service) Delete(ctx context.Context, adminID, id string, ip string) error {
	e, err := s.GetOwned(ctx, adminID, id)
	if err != nil {
		return err
	}
	if e.RegistrationCount > 0 {
		s.log(ctx, adminID, e.ID, "EVENT_DELETED", map[string]interface{}{"reason": "has registrations"}, ip, "failure")
		return ErrHasRegistrations
	}
	// registrations FK (RESTRICT) backstops a registration racing the delete
	if err := s.repo.Delete(ctx, e.ID); err != nil {
		return err
	}
	s.log(ctx, adminID, e.ID, "EVENT_DELETED", map[string]interface{}{"title": e.Title}, ip, "success")
	return nil
}

func (s *service) log(ctx context.Context, userID, eventID, action string, details map[string]interface{}, ip, status string) {
	if s.audit == nil {
		return
	}
	var eid *string
	if eventID != "" {
		eid = &eventID
	}
	_ = s.audit.LogAction(ctx, &userID, eid, action, details, ip, status)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
