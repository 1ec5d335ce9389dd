package event

import (
	"context"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/middleware"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

// RegistrationLookup lets the public detail view show the caller's own
// registration without this package depending on the registration ledger.
type RegistrationLookup interface {
	FindForUserAndEvent(ctx context.Context, userID, eventID string) (any, error)
}

type Handler struct {
	Service       Service
	Registrations RegistrationLookup
}

func NewHandler(s Service, lookup RegistrationLookup) *Handler {
	return &Handler{Service: s, Registrations: lookup}
}

type eventReq struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Category        Category     `json:"category" binding:"omitempty,eventcategory"`
	Date            *time.Time   `json:"date"`
	Location        string       `json:"location"`
	Coordinates     *Coordinates `json:"coordinates"`
	Images          []Image      `json:"images"`
	MaxParticipants *int         `json:"maxParticipants" binding:"omitempty,min=1"`
	Price           *float64     `json:"price" binding:"omitempty,min=0"`
	Duration        *float64     `json:"duration" binding:"omitempty,min=0.5"`
	Difficulty      Difficulty   `json:"difficulty" binding:"omitempty,difficulty"`
	Requirements    []string     `json:"requirements"`
	Highlights      []string     `json:"highlights"`
	Organizer       *Organizer   `json:"organizer"`
	IsActive        *bool        `json:"isActive"`
}

func (r eventReq) input() Input {
	return Input{
		Title:           r.Title,
		Description:     r.Description,
		Category:        r.Category,
		Date:            r.Date,
		Location:        r.Location,
		Coordinates:     r.Coordinates,
		Images:          r.Images,
		MaxParticipants: r.MaxParticipants,
		Price:           r.Price,
		Duration:        r.Duration,
		Difficulty:      r.Difficulty,
		Requirements:    r.Requirements,
		Highlights:      r.Highlights,
		Organizer:       r.Organizer,
		IsActive:        r.IsActive,
	}
}

func listQuery(c *gin.Context, defaultLimit int) ListQuery {
	return ListQuery{
		Page:      utils.ParsePage(c, defaultLimit),
		Search:    c.Query("search"),
		Category:  Category(c.Query("category")),
		Status:    c.Query("status"),
		SortBy:    c.DefaultQuery("sortBy", "date"),
		SortOrder: c.DefaultQuery("sortOrder", "asc"),
	}
}

// ===========================
// 🌿 Public catalog
// ===========================

// ListEvents godoc
// @Summary List upcoming eco events
// @Tags Events
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 12)"
// @Param search query string false "Search title, description, location"
// @Param category query string false "Category"
// @Param status query string false "Status (default upcoming, 'all' for any)"
// @Param sortBy query string false "date | price | title | createdAt"
// @Param sortOrder query string false "asc | desc"
// @Success 200 {object} utils.Envelope
// @Router /api/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	result, err := h.Service.List(c.Request.Context(), listQuery(c, publicPageSize))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", result)
}

// GetEvent returns an active event; an authenticated caller also gets
// their own registration for it.
func (h *Handler) GetEvent(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", ErrEventNotFound)
	if !ok {
		return
	}
	e, err := h.Service.GetPublic(c.Request.Context(), eventID)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	data := gin.H{"event": e}
	if user, ok := auth.CurrentUser(c); ok && h.Registrations != nil {
		if reg, err := h.Registrations.FindForUserAndEvent(c.Request.Context(), user.ID, e.ID); err == nil {
			data["userRegistration"] = reg
		}
	}
	utils.OK(c, "", data)
}

// ===========================
// 🛠 Admin
// ===========================

func (h *Handler) Dashboard(c *gin.Context) {
	admin, _ := auth.CurrentUser(c)
	dash, err := h.Service.Dashboard(c.Request.Context(), admin.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", dash)
}

func (h *Handler) ListOwned(c *gin.Context) {
	admin, _ := auth.CurrentUser(c)
	result, err := h.Service.ListOwned(c.Request.Context(), admin.ID, listQuery(c, 10))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", result)
}

func (h *Handler) GetOwned(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", ErrEventNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	e, err := h.Service.GetOwned(c.Request.Context(), admin.ID, eventID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", gin.H{"event": e})
}

// CreateEvent godoc
// @Summary Create an event
// @Tags Admin Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /api/admin/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	admin, _ := auth.CurrentUser(c)

	e, err := h.Service.Create(c.Request.Context(), admin.ID, req.input(), middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Event created successfully", gin.H{"event": e})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", ErrEventNotFound)
	if !ok {
		return
	}
	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	admin, _ := auth.CurrentUser(c)

	e, err := h.Service.Update(c.Request.Context(), admin.ID, eventID, req.input(), middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Event updated successfully", gin.H{"event": e})
}

type progressReq struct {
	Progress *float64 `json:"progress" binding:"required"`
}

// UpdateProgress godoc
// @Summary Set event progress (0-100)
// @Tags Admin Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/admin/events/{id}/progress [patch]
func (h *Handler) UpdateProgress(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", ErrEventNotFound)
	if !ok {
		return
	}
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, ErrInvalidProgress)
		return
	}
	admin, _ := auth.CurrentUser(c)

	e, err := h.Service.UpdateProgress(c.Request.Context(), admin.ID, eventID, *req.Progress, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Event progress updated successfully", gin.H{"event": e})
}

type statusReq struct {
	Status Status `json:"status" binding:"required,eventstatus"`
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", ErrEventNotFound)
	if !ok {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, ErrInvalidStatus)
		return
	}
	admin, _ := auth.CurrentUser(c)

	e, err := h.Service.UpdateStatus(c.Request.Context(), admin.ID, eventID, req.Status, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Event status updated successfully", gin.H{"event": e})
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", ErrEventNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	if err := h.Service.Delete(c.Request.Context(), admin.ID, eventID, middleware.GetIPFromContext(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Event deleted successfully", nil)
}
