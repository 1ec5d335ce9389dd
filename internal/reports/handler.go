package reports

import (
	"fmt"
	"net/http"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/middleware"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

func sendFile(c *gin.Context, f *File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", f.Filename))
	c.Data(http.StatusOK, f.MimeType, f.Data)
}

// ExportRegistrations godoc
// @Summary Export an event's registrations
// @Tags Admin Registrations
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param format query string false "csv | excel | pdf (default csv)"
// @Success 200 {file} file
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/admin/events/{id}/registrations/export [get]
func (h *Handler) ExportRegistrations(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	file, err := h.Service.ExportRoster(c.Request.Context(), admin.ID, eventID, c.DefaultQuery("format", FormatCSV), middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	sendFile(c, file)
}

// DownloadTicket godoc
// @Summary Download my ticket
// @Tags Registrations
// @Produce application/pdf
// @Security BearerAuth
// @Param rid path string true "Registration ID"
// @Success 200 {file} file
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/user/registrations/{rid}/ticket [get]
func (h *Handler) DownloadTicket(c *gin.Context) {
	regID, ok := utils.PathID(c, "rid", registration.ErrRegistrationNotFound)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(c)
	file, err := h.Service.Ticket(c.Request.Context(), user.ID, regID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	sendFile(c, file)
}
