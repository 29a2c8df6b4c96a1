package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/barberian/booking-api/internal/cache"
	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/httpresp"
	"github.com/barberian/booking-api/internal/middleware"
	"github.com/barberian/booking-api/internal/models"
	usecase "github.com/barberian/booking-api/internal/usecase/appointment"
)

// ======================================================
// STAFF: agenda do barbeiro
// ======================================================

type StaffHandler struct {
	repo         domain.Repository
	book         *usecase.Book
	updateStatus *usecase.UpdateStatus
	reschedule   *usecase.Reschedule
	cache        *cache.Cache
	loc          *time.Location
}

func NewStaffHandler(
	repo domain.Repository,
	book *usecase.Book,
	updateStatus *usecase.UpdateStatus,
	reschedule *usecase.Reschedule,
	cache *cache.Cache,
	loc *time.Location,
) *StaffHandler {
	return &StaffHandler{
		repo:         repo,
		book:         book,
		updateStatus: updateStatus,
		reschedule:   reschedule,
		cache:        cache,
		loc:          loc,
	}
}

// scopeStaffID: barbeiro só enxerga a própria agenda; admin (zero)
// enxerga qualquer uma, inclusive via query staff_id.
func (h *StaffHandler) scopeStaffID(c *gin.Context) uint {
	if c.GetString(middleware.ContextUserRole) == models.RoleAdmin {
		return 0
	}
	return currentUserID(c)
}

func (h *StaffHandler) DayAgenda(c *gin.Context) {
	dateStr := c.DefaultQuery("date", time.Now().In(h.loc).Format("2006-01-02"))

	date, err := time.ParseInLocation("2006-01-02", dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Data inválida (use AAAA-MM-DD).")
		return
	}

	staffID := h.scopeStaffID(c)
	if staffID == 0 {
		// Admin escolhe a agenda pela query.
		if v := c.Query("staff_id"); v != "" {
			parsed, err := strconv.ParseUint(v, 10, 64)
			if err != nil || parsed == 0 {
				httperr.BadRequest(c, httperr.CodeValidationError, "staff_id inválido.")
				return
			}
			staffID = uint(parsed)
		} else {
			staffID = currentUserID(c)
		}
	}

	dayStart := date
	dayEnd := date.AddDate(0, 0, 1)

	appointments, err := h.repo.ListAppointmentsForStaffDay(
		c.Request.Context(), staffID, dayStart, dayEnd,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, appointments)
}

type staffBookRequest struct {
	ClientID *uint `json:"client_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	ServiceID uint   `json:"service_id" binding:"required"`
	StaffID   *uint  `json:"staff_id"`
	Date      string `json:"date" binding:"required"`
	TimeSlot  string `json:"time_slot" binding:"required"`
	Notes     string `json:"notes"`
}

// CreateAppointment: agendamento aberto pelo balcão nasce pending e
// aguarda confirmação explícita.
func (h *StaffHandler) CreateAppointment(c *gin.Context) {
	var req staffBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	staffID := req.StaffID
	if h.scopeStaffID(c) != 0 {
		// Barbeiro agenda na própria agenda, sempre.
		id := currentUserID(c)
		staffID = &id
	}

	ap, err := h.book.Execute(c.Request.Context(), usecase.BookInput{
		ClientID:  req.ClientID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,

		ServiceID: req.ServiceID,
		StaffID:   staffID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Notes:     req.Notes,

		InitialStatus: domain.StatusPending,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateDay(c, ap)
	httpresp.Created(c, ap)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *StaffHandler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Informe o status desejado.")
		return
	}

	ap, err := h.updateStatus.Execute(
		c.Request.Context(),
		h.scopeStaffID(c),
		id,
		domain.Status(req.Status),
	)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateDay(c, ap)
	httpresp.OK(c, ap)
}

type rescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *StaffHandler) RescheduleAppointment(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Informe date e time.")
		return
	}

	// O dia antigo também precisa sair do cache.
	var oldDay string
	if prev, err := h.repo.GetAppointment(c.Request.Context(), id); err == nil {
		oldDay = prev.StartTime.In(h.loc).Format("2006-01-02")
	}

	ap, err := h.reschedule.Execute(
		c.Request.Context(),
		h.scopeStaffID(c),
		id,
		req.Date,
		req.Time,
	)
	if err != nil {
		writeError(c, err)
		return
	}

	if oldDay != "" {
		h.cache.InvalidateAvailability(c.Request.Context(), ap.StaffID, oldDay)
	}
	h.invalidateDay(c, ap)
	httpresp.OK(c, ap)
}

func (h *StaffHandler) invalidateDay(c *gin.Context, ap *models.Appointment) {
	h.cache.InvalidateAvailability(
		c.Request.Context(),
		ap.StaffID,
		ap.StartTime.In(h.loc).Format("2006-01-02"),
	)
}
