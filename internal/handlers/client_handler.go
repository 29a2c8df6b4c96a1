package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberian/booking-api/internal/cache"
	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/httpresp"
	"github.com/barberian/booking-api/internal/models"
	usecase "github.com/barberian/booking-api/internal/usecase/appointment"
)

// ======================================================
// CLIENT: agendamentos do próprio cliente e notificações
// ======================================================

type ClientHandler struct {
	db     *gorm.DB
	repo   domain.Repository
	cancel *usecase.CancelByClient
	cache  *cache.Cache
	loc    *time.Location
}

func NewClientHandler(
	db *gorm.DB,
	repo domain.Repository,
	cancel *usecase.CancelByClient,
	cache *cache.Cache,
	loc *time.Location,
) *ClientHandler {
	return &ClientHandler{
		db:     db,
		repo:   repo,
		cancel: cancel,
		cache:  cache,
		loc:    loc,
	}
}

func (h *ClientHandler) ListAppointments(c *gin.Context) {
	appointments, err := h.repo.ListAppointmentsForClient(
		c.Request.Context(),
		currentUserID(c),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, appointments)
}

func (h *ClientHandler) GetAppointment(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	ap, err := h.repo.GetAppointment(c.Request.Context(), id)
	if err != nil || ap.ClientID != currentUserID(c) {
		httperr.NotFound(c, httperr.CodeNotFound, "Agendamento não encontrado.")
		return
	}
	httpresp.OK(c, ap)
}

func (h *ClientHandler) CancelAppointment(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	now := time.Now().In(h.loc)

	ap, err := h.cancel.Execute(c.Request.Context(), currentUserID(c), id, now)
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.InvalidateAvailability(
		c.Request.Context(),
		ap.StaffID,
		ap.StartTime.In(h.loc).Format("2006-01-02"),
	)

	httpresp.OK(c, ap)
}

func (h *ClientHandler) ListNotifications(c *gin.Context) {
	var notifications []models.Notification
	err := h.db.WithContext(c.Request.Context()).
		Where("recipient_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, notifications)
}

func (h *ClientHandler) MarkNotificationRead(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, currentUserID(c)).
		Update("is_read", true)
	if res.Error != nil {
		writeError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeNotFound, "Notificação não encontrada.")
		return
	}

	httpresp.OK(c, gin.H{"updated": true})
}
