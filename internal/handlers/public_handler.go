package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberian/booking-api/internal/cache"
	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/httpresp"
	"github.com/barberian/booking-api/internal/models"
	usecase "github.com/barberian/booking-api/internal/usecase/appointment"
	"github.com/barberian/booking-api/internal/validators"
)

// ======================================================
// PUBLIC: catálogo, disponibilidade e booking
// ======================================================

// availabilityCache é o recorte do cache que as rotas públicas usam.
// *cache.Cache satisfaz a interface.
type availabilityCache interface {
	GetAvailability(ctx context.Context, staffID uint, date string, dest any) bool
	SetAvailability(ctx context.Context, staffID uint, date string, v any)
	InvalidateAvailability(ctx context.Context, staffID uint, date string)
}

var _ availabilityCache = (*cache.Cache)(nil)

type PublicHandler struct {
	db           *gorm.DB
	availability *usecase.GetAvailability
	book         *usecase.Book
	cache        availabilityCache
	loc          *time.Location
}

func NewPublicHandler(
	db *gorm.DB,
	availability *usecase.GetAvailability,
	book *usecase.Book,
	cache availabilityCache,
	loc *time.Location,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		availability: availability,
		book:         book,
		cache:        cache,
		loc:          loc,
	}
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	err := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		Where("active = ?", true).
		Order("category_id, name").
		Find(&services).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *PublicHandler) ListStaff(c *gin.Context) {
	var staff []models.User
	err := h.db.WithContext(c.Request.Context()).
		Select("id", "first_name", "last_name", "specialization", "bio").
		Where("role = ? AND active = ?", models.RoleStaff, true).
		Order("first_name").
		Find(&staff).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, staff)
}

type availabilityQuery struct {
	StaffID   uint   `form:"staff_id" binding:"required"`
	ServiceID uint   `form:"service_id" binding:"required"`
	Date      string `form:"date" binding:"required"`
}

func (h *PublicHandler) GetAvailability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Informe staff_id, service_id e date.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", q.Date, h.loc)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Data inválida (use AAAA-MM-DD).")
		return
	}

	ctx := c.Request.Context()

	// A chave do cache é staff+data (a grade não depende do serviço),
	// então um cache quente responderia para qualquer service_id. O
	// serviço é validado antes da consulta ao cache.
	var svc models.Service
	if err := h.db.WithContext(ctx).First(&svc, q.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, httperr.ErrBusiness(httperr.CodeInvalidService))
			return
		}
		writeError(c, err)
		return
	}
	if !svc.Active {
		writeError(c, httperr.ErrBusiness(httperr.CodeInvalidService))
		return
	}

	var cached usecase.AvailabilityResult
	if h.cache.GetAvailability(ctx, q.StaffID, q.Date, &cached) {
		httpresp.OK(c, &cached)
		return
	}

	result, err := h.availability.Execute(ctx, usecase.AvailabilityInput{
		StaffID:   q.StaffID,
		ServiceID: q.ServiceID,
		Date:      date,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.SetAvailability(ctx, q.StaffID, q.Date, result)
	httpresp.OK(c, result)
}

type bookRequest struct {
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

// Book atende convidado e autenticado na mesma rota (OptionalAuth):
// com token, os dados do convidado são ignorados.
func (h *PublicHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	if req.Phone != "" {
		phone, ok := validators.NormalizePhone(req.Phone)
		if !ok {
			httperr.BadRequest(c, httperr.CodeValidationError, "Telefone inválido.")
			return
		}
		req.Phone = phone
	}

	in := usecase.BookInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,

		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Notes:     req.Notes,

		InitialStatus: domain.StatusConfirmed,
	}

	if id := currentUserID(c); id != 0 {
		in.ClientID = &id
	}

	ap, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	h.cache.InvalidateAvailability(
		c.Request.Context(),
		ap.StaffID,
		ap.StartTime.In(h.loc).Format("2006-01-02"),
	)

	httpresp.Created(c, ap)
}
