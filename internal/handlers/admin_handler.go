package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/httpresp"
	"github.com/barberian/booking-api/internal/models"
)

// ======================================================
// ADMIN: calendário e catálogo
// ======================================================

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// -------- Horário de funcionamento --------

func (h *AdminHandler) ListBusinessHours(c *gin.Context) {
	var hours []models.BusinessHours
	err := h.db.WithContext(c.Request.Context()).
		Order("day_of_week").
		Find(&hours).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, hours)
}

type businessHoursRequest struct {
	DayOfWeek   *int   `json:"day_of_week" binding:"required"`
	IsOpen      bool   `json:"is_open"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

func (h *AdminHandler) UpsertBusinessHours(c *gin.Context) {
	var req businessHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		httperr.BadRequest(c, httperr.CodeValidationError, "day_of_week deve estar entre 0 (domingo) e 6.")
		return
	}

	if req.IsOpen {
		open, err1 := time.Parse("15:04", req.OpeningTime)
		closing, err2 := time.Parse("15:04", req.ClosingTime)
		if err1 != nil || err2 != nil {
			httperr.BadRequest(c, httperr.CodeValidationError, "Horários devem estar no formato HH:MM.")
			return
		}
		if !open.Before(closing) {
			httperr.BadRequest(c, httperr.CodeValidationError, "Abertura deve ser antes do fechamento.")
			return
		}
	}

	row := models.BusinessHours{
		DayOfWeek:   *req.DayOfWeek,
		IsOpen:      req.IsOpen,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
	}

	err := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_open", "opening_time", "closing_time"}),
		}).
		Create(&row).Error
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, &row)
}

// -------- Feriados --------

func (h *AdminHandler) ListHolidays(c *gin.Context) {
	var holidays []models.Holiday
	err := h.db.WithContext(c.Request.Context()).
		Order("date").
		Find(&holidays).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, holidays)
}

type holidayRequest struct {
	Name        string `json:"name" binding:"required"`
	Date        string `json:"date" binding:"required"`
	IsRecurring bool   `json:"is_recurring"`
}

func (h *AdminHandler) CreateHoliday(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Data inválida (use AAAA-MM-DD).")
		return
	}

	holiday := models.Holiday{
		Name:        req.Name,
		Date:        date,
		IsRecurring: req.IsRecurring,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&holiday).Error; err != nil {
		writeError(c, err)
		return
	}
	httpresp.Created(c, &holiday)
}

func (h *AdminHandler) DeleteHoliday(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Holiday{}, id)
	if res.Error != nil {
		writeError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, httperr.CodeNotFound, "Feriado não encontrado.")
		return
	}
	httpresp.OK(c, gin.H{"deleted": true})
}

// -------- Catálogo --------

func (h *AdminHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	err := h.db.WithContext(c.Request.Context()).
		Order("name").
		Find(&categories).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, categories)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.db.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		writeError(c, err)
		return
	}
	httpresp.Created(c, &category)
}

func (h *AdminHandler) ListAllServices(c *gin.Context) {
	var services []models.Service
	err := h.db.WithContext(c.Request.Context()).
		Preload("Category").
		Order("category_id, name").
		Find(&services).Error
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, services)
}

type serviceRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required"`
	Price       float64 `json:"price"`
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DurationMin <= 0 {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	service := models.Service{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		writeError(c, err)
		return
	}
	httpresp.Created(c, &service)
}

type serviceUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Active      *bool    `json:"active"`
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	var req serviceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&service, id).Error; err != nil {
		httperr.NotFound(c, httperr.CodeNotFound, "Serviço não encontrado.")
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, httperr.CodeValidationError, "duration_min deve ser positivo.")
			return
		}
		updates["duration_min"] = *req.DurationMin
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Model(&service).
			Updates(updates).Error; err != nil {
			writeError(c, err)
			return
		}
	}

	httpresp.OK(c, &service)
}
