package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/barberian/booking-api/internal/config"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/httpresp"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/validators"
)

// ======================================================
// AUTH
// ======================================================

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, httperr.CodeValidationError, "Domínio de e-mail inválido.")
		return
	}

	var count int64
	h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "email_taken", "Este e-mail já está cadastrado.")
		return
	}

	phone, ok := validators.NormalizePhone(req.Phone)
	if !ok {
		httperr.BadRequest(c, httperr.CodeValidationError, "Telefone inválido.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(c, err)
		return
	}

	user := models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
		Active:       true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		writeError(c, err)
		return
	}

	token, err := h.signToken(&user)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, authResponse{Token: token, User: &user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeValidationError, "Dados inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		Where("email = ? AND active = ?", email, true).
		First(&user).Error
	if err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha incorretos.")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha incorretos.")
		return
	}

	token, err := h.signToken(&user)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, authResponse{Token: token, User: &user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	var user models.User
	err := h.db.WithContext(c.Request.Context()).
		First(&user, currentUserID(c)).Error
	if err != nil {
		httperr.NotFound(c, httperr.CodeNotFound, "Usuário não encontrado.")
		return
	}
	httpresp.OK(c, &user)
}

func (h *AuthHandler) signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
