package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/barberian/booking-api/internal/config"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func parseToken(cfg *config.Config, c *gin.Context) (uint, string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return 0, "", false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}

	userID, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", false
	}
	role, _ := claims["role"].(string)

	return uint(userID), role, true
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, role, ok := parseToken(cfg, c)
		if !ok {
			c.Abort()
			httperr.Unauthorized(c, "invalid_token", "Token ausente ou inválido.")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// OptionalAuth: a rota pública de booking aceita convidado ou
// autenticado; token inválido vale como anônimo.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, role, ok := parseToken(cfg, c); ok {
			c.Set(ContextUserID, userID)
			c.Set(ContextUserRole, role)
		}
		c.Next()
	}
}

// RequireRole pressupõe AuthMiddleware antes na cadeia.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)

		// Admin passa em qualquer rota staff.
		for _, r := range roles {
			if role == r || (role == models.RoleAdmin && r == models.RoleStaff) {
				c.Next()
				return
			}
		}

		c.Abort()
		httperr.Forbidden(c, "forbidden", "Sem permissão para esta rota.")
	}
}
