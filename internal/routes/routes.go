package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/barberian/booking-api/internal/cache"
	"github.com/barberian/booking-api/internal/config"
	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/handlers"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/infra/repository"
	"github.com/barberian/booking-api/internal/middleware"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification"
	"github.com/barberian/booking-api/internal/notification/transport"
	"github.com/barberian/booking-api/internal/timezone"
	usecase "github.com/barberian/booking-api/internal/usecase/appointment"
)

// Setup monta todo o grafo de dependências e registra as rotas.
func Setup(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	loc := timezone.Location(cfg.Timezone)

	// -------- infra --------
	repo := repository.NewAppointmentGormRepository(db)
	availCache := cache.New(rdb, 2*time.Minute)

	// -------- notificações --------
	var sms transport.SMSSender = transport.NoopSMSSender{}
	if cfg.SMSWebhookURL != "" {
		sms = transport.NewWebhookSender(cfg.SMSWebhookURL, cfg.SMSWebhookToken)
	}

	var email transport.EmailSender = transport.NoopEmailSender{}
	if cfg.SMTPHost != "" {
		email = transport.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	}

	notifier := notification.NewNotifier(db, sms, email, cfg.BusinessName)
	dispatcher := notification.NewDispatcher(notifier)

	// -------- use cases --------
	availability := usecase.NewGetAvailability(repo, cfg.SlotMinutes)
	book := usecase.NewBook(repo, domain.NewRandomSelector(), dispatcher, loc)
	cancelClient := usecase.NewCancelByClient(repo, dispatcher)
	updateStatus := usecase.NewUpdateStatus(repo, dispatcher)
	reschedule := usecase.NewReschedule(repo, dispatcher, loc)

	// -------- handlers --------
	authHandler := handlers.NewAuthHandler(db, cfg)
	publicHandler := handlers.NewPublicHandler(db, availability, book, availCache, loc)
	clientHandler := handlers.NewClientHandler(db, repo, cancelClient, availCache, loc)
	staffHandler := handlers.NewStaffHandler(repo, book, updateStatus, reschedule, availCache, loc)
	adminHandler := handlers.NewAdminHandler(db)

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		httperr.NotFound(c, httperr.CodeNotFound, "Rota não encontrada.")
	})

	api := r.Group("/api/v1")

	// -------- público --------
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/services", publicHandler.ListServices)
	api.GET("/staff", publicHandler.ListStaff)
	api.GET("/availability", publicHandler.GetAvailability)
	api.POST("/appointments", middleware.OptionalAuth(cfg), publicHandler.Book)

	// -------- autenticado --------
	auth := api.Group("", middleware.AuthMiddleware(cfg))

	auth.GET("/me", authHandler.Me)

	// -------- cliente --------
	client := auth.Group("/me")
	client.GET("/appointments", clientHandler.ListAppointments)
	client.GET("/appointments/:id", clientHandler.GetAppointment)
	client.POST("/appointments/:id/cancel", clientHandler.CancelAppointment)
	client.GET("/notifications", clientHandler.ListNotifications)
	client.POST("/notifications/:id/read", clientHandler.MarkNotificationRead)

	// -------- staff (admin incluso) --------
	staff := auth.Group("/staff", middleware.RequireRole(models.RoleStaff))
	staff.GET("/agenda", staffHandler.DayAgenda)
	staff.POST("/appointments", staffHandler.CreateAppointment)
	staff.PATCH("/appointments/:id/status", staffHandler.UpdateAppointmentStatus)
	staff.PATCH("/appointments/:id/reschedule", staffHandler.RescheduleAppointment)

	// -------- admin --------
	admin := auth.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.GET("/business-hours", adminHandler.ListBusinessHours)
	admin.PUT("/business-hours", adminHandler.UpsertBusinessHours)
	admin.GET("/holidays", adminHandler.ListHolidays)
	admin.POST("/holidays", adminHandler.CreateHoliday)
	admin.DELETE("/holidays/:id", adminHandler.DeleteHoliday)
	admin.GET("/categories", adminHandler.ListCategories)
	admin.POST("/categories", adminHandler.CreateCategory)
	admin.GET("/services", adminHandler.ListAllServices)
	admin.POST("/services", adminHandler.CreateService)
	admin.PATCH("/services/:id", adminHandler.UpdateService)
}
