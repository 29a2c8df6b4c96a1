package appointment

import (
	"context"
	"time"

	"github.com/barberian/booking-api/internal/models"
)

type Repository interface {
	// -------- Service --------
	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Staff --------
	GetStaff(
		ctx context.Context,
		staffID uint,
	) (*models.User, error)

	ListActiveStaff(
		ctx context.Context,
	) ([]models.User, error)

	// -------- Client (guest vs autenticado) --------
	GetClient(
		ctx context.Context,
		clientID uint,
	) (*models.User, error)

	FindClientByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	CreateClient(
		ctx context.Context,
		client *models.User,
	) error

	// -------- Calendar --------
	GetBusinessHours(
		ctx context.Context,
		dayOfWeek int,
	) (*models.BusinessHours, error)

	ListHolidays(
		ctx context.Context,
	) ([]models.Holiday, error)

	// -------- Appointment --------

	// CreateAppointmentTx executa a rechecagem de conflito e o insert
	// numa única transação serializada por staff (FOR UPDATE).
	// Conflito vira ErrBusiness(slot_taken).
	CreateAppointmentTx(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateAppointmentStatus troca o status de forma atômica,
	// condicionada ao status anterior (compare-and-set). Duas
	// transições concorrentes não se sobrescrevem: a segunda perde
	// e recebe ErrBusiness(illegal_transition).
	UpdateAppointmentStatus(
		ctx context.Context,
		appointmentID uint,
		from string,
		to string,
	) error

	// RescheduleAppointmentTx persiste o novo horário com a mesma
	// disciplina de conflito do CreateAppointmentTx.
	RescheduleAppointmentTx(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListActiveAppointmentsForDay(
		ctx context.Context,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForStaffDay(
		ctx context.Context,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)
}
