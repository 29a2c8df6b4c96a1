package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&svc, serviceID).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *AppointmentGormRepository) GetStaff(
	ctx context.Context,
	staffID uint,
) (*models.User, error) {

	var staff models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", staffID, models.RoleStaff).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *AppointmentGormRepository) ListActiveStaff(
	ctx context.Context,
) ([]models.User, error) {

	var staff []models.User
	if err := r.db.WithContext(ctx).
		Where("role = ? AND active = ?", models.RoleStaff, true).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetClient(
	ctx context.Context,
	clientID uint,
) (*models.User, error) {

	var client models.User
	if err := r.db.WithContext(ctx).First(&client, clientID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) FindClientByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var client models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *AppointmentGormRepository) CreateClient(
	ctx context.Context,
	client *models.User,
) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessHours(
	ctx context.Context,
	dayOfWeek int,
) (*models.BusinessHours, error) {

	var bh models.BusinessHours
	err := r.db.WithContext(ctx).
		Where("day_of_week = ?", dayOfWeek).
		First(&bh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bh, nil
}

// ListHolidays traz tudo e deixa o match (exato ou recorrente) para o
// domínio; a comparação mês+dia em SQL não é portável.
func (r *AppointmentGormRepository) ListHolidays(
	ctx context.Context,
) ([]models.Holiday, error) {

	var holidays []models.Holiday
	if err := r.db.WithContext(ctx).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func conflictScan(tx *gorm.DB, staffID uint, start, end time.Time, excludeID uint) error {
	q := tx.
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			staffID, domain.ActiveStatuses, end, start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	return nil
}

func (r *AppointmentGormRepository) CreateAppointmentTx(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := conflictScan(tx, ap.StaffID, ap.StartTime, ap.EndTime, 0); err != nil {
			return err
		}
		return tx.Create(ap).Error
	})

	// A constraint de exclusão pode disparar mesmo após o scan
	// (corrida entre transações); mesmo resultado para o chamador.
	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	return err
}

func (r *AppointmentGormRepository) RescheduleAppointmentTx(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := conflictScan(tx, ap.StaffID, ap.StartTime, ap.EndTime, ap.ID); err != nil {
			return err
		}

		// Só as colunas de horário, condicionadas ao status lido:
		// um cancelamento concorrente não é sobrescrito de volta.
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", ap.ID, ap.Status).
			Updates(map[string]any{
				"start_time": ap.StartTime,
				"end_time":   ap.EndTime,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness(httperr.CodeAlreadyFinalized)
		}
		return nil
	})

	if err != nil && httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	return err
}

// --------------------------------------------------
// Appointment (state change / lookup)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		First(&ap, appointmentID).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// UpdateAppointmentStatus condiciona o UPDATE ao status anterior, para
// que transições concorrentes a partir do mesmo status não se
// sobrescrevam. RowsAffected zero significa que outro caller mudou o
// status primeiro.
func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	appointmentID uint,
	from string,
	to string,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointmentID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeIllegalTransition)
	}
	return nil
}

// --------------------------------------------------
// Availability / listagens
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointmentsForDay(
	ctx context.Context,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"staff_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			staffID, domain.ActiveStatuses, dayStart, dayEnd,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForStaffDay(
	ctx context.Context,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"staff_id = ? AND start_time >= ? AND start_time < ?",
			staffID, dayStart, dayEnd,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Staff").
		Preload("Service").
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
