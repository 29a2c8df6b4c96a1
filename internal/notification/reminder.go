package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification/transport"
)

// ReminderJob varre agendamentos confirmados que começam dentro da
// janela de antecedência e envia no máximo um lembrete por
// agendamento. Disparado por scheduler externo; idempotente e seguro
// de rodar concorrente com o tráfego de booking.
type ReminderJob struct {
	db       *gorm.DB
	sms      transport.SMSSender
	business string
	lead     time.Duration
	batch    int
}

func NewReminderJob(
	db *gorm.DB,
	sms transport.SMSSender,
	business string,
	lead time.Duration,
	batch int,
) *ReminderJob {
	return &ReminderJob{
		db:       db,
		sms:      sms,
		business: business,
		lead:     lead,
		batch:    batch,
	}
}

// Run devolve quantos lembretes foram emitidos nesta passada.
func (j *ReminderJob) Run(ctx context.Context, now time.Time) (int, error) {
	var apps []models.Appointment
	if err := j.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		Where(
			"status = ? AND start_time > ? AND start_time <= ?",
			string(domain.StatusConfirmed), now, now.Add(j.lead),
		).
		Order("start_time ASC").
		Limit(j.batch).
		Find(&apps).Error; err != nil {
		return 0, err
	}

	sent := 0
	for i := range apps {
		ap := &apps[i]
		ref := fmt.Sprint(ap.ID)

		// Supressão: já existe lembrete para este agendamento desde a
		// abertura da janela?
		windowOpened := ap.StartTime.Add(-j.lead)

		var existing int64
		if err := j.db.WithContext(ctx).
			Model(&models.Notification{}).
			Where(
				"recipient_id = ? AND type = ? AND reference_id = ? AND created_at >= ?",
				ap.ClientID, models.NotifAppointmentReminder, ref, windowOpened,
			).
			Count(&existing).Error; err != nil {
			return sent, err
		}
		if existing > 0 {
			continue
		}

		row := models.Notification{
			RecipientID: ap.ClientID,
			Title:       "Lembrete de agendamento",
			Message:     msgReminder(ap),
			Type:        models.NotifAppointmentReminder,
			ReferenceID: ref,
		}
		if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
			return sent, err
		}

		if ap.Client.Phone != "" {
			j.sendSMS(ctx, ap, ref)
		}
		sent++
	}

	return sent, nil
}

func (j *ReminderJob) sendSMS(ctx context.Context, ap *models.Appointment, ref string) {
	row := models.SMSNotification{
		RecipientID: &ap.ClientID,
		Phone:       ap.Client.Phone,
		Message:     msgReminder(ap),
		Type:        models.NotifAppointmentReminder,
		ReferenceID: ref,
		Status:      models.SMSStatusPending,
	}
	if err := j.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("reminder sms record failed: %v", err)
		return
	}

	providerID, err := j.sms.Send(ctx, ap.Client.Phone, row.Message)
	if err != nil {
		row.Status = models.SMSStatusFailed
		row.ErrorMessage = err.Error()
	} else {
		row.Status = models.SMSStatusSent
		row.ProviderID = providerID
	}

	if err := j.db.WithContext(ctx).Save(&row).Error; err != nil {
		log.Printf("reminder sms update failed: %v", err)
	}
}

// SMSStatusJob reconsulta o provedor para SMS ainda não finalizados e
// grava o status de entrega. Também disparado por scheduler externo.
type SMSStatusJob struct {
	db    *gorm.DB
	sms   transport.SMSSender
	batch int
}

func NewSMSStatusJob(db *gorm.DB, sms transport.SMSSender, batch int) *SMSStatusJob {
	return &SMSStatusJob{db: db, sms: sms, batch: batch}
}

func (j *SMSStatusJob) Run(ctx context.Context) (int, error) {
	var rows []models.SMSNotification
	if err := j.db.WithContext(ctx).
		Where("status = ? AND provider_id <> ''", models.SMSStatusSent).
		Order("created_at ASC").
		Limit(j.batch).
		Find(&rows).Error; err != nil {
		return 0, err
	}

	updated := 0
	for i := range rows {
		row := &rows[i]

		status, err := j.sms.Status(ctx, row.ProviderID)
		if err != nil {
			log.Printf("sms status query failed (%s): %v", row.ProviderID, err)
			continue
		}

		mapped := mapProviderStatus(status)
		if mapped == "" || mapped == row.Status {
			continue
		}

		row.Status = mapped
		if err := j.db.WithContext(ctx).Save(row).Error; err != nil {
			return updated, err
		}
		updated++
	}

	return updated, nil
}

func mapProviderStatus(s string) string {
	switch s {
	case "delivered", "read":
		return models.SMSStatusDelivered
	case "failed":
		return models.SMSStatusFailed
	case "undelivered":
		return models.SMSStatusUndelivered
	}
	return ""
}
