package notification

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification/transport"
)

// Notifier materializa eventos em notificações in-app, SMS e e-mail,
// seguindo a tabela de regras por (status anterior, status novo).
type Notifier struct {
	db       *gorm.DB
	sms      transport.SMSSender
	email    transport.EmailSender
	business string
}

func NewNotifier(
	db *gorm.DB,
	sms transport.SMSSender,
	email transport.EmailSender,
	business string,
) *Notifier {
	return &Notifier{
		db:       db,
		sms:      sms,
		email:    email,
		business: business,
	}
}

func (n *Notifier) Handle(ctx context.Context, ev Event) error {
	var ap models.Appointment
	if err := n.db.WithContext(ctx).
		Preload("Client").
		Preload("Staff").
		Preload("Service").
		First(&ap, ev.AppointmentID).Error; err != nil {
		return err
	}

	switch ev.Kind {
	case KindCreated:
		return n.handleCreated(ctx, &ap)
	case KindTransitioned:
		return n.handleTransitioned(ctx, &ap, ev.OldStatus, ev.NewStatus)
	case KindRescheduled:
		return n.handleRescheduled(ctx, &ap)
	case KindUpdated:
		return n.handleGenericUpdate(ctx, &ap, ev.OldStatus, ev.NewStatus)
	}
	return fmt.Errorf("unknown event kind %q", ev.Kind)
}

// --------------------------------------------------
// Regras por evento
// --------------------------------------------------

func (n *Notifier) handleCreated(ctx context.Context, ap *models.Appointment) error {
	ref := fmt.Sprint(ap.ID)

	n.notify(ctx, ap.ClientID, titleCreatedClient(), msgCreatedClient(ap), models.NotifAppointmentCreated, ref)
	n.notify(ctx, ap.StaffID, titleCreatedStaff(), msgCreatedStaff(ap), models.NotifAppointmentCreated, ref)

	if ap.Client.Phone != "" {
		n.sendSMS(ctx, &ap.Client, msgCreatedClient(ap), models.NotifAppointmentCreated, ref)
	}
	if ap.Client.Email != "" {
		n.sendEmail(ap.Client.Email, titleCreatedClient(), msgCreatedClient(ap))
	}
	return nil
}

func (n *Notifier) handleTransitioned(ctx context.Context, ap *models.Appointment, oldStatus, newStatus string) error {
	ref := fmt.Sprint(ap.ID)

	switch domain.Status(newStatus) {
	case domain.StatusConfirmed:
		n.notify(ctx, ap.ClientID, "Agendamento confirmado", msgConfirmed(ap), models.NotifAppointmentUpdated, ref)
		if ap.Client.Phone != "" {
			n.sendSMS(ctx, &ap.Client, msgConfirmed(ap), models.NotifAppointmentUpdated, ref)
		}

	case domain.StatusCancelled:
		n.notify(ctx, ap.ClientID, "Agendamento cancelado", msgCancelledClient(ap), models.NotifAppointmentCancelled, ref)
		n.notify(ctx, ap.StaffID, "Agendamento cancelado", msgCancelledStaff(ap), models.NotifAppointmentCancelled, ref)

		// SMS só quando o cliente já tinha confirmação em mãos.
		if ap.Client.Phone != "" && domain.Status(oldStatus) == domain.StatusConfirmed {
			n.sendSMS(ctx, &ap.Client, msgCancelledClient(ap), models.NotifAppointmentCancelled, ref)
		}

	case domain.StatusCompleted:
		n.notify(ctx, ap.ClientID, "Atendimento concluído", msgCompleted(ap, n.business), models.NotifAppointmentCompleted, ref)
		if ap.Client.Phone != "" {
			n.sendSMS(ctx, &ap.Client, msgCompleted(ap, n.business), models.NotifAppointmentCompleted, ref)
		}

	default:
		return n.handleGenericUpdate(ctx, ap, oldStatus, newStatus)
	}
	return nil
}

func (n *Notifier) handleRescheduled(ctx context.Context, ap *models.Appointment) error {
	ref := fmt.Sprint(ap.ID)

	n.notify(ctx, ap.ClientID, "Agendamento remarcado", msgRescheduledClient(ap), models.NotifAppointmentUpdated, ref)
	n.notify(ctx, ap.StaffID, "Agendamento remarcado", msgRescheduledStaff(ap), models.NotifAppointmentUpdated, ref)

	if ap.Client.Phone != "" && domain.Status(ap.Status) == domain.StatusConfirmed {
		n.sendSMS(ctx, &ap.Client, msgRescheduledClient(ap), models.NotifAppointmentUpdated, ref)
	}
	return nil
}

func (n *Notifier) handleGenericUpdate(ctx context.Context, ap *models.Appointment, oldStatus, newStatus string) error {
	ref := fmt.Sprint(ap.ID)

	n.notify(ctx, ap.ClientID, "Agendamento atualizado", msgGenericUpdate(ap, oldStatus, newStatus), models.NotifAppointmentUpdated, ref)

	if ap.Client.Phone != "" && oldStatus != "" && newStatus != "" && oldStatus != newStatus {
		n.sendSMS(ctx, &ap.Client, msgGenericUpdate(ap, oldStatus, newStatus), models.NotifAppointmentUpdated, ref)
	}
	return nil
}

// --------------------------------------------------
// Escrita / transporte
// --------------------------------------------------

func (n *Notifier) notify(ctx context.Context, recipientID uint, title, message, typ, ref string) {
	row := models.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        typ,
		ReferenceID: ref,
	}
	if err := n.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("notification insert failed: %v", err)
	}
}

func (n *Notifier) sendSMS(ctx context.Context, recipient *models.User, message, typ, ref string) {
	row := models.SMSNotification{
		RecipientID: &recipient.ID,
		Phone:       recipient.Phone,
		Message:     message,
		Type:        typ,
		ReferenceID: ref,
		Status:      models.SMSStatusPending,
	}
	if err := n.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("sms record insert failed: %v", err)
		return
	}

	providerID, err := n.sms.Send(ctx, recipient.Phone, message)
	if err != nil {
		// Falha fica registrada; sem retry inline.
		row.Status = models.SMSStatusFailed
		row.ErrorMessage = err.Error()
	} else {
		row.Status = models.SMSStatusSent
		row.ProviderID = providerID
	}

	if err := n.db.WithContext(ctx).Save(&row).Error; err != nil {
		log.Printf("sms record update failed: %v", err)
	}
}

func (n *Notifier) sendEmail(to, subject, body string) {
	if err := n.email.Send(to, subject, body); err != nil {
		log.Printf("email send failed: %v", err)
	}
}
