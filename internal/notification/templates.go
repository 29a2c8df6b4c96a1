package notification

import (
	"fmt"
	"time"

	"github.com/barberian/booking-api/internal/models"
)

// Templates das mensagens. O template é escolhido pelo par
// (status anterior, status novo) do evento, nunca por diff de campos.

func fmtWhen(t time.Time) string {
	return t.Format("02/01/2006 às 15:04")
}

func titleCreatedClient() string { return "Agendamento realizado" }
func titleCreatedStaff() string  { return "Novo agendamento" }

func msgCreatedClient(ap *models.Appointment) string {
	return fmt.Sprintf(
		"Seu agendamento com %s para %s em %s foi realizado com sucesso.",
		ap.Staff.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgCreatedStaff(ap *models.Appointment) string {
	return fmt.Sprintf(
		"Novo agendamento com %s para %s em %s.",
		ap.Client.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgConfirmed(ap *models.Appointment) string {
	return fmt.Sprintf(
		"Seu agendamento com %s para %s em %s foi confirmado.",
		ap.Staff.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgCancelledClient(ap *models.Appointment) string {
	return fmt.Sprintf(
		"Seu agendamento com %s para %s em %s foi cancelado.",
		ap.Staff.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgCancelledStaff(ap *models.Appointment) string {
	return fmt.Sprintf(
		"O agendamento com %s para %s em %s foi cancelado.",
		ap.Client.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgCompleted(ap *models.Appointment, business string) string {
	return fmt.Sprintf(
		"Obrigado pela visita ao %s! Seu atendimento de %s com %s foi concluído. Esperamos você de novo em breve!",
		business, ap.Service.Name, ap.Staff.FullName(),
	)
}

func msgRescheduledClient(ap *models.Appointment) string {
	return fmt.Sprintf(
		"Seu agendamento com %s para %s foi remarcado para %s.",
		ap.Staff.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgRescheduledStaff(ap *models.Appointment) string {
	return fmt.Sprintf(
		"O agendamento com %s para %s foi remarcado para %s.",
		ap.Client.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}

func msgGenericUpdate(ap *models.Appointment, oldStatus, newStatus string) string {
	extra := ""
	if oldStatus != "" && newStatus != "" {
		extra = fmt.Sprintf(" Status alterado de %s para %s.", oldStatus, newStatus)
	}
	return fmt.Sprintf(
		"Seu agendamento com %s para %s em %s foi atualizado.%s",
		ap.Staff.FullName(), ap.Service.Name, fmtWhen(ap.StartTime), extra,
	)
}

func msgReminder(ap *models.Appointment) string {
	return fmt.Sprintf(
		"Lembrete: você tem um agendamento com %s para %s em %s.",
		ap.Staff.FullName(), ap.Service.Name, fmtWhen(ap.StartTime),
	)
}
