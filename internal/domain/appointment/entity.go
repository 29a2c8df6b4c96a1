package appointment

import (
	"time"

	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ComputeEnd deriva o fim do atendimento a partir da duração do
// serviço. EndTime nunca é informado pelo cliente.
func ComputeEnd(start time.Time, durationMin int) time.Time {
	return start.Add(time.Duration(durationMin) * time.Minute)
}

// Transition aplica uma transição da máquina de estados e devolve o
// status anterior, que o dispatcher de notificações usa para escolher
// o template. Única forma legal de escrever Appointment.Status.
func Transition(ap *models.Appointment, target Status) (Status, error) {
	old := Status(ap.Status)
	if err := CanTransition(old, target); err != nil {
		return old, err
	}

	ap.Status = string(target)
	return old, nil
}

// CancelByClient aplica as regras extras do cancelamento iniciado pelo
// próprio cliente (mais restritas que o cancelamento staff/admin).
func CancelByClient(ap *models.Appointment, now time.Time) (Status, error) {
	old := Status(ap.Status)

	if old == StatusCancelled || old == StatusCompleted {
		return old, httperr.ErrBusiness(httperr.CodeAlreadyFinalized)
	}
	if !ap.StartTime.After(now) {
		return old, httperr.ErrBusiness(httperr.CodeAppointmentInPast)
	}

	return Transition(ap, StatusCancelled)
}
