package appointment

import (
	"context"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification"
)

// Transição de status disparada por staff/admin. staffID limita o
// escopo ao próprio barbeiro; zero significa admin (qualquer agenda).
type UpdateStatus struct {
	repo   domain.Repository
	events EventSink
}

func NewUpdateStatus(repo domain.Repository, events EventSink) *UpdateStatus {
	return &UpdateStatus{repo: repo, events: events}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	staffID uint,
	appointmentID uint,
	target domain.Status,
) (*models.Appointment, error) {

	if !domain.IsValidStatus(target) {
		return nil, httperr.ErrBusiness(httperr.CodeValidationError)
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if staffID != 0 && ap.StaffID != staffID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	old, err := domain.Transition(ap, target)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap.ID, string(old), ap.Status); err != nil {
		return nil, err
	}

	uc.events.Dispatch(notification.Event{
		Kind:          notification.KindTransitioned,
		AppointmentID: ap.ID,
		OldStatus:     string(old),
		NewStatus:     ap.Status,
	})

	return ap, nil
}
