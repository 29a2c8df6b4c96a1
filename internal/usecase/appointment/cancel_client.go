package appointment

import (
	"context"
	"time"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification"
)

// Cancelamento iniciado pelo próprio cliente, com regras mais restritas
// que a transição staff/admin.
type CancelByClient struct {
	repo   domain.Repository
	events EventSink
}

func NewCancelByClient(repo domain.Repository, events EventSink) *CancelByClient {
	return &CancelByClient{repo: repo, events: events}
}

func (uc *CancelByClient) Execute(
	ctx context.Context,
	clientID uint,
	appointmentID uint,
	now time.Time,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil || ap.ClientID != clientID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	old, err := domain.CancelByClient(ap, now)
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
