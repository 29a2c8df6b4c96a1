package appointment

import (
	"context"
	"time"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification"
)

// Remarcação de horário por staff. O status não muda; o fim é
// rederivado da duração do serviço e o conflito rechecado na mesma
// disciplina transacional do booking.
type Reschedule struct {
	repo   domain.Repository
	events EventSink
	loc    *time.Location
}

func NewReschedule(repo domain.Repository, events EventSink, loc *time.Location) *Reschedule {
	return &Reschedule{repo: repo, events: events, loc: loc}
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	staffID uint,
	appointmentID uint,
	dateStr string,
	timeStr string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if staffID != 0 && ap.StaffID != staffID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if domain.IsTerminal(domain.Status(ap.Status)) {
		return nil, httperr.ErrBusiness(httperr.CodeAlreadyFinalized)
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidationError)
	}

	now := time.Now().In(uc.loc)
	if !start.After(now) {
		return nil, httperr.ErrBusiness(httperr.CodePastBooking)
	}

	svc, err := uc.repo.GetService(ctx, ap.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidService)
	}

	ap.StartTime = start
	ap.EndTime = domain.ComputeEnd(start, svc.DurationMin)

	if err := uc.repo.RescheduleAppointmentTx(ctx, ap); err != nil {
		return nil, err
	}

	uc.events.Dispatch(notification.Event{
		Kind:          notification.KindRescheduled,
		AppointmentID: ap.ID,
	})

	return ap, nil
}
