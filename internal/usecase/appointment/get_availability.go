package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type AvailabilityInput struct {
	StaffID   uint
	ServiceID uint

	// Meia-noite do dia consultado, no timezone da barbearia.
	Date time.Time
}

type AvailabilityResult struct {
	Available bool              `json:"available"`
	StaffName string            `json:"staff_name"`
	Date      string            `json:"date"`
	Reason    string            `json:"reason,omitempty"`
	Slots     []domain.TimeSlot `json:"slots"`
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday:    "domingo",
	time.Monday:    "segunda-feira",
	time.Tuesday:   "terça-feira",
	time.Wednesday: "quarta-feira",
	time.Thursday:  "quinta-feira",
	time.Friday:    "sexta-feira",
	time.Saturday:  "sábado",
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo        domain.Repository
	slotMinutes int
}

func NewGetAvailability(repo domain.Repository, slotMinutes int) *GetAvailability {
	if slotMinutes <= 0 {
		slotMinutes = 30
	}
	return &GetAvailability{repo: repo, slotMinutes: slotMinutes}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {

	staff, err := uc.repo.GetStaff(ctx, in.StaffID)
	if err != nil || !staff.Active {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	// O serviço é validado mas a duração não molda a grade: a célula
	// é fixa (SLOT_MINUTES), não dimensionada ao serviço.
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !svc.Active {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidService)
	}

	result := &AvailabilityResult{
		StaffName: staff.FullName(),
		Date:      in.Date.Format("2006-01-02"),
		Slots:     []domain.TimeSlot{},
	}

	// Fecha por feriado (exato ou recorrente).
	holidays, err := uc.repo.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	if h := domain.FindHoliday(holidays, in.Date); h != nil {
		result.Reason = fmt.Sprintf("A barbearia está fechada neste feriado: %s.", h.Name)
		return result, nil
	}

	// Fecha por horário de funcionamento ausente ou dia fechado.
	bh, err := uc.repo.GetBusinessHours(ctx, int(in.Date.Weekday()))
	if err != nil {
		return nil, err
	}
	if bh == nil {
		result.Reason = "Horário de funcionamento não configurado para este dia."
		return result, nil
	}
	if !bh.IsOpen {
		result.Reason = fmt.Sprintf("A barbearia está fechada em %s.", weekdayNames[in.Date.Weekday()])
		return result, nil
	}

	candidates := domain.CandidateSlots(in.Date, bh, time.Duration(uc.slotMinutes)*time.Minute)

	dayStart := in.Date
	dayEnd := dayStart.Add(24 * time.Hour)

	booked, err := uc.repo.ListActiveAppointmentsForDay(ctx, in.StaffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	for _, slot := range candidates {
		conflict := false
		for i := range booked {
			busy := domain.TimeRange{Start: booked[i].StartTime, End: booked[i].EndTime}
			if domain.Overlaps(slot, busy) {
				conflict = true
				break
			}
		}
		if !conflict {
			result.Slots = append(result.Slots, slot.Slot())
		}
	}

	result.Available = len(result.Slots) > 0
	return result, nil
}
