package appointment

import (
	"time"

	"github.com/barberian/booking-api/internal/models"
)

// ===============================
// Calendar Rules
// ===============================

// TimeRange é um intervalo semiaberto [Start, End). Extremos que
// apenas se tocam não conflitam.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func Overlaps(a, b TimeRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// TimeSlot é a representação serializada de um TimeRange ("15:04").
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r TimeRange) Slot() TimeSlot {
	return TimeSlot{
		Start: r.Start.Format("15:04"),
		End:   r.End.Format("15:04"),
	}
}

// ClockOn ancora um horário "15:04" no dia/timezone de ref.
func ClockOn(ref time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		ref.Year(), ref.Month(), ref.Day(),
		t.Hour(), t.Minute(), 0, 0,
		ref.Location(),
	), nil
}

// CandidateSlots gera a grade de células consecutivas de slotLen a
// partir da abertura. A célula parcial final (que estouraria o
// fechamento) é descartada, não truncada. Função pura.
func CandidateSlots(date time.Time, wh *models.BusinessHours, slotLen time.Duration) []TimeRange {
	if wh == nil || !wh.IsOpen || slotLen <= 0 {
		return nil
	}

	open, err := ClockOn(date, wh.OpeningTime)
	if err != nil {
		return nil
	}
	closing, err := ClockOn(date, wh.ClosingTime)
	if err != nil {
		return nil
	}
	if !open.Before(closing) {
		return nil
	}

	var slots []TimeRange
	for cur := open; !cur.Add(slotLen).After(closing); cur = cur.Add(slotLen) {
		slots = append(slots, TimeRange{Start: cur, End: cur.Add(slotLen)})
	}
	return slots
}

// HolidayMatches: feriado exato casa pela data; recorrente casa por
// mês+dia em qualquer ano.
func HolidayMatches(h models.Holiday, date time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() &&
		h.Date.Month() == date.Month() &&
		h.Date.Day() == date.Day()
}

// FindHoliday devolve o primeiro feriado que fecha a barbearia na data.
func FindHoliday(holidays []models.Holiday, date time.Time) *models.Holiday {
	for i := range holidays {
		if HolidayMatches(holidays[i], date) {
			return &holidays[i]
		}
	}
	return nil
}
