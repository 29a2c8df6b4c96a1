package appointment

import (
	"testing"
	"time"

	"github.com/barberian/booking-api/internal/models"
)

func TestCandidateSlots_FullDay(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	wh := &models.BusinessHours{
		DayOfWeek:   int(time.Tuesday),
		IsOpen:      true,
		OpeningTime: "09:00",
		ClosingTime: "18:00",
	}

	slots := CandidateSlots(date, wh, 30*time.Minute)
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots between 09:00 and 18:00, got %d", len(slots))
	}

	first := slots[0].Slot()
	if first.Start != "09:00" || first.End != "09:30" {
		t.Fatalf("unexpected first slot: %+v", first)
	}

	last := slots[len(slots)-1].Slot()
	if last.Start != "17:30" || last.End != "18:00" {
		t.Fatalf("unexpected last slot: %+v", last)
	}
}

func TestCandidateSlots_DropsPartialFinalSlot(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	wh := &models.BusinessHours{
		IsOpen:      true,
		OpeningTime: "09:00",
		ClosingTime: "10:45",
	}

	// 09:00-09:30, 09:30-10:00, 10:00-10:30; 10:30-11:00 would cross
	// closing and must be dropped, not truncated.
	slots := CandidateSlots(date, wh, 30*time.Minute)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if got := slots[2].Slot(); got.End != "10:30" {
		t.Fatalf("expected last slot to end 10:30, got %s", got.End)
	}
}

func TestCandidateSlots_ClosedOrInvalid(t *testing.T) {
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	if got := CandidateSlots(date, nil, 30*time.Minute); got != nil {
		t.Fatalf("expected nil slots without business hours, got %v", got)
	}

	closed := &models.BusinessHours{IsOpen: false, OpeningTime: "09:00", ClosingTime: "18:00"}
	if got := CandidateSlots(date, closed, 30*time.Minute); got != nil {
		t.Fatalf("expected nil slots on closed day, got %v", got)
	}

	inverted := &models.BusinessHours{IsOpen: true, OpeningTime: "18:00", ClosingTime: "09:00"}
	if got := CandidateSlots(date, inverted, 30*time.Minute); got != nil {
		t.Fatalf("expected nil slots on inverted hours, got %v", got)
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	a := TimeRange{Start: base, End: base.Add(30 * time.Minute)}

	// Touching endpoints do not conflict.
	after := TimeRange{Start: a.End, End: a.End.Add(30 * time.Minute)}
	if Overlaps(a, after) {
		t.Fatal("back-to-back ranges must not overlap")
	}
	before := TimeRange{Start: base.Add(-30 * time.Minute), End: base}
	if Overlaps(a, before) {
		t.Fatal("range ending at start must not overlap")
	}

	partial := TimeRange{Start: base.Add(15 * time.Minute), End: base.Add(45 * time.Minute)}
	if !Overlaps(a, partial) {
		t.Fatal("partially overlapping ranges must conflict")
	}
	if !Overlaps(partial, a) {
		t.Fatal("overlap must be symmetric")
	}

	contained := TimeRange{Start: base.Add(5 * time.Minute), End: base.Add(10 * time.Minute)}
	if !Overlaps(a, contained) {
		t.Fatal("contained range must conflict")
	}
}

func TestHolidayMatches(t *testing.T) {
	christmas := models.Holiday{
		Name:        "Natal",
		Date:        time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		IsRecurring: true,
	}
	oneOff := models.Holiday{
		Name: "Reforma",
		Date: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}

	if !HolidayMatches(christmas, time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("recurring holiday must match same month/day in any year")
	}
	if HolidayMatches(christmas, time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("recurring holiday must not match a different day")
	}

	if !HolidayMatches(oneOff, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("exact holiday must match its own date")
	}
	if HolidayMatches(oneOff, time.Date(2027, 9, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("exact holiday must not match other years")
	}

	found := FindHoliday([]models.Holiday{oneOff, christmas}, time.Date(2027, 12, 25, 0, 0, 0, 0, time.UTC))
	if found == nil || found.Name != "Natal" {
		t.Fatalf("expected to find Natal, got %+v", found)
	}
	if FindHoliday([]models.Holiday{oneOff, christmas}, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)) != nil {
		t.Fatal("expected no holiday on a plain day")
	}
}

func TestClockOn(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	ref := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)

	got, err := ClockOn(ref, "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 9, 1, 14, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}

	if _, err := ClockOn(ref, "25:99"); err == nil {
		t.Fatal("expected error for invalid clock string")
	}
}
