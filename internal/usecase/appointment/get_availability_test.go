package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
)

func seedCalendarRepo() *fakeRepo {
	repo := newFakeRepo()

	repo.services[1] = &models.Service{ID: 1, Name: "Corte", DurationMin: 45, Active: true}
	repo.services[2] = &models.Service{ID: 2, Name: "Desativado", DurationMin: 30, Active: false}

	repo.users[10] = &models.User{
		ID: 10, FirstName: "João", LastName: "Silva",
		Role: models.RoleStaff, Active: true,
	}
	repo.users[11] = &models.User{
		ID: 11, FirstName: "Pedro", LastName: "Souza",
		Role: models.RoleStaff, Active: false,
	}

	// Tuesday 09:00-18:00, Sunday closed; Monday left unconfigured.
	repo.hours[int(time.Tuesday)] = &models.BusinessHours{
		DayOfWeek: int(time.Tuesday), IsOpen: true,
		OpeningTime: "09:00", ClosingTime: "18:00",
	}
	repo.hours[int(time.Sunday)] = &models.BusinessHours{
		DayOfWeek: int(time.Sunday), IsOpen: false,
	}

	return repo
}

// 2026-09-01 is a Tuesday.
var tuesday = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestGetAvailability_OpenDayAllFree(t *testing.T) {
	repo := seedCalendarRepo()
	uc := NewGetAvailability(repo, 30)

	res, err := uc.Execute(context.Background(), AvailabilityInput{
		StaffID: 10, ServiceID: 1, Date: tuesday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Available {
		t.Fatal("expected availability on a free open day")
	}
	if len(res.Slots) != 18 {
		t.Fatalf("expected 18 free slots, got %d", len(res.Slots))
	}
	if res.Slots[0].Start != "09:00" || res.Slots[17].End != "18:00" {
		t.Fatalf("unexpected slot bounds: %+v ... %+v", res.Slots[0], res.Slots[17])
	}
	if res.StaffName != "João Silva" {
		t.Fatalf("unexpected staff name %q", res.StaffName)
	}
}

func TestGetAvailability_BookedSlotBlocksOverlappingCells(t *testing.T) {
	repo := seedCalendarRepo()

	// A 45-minute appointment at 10:00 blocks both the 10:00-10:30
	// and the 10:30-11:00 cells.
	start := tuesday.Add(10 * time.Hour)
	repo.appointments[1] = &models.Appointment{
		ID: 1, StaffID: 10, ServiceID: 1,
		StartTime: start, EndTime: start.Add(45 * time.Minute),
		Status: "confirmed",
	}

	uc := NewGetAvailability(repo, 30)
	res, err := uc.Execute(context.Background(), AvailabilityInput{
		StaffID: 10, ServiceID: 1, Date: tuesday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Slots) != 16 {
		t.Fatalf("expected 16 free slots, got %d", len(res.Slots))
	}
	for _, s := range res.Slots {
		if s.Start == "10:00" || s.Start == "10:30" {
			t.Fatalf("slot %s should have been blocked", s.Start)
		}
	}
}

func TestGetAvailability_CancelledDoesNotBlock(t *testing.T) {
	repo := seedCalendarRepo()

	start := tuesday.Add(10 * time.Hour)
	repo.appointments[1] = &models.Appointment{
		ID: 1, StaffID: 10, ServiceID: 1,
		StartTime: start, EndTime: start.Add(30 * time.Minute),
		Status: "cancelled",
	}

	uc := NewGetAvailability(repo, 30)
	res, err := uc.Execute(context.Background(), AvailabilityInput{
		StaffID: 10, ServiceID: 1, Date: tuesday,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Slots) != 18 {
		t.Fatalf("cancelled appointment must free its slot, got %d slots", len(res.Slots))
	}
}

func TestGetAvailability_ClosedReasons(t *testing.T) {
	repo := seedCalendarRepo()
	repo.holidays = []models.Holiday{
		{Name: "Natal", Date: time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC), IsRecurring: true},
	}
	uc := NewGetAvailability(repo, 30)

	// Recurring holiday.
	christmas := time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)
	res, err := uc.Execute(context.Background(), AvailabilityInput{StaffID: 10, ServiceID: 1, Date: christmas})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || len(res.Slots) != 0 || res.Reason == "" {
		t.Fatalf("expected closed holiday result, got %+v", res)
	}

	// Closed weekday.
	sunday := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC)
	res, err = uc.Execute(context.Background(), AvailabilityInput{StaffID: 10, ServiceID: 1, Date: sunday})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || res.Reason == "" {
		t.Fatalf("expected closed sunday result, got %+v", res)
	}

	// Unconfigured weekday.
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	res, err = uc.Execute(context.Background(), AvailabilityInput{StaffID: 10, ServiceID: 1, Date: monday})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Available || res.Reason == "" {
		t.Fatalf("expected unconfigured day result, got %+v", res)
	}
}

func TestGetAvailability_Guards(t *testing.T) {
	repo := seedCalendarRepo()
	uc := NewGetAvailability(repo, 30)

	// Inactive staff behaves as unknown.
	_, err := uc.Execute(context.Background(), AvailabilityInput{StaffID: 11, ServiceID: 1, Date: tuesday})
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("expected not_found for inactive staff, got %v", err)
	}

	_, err = uc.Execute(context.Background(), AvailabilityInput{StaffID: 10, ServiceID: 2, Date: tuesday})
	if !httperr.IsBusiness(err, httperr.CodeInvalidService) {
		t.Fatalf("expected invalid_service, got %v", err)
	}

	_, err = uc.Execute(context.Background(), AvailabilityInput{StaffID: 10, ServiceID: 999, Date: tuesday})
	if !httperr.IsBusiness(err, httperr.CodeInvalidService) {
		t.Fatalf("expected invalid_service for unknown service, got %v", err)
	}
}
