package appointment

import (
	"context"
	"sync"
	"time"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification"
)

// fakeRepo is an in-memory Repository with the same conflict
// discipline as the real one: the mutex plays the role of the
// per-staff row lock, so concurrent bookings serialize.
type fakeRepo struct {
	mu sync.Mutex

	services     map[uint]*models.Service
	users        map[uint]*models.User
	hours        map[int]*models.BusinessHours
	holidays     []models.Holiday
	appointments map[uint]*models.Appointment

	nextUserID uint
	nextApptID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services:     map[uint]*models.Service{},
		users:        map[uint]*models.User{},
		hours:        map[int]*models.BusinessHours{},
		appointments: map[uint]*models.Appointment{},
		nextUserID:   100,
		nextApptID:   1000,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.services[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) GetStaff(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && u.Role == models.RoleStaff {
		cp := *u
		return &cp, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) ListActiveStaff(_ context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleStaff && u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetClient(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && u.Role == models.RoleClient {
		cp := *u
		return &cp, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) FindClientByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == models.RoleClient && u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) CreateClient(_ context.Context, client *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextUserID++
	client.ID = r.nextUserID
	cp := *client
	r.users[client.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBusinessHours(_ context.Context, dayOfWeek int) (*models.BusinessHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.hours[dayOfWeek]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) ListHolidays(_ context.Context) ([]models.Holiday, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Holiday(nil), r.holidays...), nil
}

func (r *fakeRepo) conflictLocked(staffID uint, start, end time.Time, excludeID uint) bool {
	want := domain.TimeRange{Start: start, End: end}
	for _, ap := range r.appointments {
		if ap.ID == excludeID || ap.StaffID != staffID {
			continue
		}
		if !domain.IsActive(domain.Status(ap.Status)) {
			continue
		}
		if domain.Overlaps(want, domain.TimeRange{Start: ap.StartTime, End: ap.EndTime}) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) CreateAppointmentTx(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictLocked(ap.StaffID, ap.StartTime, ap.EndTime, 0) {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	r.nextApptID++
	ap.ID = r.nextApptID
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ap, ok := r.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, id uint, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[id]
	if !ok {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if ap.Status != from {
		return httperr.ErrBusiness(httperr.CodeIllegalTransition)
	}
	ap.Status = to
	return nil
}

func (r *fakeRepo) RescheduleAppointmentTx(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictLocked(ap.StaffID, ap.StartTime, ap.EndTime, ap.ID) {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	cur, ok := r.appointments[ap.ID]
	if !ok {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if cur.Status != ap.Status {
		return httperr.ErrBusiness(httperr.CodeAlreadyFinalized)
	}
	cur.StartTime = ap.StartTime
	cur.EndTime = ap.EndTime
	return nil
}

func (r *fakeRepo) ListActiveAppointmentsForDay(
	_ context.Context, staffID uint, dayStart, dayEnd time.Time,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.StaffID != staffID || !domain.IsActive(domain.Status(ap.Status)) {
			continue
		}
		if ap.StartTime.Before(dayEnd) && dayStart.Before(ap.EndTime) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForStaffDay(
	_ context.Context, staffID uint, dayStart, dayEnd time.Time,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.StaffID == staffID && ap.StartTime.Before(dayEnd) && dayStart.Before(ap.EndTime) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForClient(
	_ context.Context, clientID uint,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClientID == clientID {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) countClients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.users {
		if u.Role == models.RoleClient {
			n++
		}
	}
	return n
}

// recordingSink captures dispatched events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []notification.Event
}

func (s *recordingSink) Dispatch(ev notification.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) all() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notification.Event(nil), s.events...)
}
