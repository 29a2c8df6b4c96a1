package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/barberian/booking-api/internal/models"
)

// fakeSMS records sends and serves canned statuses.
type fakeSMS struct {
	mu       sync.Mutex
	sent     []string
	statuses map[string]string
	fail     bool
	nextID   int
}

func (f *fakeSMS) Send(_ context.Context, to string, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", fmt.Errorf("provider down")
	}
	f.sent = append(f.sent, to)
	f.nextID++
	return fmt.Sprintf("prov-%d", f.nextID), nil
}

func (f *fakeSMS) Status(_ context.Context, providerID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.statuses[providerID]; ok {
		return s, nil
	}
	return "queued", nil
}

func (f *fakeSMS) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeEmail) Send(to string, _ string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Each :memory: connection is its own database; pin the pool.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{}, &models.Category{}, &models.Service{},
		&models.Appointment{}, &models.Notification{}, &models.SMSNotification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAppointment(t *testing.T, db *gorm.DB, status string, start time.Time) *models.Appointment {
	t.Helper()

	client := models.User{
		FirstName: "Maria", LastName: "Lima",
		Email: fmt.Sprintf("maria%d@example.com", time.Now().UnixNano()),
		Phone: "+5511990000000",
		Role:  models.RoleClient, Active: true,
	}
	staff := models.User{
		FirstName: "João", LastName: "Silva",
		Email: fmt.Sprintf("joao%d@example.com", time.Now().UnixNano()),
		Role:  models.RoleStaff, Active: true,
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	if err := db.Create(&staff).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}

	svc := models.Service{Name: "Corte", DurationMin: 45, Active: true}
	if err := db.Create(&svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}

	ap := models.Appointment{
		ClientID: client.ID, StaffID: staff.ID, ServiceID: svc.ID,
		StartTime: start, EndTime: start.Add(45 * time.Minute),
		Status: status,
	}
	if err := db.Create(&ap).Error; err != nil {
		t.Fatalf("seed appointment: %v", err)
	}
	return &ap
}

func countNotifications(t *testing.T, db *gorm.DB, recipientID uint, typ string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipientID, typ).
		Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestNotifier_Created(t *testing.T) {
	db := openTestDB(t)
	sms := &fakeSMS{}
	email := &fakeEmail{}
	n := NewNotifier(db, sms, email, "Barberian")

	ap := seedAppointment(t, db, "confirmed", time.Now().Add(24*time.Hour))

	err := n.Handle(context.Background(), Event{
		Kind: KindCreated, AppointmentID: ap.ID, NewStatus: ap.Status,
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := countNotifications(t, db, ap.ClientID, models.NotifAppointmentCreated); got != 1 {
		t.Fatalf("expected 1 client notification, got %d", got)
	}
	if got := countNotifications(t, db, ap.StaffID, models.NotifAppointmentCreated); got != 1 {
		t.Fatalf("expected 1 staff notification, got %d", got)
	}
	if sms.sentCount() != 1 {
		t.Fatalf("expected 1 sms, got %d", sms.sentCount())
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}

	var row models.SMSNotification
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("sms row: %v", err)
	}
	if row.Status != models.SMSStatusSent || row.ProviderID == "" {
		t.Fatalf("expected sent sms with provider id, got %+v", row)
	}
}

func TestNotifier_CancelSMSOnlyWhenPreviouslyConfirmed(t *testing.T) {
	db := openTestDB(t)
	sms := &fakeSMS{}
	n := NewNotifier(db, sms, &fakeEmail{}, "Barberian")

	// pending -> cancelled: in-app for both, but no SMS.
	ap := seedAppointment(t, db, "cancelled", time.Now().Add(24*time.Hour))
	err := n.Handle(context.Background(), Event{
		Kind: KindTransitioned, AppointmentID: ap.ID,
		OldStatus: "pending", NewStatus: "cancelled",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := countNotifications(t, db, ap.ClientID, models.NotifAppointmentCancelled); got != 1 {
		t.Fatalf("expected client in-app cancel notice, got %d", got)
	}
	if got := countNotifications(t, db, ap.StaffID, models.NotifAppointmentCancelled); got != 1 {
		t.Fatalf("expected staff in-app cancel notice, got %d", got)
	}
	if sms.sentCount() != 0 {
		t.Fatalf("pending->cancelled must not send sms, got %d", sms.sentCount())
	}

	// confirmed -> cancelled: now the SMS goes out.
	ap2 := seedAppointment(t, db, "cancelled", time.Now().Add(24*time.Hour))
	err = n.Handle(context.Background(), Event{
		Kind: KindTransitioned, AppointmentID: ap2.ID,
		OldStatus: "confirmed", NewStatus: "cancelled",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sms.sentCount() != 1 {
		t.Fatalf("confirmed->cancelled must send sms, got %d", sms.sentCount())
	}
}

func TestNotifier_ConfirmedAndCompleted(t *testing.T) {
	db := openTestDB(t)
	sms := &fakeSMS{}
	n := NewNotifier(db, sms, &fakeEmail{}, "Barberian")

	ap := seedAppointment(t, db, "confirmed", time.Now().Add(24*time.Hour))
	err := n.Handle(context.Background(), Event{
		Kind: KindTransitioned, AppointmentID: ap.ID,
		OldStatus: "pending", NewStatus: "confirmed",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := countNotifications(t, db, ap.ClientID, models.NotifAppointmentUpdated); got != 1 {
		t.Fatalf("expected confirmation notice for client, got %d", got)
	}
	// Confirmation is client-facing only.
	if got := countNotifications(t, db, ap.StaffID, models.NotifAppointmentUpdated); got != 0 {
		t.Fatalf("staff must not get a confirmation notice, got %d", got)
	}

	ap2 := seedAppointment(t, db, "completed", time.Now().Add(-time.Hour))
	err = n.Handle(context.Background(), Event{
		Kind: KindTransitioned, AppointmentID: ap2.ID,
		OldStatus: "confirmed", NewStatus: "completed",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := countNotifications(t, db, ap2.ClientID, models.NotifAppointmentCompleted); got != 1 {
		t.Fatalf("expected completion thank-you, got %d", got)
	}
}

func TestNotifier_SendFailureIsRecorded(t *testing.T) {
	db := openTestDB(t)
	sms := &fakeSMS{fail: true}
	n := NewNotifier(db, sms, &fakeEmail{}, "Barberian")

	ap := seedAppointment(t, db, "confirmed", time.Now().Add(24*time.Hour))
	err := n.Handle(context.Background(), Event{
		Kind: KindTransitioned, AppointmentID: ap.ID,
		OldStatus: "pending", NewStatus: "confirmed",
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	var row models.SMSNotification
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("sms row: %v", err)
	}
	if row.Status != models.SMSStatusFailed || row.ErrorMessage == "" {
		t.Fatalf("expected failed sms with error recorded, got %+v", row)
	}
}

func TestNotifier_RescheduledSMSOnlyWhenConfirmed(t *testing.T) {
	db := openTestDB(t)
	sms := &fakeSMS{}
	n := NewNotifier(db, sms, &fakeEmail{}, "Barberian")

	pending := seedAppointment(t, db, "pending", time.Now().Add(24*time.Hour))
	if err := n.Handle(context.Background(), Event{Kind: KindRescheduled, AppointmentID: pending.ID}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sms.sentCount() != 0 {
		t.Fatalf("pending reschedule must not send sms, got %d", sms.sentCount())
	}

	confirmed := seedAppointment(t, db, "confirmed", time.Now().Add(24*time.Hour))
	if err := n.Handle(context.Background(), Event{Kind: KindRescheduled, AppointmentID: confirmed.ID}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if sms.sentCount() != 1 {
		t.Fatalf("confirmed reschedule must send sms, got %d", sms.sentCount())
	}
	if got := countNotifications(t, db, confirmed.ClientID, models.NotifAppointmentUpdated); got != 1 {
		t.Fatalf("expected reschedule notice for client, got %d", got)
	}
}
