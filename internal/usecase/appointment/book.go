package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domain "github.com/barberian/booking-api/internal/domain/appointment"
	"github.com/barberian/booking-api/internal/httperr"
	"github.com/barberian/booking-api/internal/models"
	"github.com/barberian/booking-api/internal/notification"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	// ClientID preenchido quando o chamador está autenticado.
	ClientID *uint

	// Dados do convidado, exigidos quando ClientID é nil.
	FirstName string
	LastName  string
	Email     string
	Phone     string

	ServiceID uint

	// StaffID nil → sorteio entre os barbeiros ativos.
	StaffID *uint

	Date     string // "2006-01-02"
	TimeSlot string // "14:00-14:30"
	Notes    string

	// Constante por rota (público → confirmed, staff → pending),
	// nunca escolhida pelo cliente.
	InitialStatus domain.Status
}

// ======================================================
// USE CASE
// ======================================================

type Book struct {
	repo     domain.Repository
	selector domain.StaffSelector
	events   EventSink
	loc      *time.Location
}

func NewBook(
	repo domain.Repository,
	selector domain.StaffSelector,
	events EventSink,
	loc *time.Location,
) *Book {
	return &Book{
		repo:     repo,
		selector: selector,
		events:   events,
		loc:      loc,
	}
}

func (uc *Book) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Serviço ativo
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !svc.Active {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidService)
	}

	// --------------------------------------------------
	// 2. Data/horário no futuro
	// --------------------------------------------------
	start, err := uc.parseStart(in.Date, in.TimeSlot)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidationError)
	}

	now := time.Now().In(uc.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	if start.Before(today) || !start.After(now) {
		return nil, httperr.ErrBusiness(httperr.CodePastBooking)
	}

	// --------------------------------------------------
	// 3. Barbeiro indicado ou sorteado
	// --------------------------------------------------
	staff, err := uc.resolveStaff(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Identidade do cliente (convidado vs autenticado)
	// --------------------------------------------------
	client, err := uc.resolveClient(ctx, in)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5–7. Fim derivado + rechecagem de conflito + insert atômicos
	// --------------------------------------------------
	status := in.InitialStatus
	if status != domain.StatusPending && status != domain.StatusConfirmed {
		status = domain.StatusConfirmed
	}

	ap := &models.Appointment{
		ClientID:  client.ID,
		StaffID:   staff.ID,
		ServiceID: svc.ID,
		StartTime: start,
		EndTime:   domain.ComputeEnd(start, svc.DurationMin),
		Status:    string(status),
		Notes:     in.Notes,
	}

	if err := uc.repo.CreateAppointmentTx(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8. Notificações (best-effort, nunca desfaz o booking)
	// --------------------------------------------------
	uc.events.Dispatch(notification.Event{
		Kind:          notification.KindCreated,
		AppointmentID: ap.ID,
		NewStatus:     ap.Status,
	})

	ap.Client = *client
	ap.Staff = *staff
	ap.Service = *svc
	return ap, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func (uc *Book) parseStart(dateStr, slot string) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, uc.loc)
	if err != nil {
		return time.Time{}, err
	}

	startHM, _, ok := strings.Cut(slot, "-")
	if !ok {
		startHM = slot
	}
	return domain.ClockOn(date, strings.TrimSpace(startHM))
}

func (uc *Book) resolveStaff(ctx context.Context, staffID *uint) (*models.User, error) {
	if staffID != nil {
		staff, err := uc.repo.GetStaff(ctx, *staffID)
		if err != nil || !staff.Active {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return staff, nil
	}

	active, err := uc.repo.ListActiveStaff(ctx)
	if err != nil {
		return nil, err
	}

	staff := uc.selector.Pick(active)
	if staff == nil {
		return nil, httperr.ErrBusiness(httperr.CodeNoStaffAvailable)
	}
	return staff, nil
}

func (uc *Book) resolveClient(ctx context.Context, in BookInput) (*models.User, error) {
	if in.ClientID != nil {
		client, err := uc.repo.GetClient(ctx, *in.ClientID)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return client, nil
	}

	// Convidado: os quatro campos são obrigatórios, antes de criar
	// qualquer identidade ou agendamento.
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" || email == "" || in.Phone == "" {
		return nil, httperr.ErrBusiness(httperr.CodeMissingGuestInfo)
	}

	existing, err := uc.repo.FindClientByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Credencial aleatória; o convidado nunca a recebe na resposta:
	// recuperação de senha acontece fora deste fluxo.
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	client := &models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		Phone:        in.Phone,
		PasswordHash: string(hashed),
		Role:         models.RoleClient,
		Active:       true,
	}
	if err := uc.repo.CreateClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}
