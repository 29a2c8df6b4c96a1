package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos de erro de negócio expostos no JSON de resposta.
const (
	CodeInvalidService    = "invalid_service"
	CodePastBooking       = "past_booking"
	CodeNoStaffAvailable  = "no_staff_available"
	CodeMissingGuestInfo  = "missing_guest_info"
	CodeSlotTaken         = "slot_taken"
	CodeIllegalTransition = "illegal_transition"
	CodeAlreadyFinalized  = "already_finalized"
	CodeAppointmentInPast = "appointment_in_past"
	CodeNotFound          = "not_found"
	CodeValidationError   = "validation_error"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// IsExclusionConflict detecta violação da constraint de exclusão de
// horários (23P01) ou de unicidade (23505) vinda do Postgres.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
