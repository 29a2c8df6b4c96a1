package appointment

import "github.com/barberian/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Tabela de transições legais. Tudo fora dela é illegal_transition,
// inclusive repetir o status atual.
var legalTransitions = map[Status]map[Status]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusCompleted: true,
		StatusCancelled: true,
		StatusNoShow:    true,
	},
}

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal informa se o status não admite transição de saída.
func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

func CanTransition(from, to Status) error {
	if legalTransitions[from][to] {
		return nil
	}
	return httperr.ErrBusiness(httperr.CodeIllegalTransition)
}

// IsActive: status que ocupam horário na agenda (contam para conflito).
func IsActive(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}
