package notification

// Eventos de domínio emitidos pelo booking e pela máquina de estados.
// O dispatcher consome e decide as notificações; nenhum hook de
// persistência dispara notificação direto.

type Kind string

const (
	KindCreated      Kind = "appointment_created"
	KindTransitioned Kind = "appointment_transitioned"
	KindRescheduled  Kind = "appointment_rescheduled"
	KindUpdated      Kind = "appointment_updated"
)

type Event struct {
	Kind          Kind
	AppointmentID uint

	// Status anterior/novo, sempre explícitos, nunca inferidos de
	// diff de campos.
	OldStatus string
	NewStatus string
}
