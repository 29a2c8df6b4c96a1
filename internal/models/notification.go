package models

import "time"

const (
	NotifAppointmentCreated   = "appointment_created"
	NotifAppointmentUpdated   = "appointment_updated"
	NotifAppointmentReminder  = "appointment_reminder"
	NotifAppointmentCancelled = "appointment_cancelled"
	NotifAppointmentCompleted = "appointment_completed"
	NotifSystem               = "system"
)

// Notificação in-app. ReferenceID aponta para a entidade relacionada
// (hoje, sempre o ID do agendamento).
type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RecipientID uint `gorm:"index;not null" json:"recipient_id"`
	Recipient   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"size:1000;not null" json:"message"`

	Type        string `gorm:"size:50;default:'system'" json:"type"`
	ReferenceID string `gorm:"size:50;index" json:"reference_id"`

	IsRead bool `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	SMSStatusPending     = "pending"
	SMSStatusSent        = "sent"
	SMSStatusDelivered   = "delivered"
	SMSStatusFailed      = "failed"
	SMSStatusUndelivered = "undelivered"
)

// Registro de SMS enviado via provedor externo. ProviderID é o
// identificador devolvido pelo provedor, usado no refresh de status.
type SMSNotification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RecipientID *uint  `gorm:"index" json:"recipient_id"`
	Phone       string `gorm:"size:20;not null" json:"phone"`
	Message     string `gorm:"size:500;not null" json:"message"`

	Type        string `gorm:"size:50;default:'system'" json:"type"`
	ReferenceID string `gorm:"size:50;index" json:"reference_id"`

	Status       string `gorm:"size:20;default:'pending'" json:"status"`
	ProviderID   string `gorm:"size:100" json:"provider_id"`
	ErrorMessage string `gorm:"size:255" json:"error_message"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
