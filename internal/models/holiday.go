package models

import "time"

// Feriado em que a barbearia fecha. Se recorrente, o mês/dia vale
// todo ano, independente do ano armazenado em Date.
type Holiday struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string    `gorm:"size:100;not null" json:"name"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	IsRecurring bool      `gorm:"default:false" json:"is_recurring"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
