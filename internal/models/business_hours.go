package models

import "time"

// Um registro por dia da semana (0 = domingo ... 6 = sábado, time.Weekday).
// Horários no formato "15:04", interpretados no timezone da barbearia.
type BusinessHours struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DayOfWeek int `gorm:"uniqueIndex;not null" json:"day_of_week"`

	// Sem tag de default: o gorm omite campos zerados com default do
	// INSERT, e is_open=false viraria true no banco. Dia fechado
	// precisa persistir fechado.
	IsOpen bool `json:"is_open"`

	OpeningTime string `gorm:"size:5" json:"opening_time"`
	ClosingTime string `gorm:"size:5" json:"closing_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
