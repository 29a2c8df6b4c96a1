package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleClient = "client"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:150;not null" json:"first_name"`
	LastName  string `gorm:"size:150;not null" json:"last_name"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	Role string `gorm:"size:10;default:'client'" json:"role"`

	// Campos de perfil usados apenas para staff
	Specialization string `gorm:"size:100" json:"specialization,omitempty"`
	Bio            string `gorm:"size:500" json:"bio,omitempty"`

	// Sem default:true: criar usuário inativo precisa persistir false.
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
