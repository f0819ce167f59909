package model

import "time"

// Roles.
const (
	RolAdmin   = "admin"
	RolUsuario = "usuario"
)

// Usuario is an account that owns clients, products, invoices and a company profile.
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Nombre       string `gorm:"not null"`
	Apellido     string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null;default:'usuario'"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
