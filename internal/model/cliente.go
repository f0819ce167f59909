package model

import "time"

// PaisPorDefecto is applied when a client is created without a country.
const PaisPorDefecto = "España"

// Cliente is a customer of the owning user. Deletion is soft (Activo=false).
type Cliente struct {
	ID           uint   `gorm:"primaryKey"`
	Nombre       string `gorm:"index;not null"`
	Email        *string
	Telefono     *string
	Direccion    *string
	Ciudad       *string
	CodigoPostal *string
	Pais         *string
	NIF          *string `gorm:"column:nif"`
	UsuarioID    uint    `gorm:"index;not null"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Cliente) TableName() string { return "clientes" }
