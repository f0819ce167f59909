package model

import "time"

// ConfiguracionEmpresa is the issuing company profile printed on invoices.
// At most one per user.
type ConfiguracionEmpresa struct {
	ID        uint   `gorm:"primaryKey"`
	Nombre    string `gorm:"not null"`
	Direccion *string
	Telefono  *string
	Email     *string
	NIF       *string `gorm:"column:nif"`
	Logo      *string
	UsuarioID uint `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ConfiguracionEmpresa) TableName() string { return "configuracion_empresa" }
