package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto is a catalog item of the owning user. Deletion is soft (Activo=false).
type Producto struct {
	ID          uint   `gorm:"primaryKey"`
	Nombre      string `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Categoria   *string
	Codigo      *string
	Stock       *int
	UsuarioID   uint `gorm:"index;not null"`
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }
