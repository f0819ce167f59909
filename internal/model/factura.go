package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura.
const (
	EstadoPendiente = "pendiente"
	EstadoPagada    = "pagada"
	EstadoVencida   = "vencida"
	EstadoCancelada = "cancelada"
)

// EstadoValido reports whether s is one of the known invoice states.
func EstadoValido(s string) bool {
	switch s {
	case EstadoPendiente, EstadoPagada, EstadoVencida, EstadoCancelada:
		return true
	}
	return false
}

// Factura is an invoice header. Subtotal, IVA and Total are fixed at creation
// from the lines and never recomputed.
type Factura struct {
	ID               uint      `gorm:"primaryKey"`
	Numero           string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_facturas_usuario_numero,priority:2"`
	ClienteID        uint      `gorm:"not null;index"`
	UsuarioID        uint      `gorm:"not null;uniqueIndex:idx_facturas_usuario_numero,priority:1"`
	Fecha            time.Time `gorm:"not null;index"`
	FechaVencimiento *time.Time
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IVA              decimal.Decimal `gorm:"column:iva;type:decimal(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado           string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Notas            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Cliente *Cliente       `gorm:"foreignKey:ClienteID"`
	Lineas  []LineaFactura `gorm:"foreignKey:FacturaID;constraint:OnDelete:CASCADE"`
}

func (Factura) TableName() string { return "facturas" }

// LineaFactura is a single invoice line. Total = Cantidad × Precio.
type LineaFactura struct {
	ID          uint            `gorm:"primaryKey"`
	FacturaID   uint            `gorm:"not null;index"`
	ProductoID  *uint           `gorm:"index"`
	Descripcion string          `gorm:"not null"`
	Cantidad    int             `gorm:"not null"`
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (LineaFactura) TableName() string { return "lineas_factura" }

// SecuenciaFactura is the per-owner, per-year invoice counter. Ultimo only grows,
// so a number freed by a deletion is never handed out again.
type SecuenciaFactura struct {
	ID        uint `gorm:"primaryKey"`
	UsuarioID uint `gorm:"not null;uniqueIndex:idx_secuencia_usuario_anio,priority:1"`
	Anio      int  `gorm:"not null;uniqueIndex:idx_secuencia_usuario_anio,priority:2"`
	Ultimo    int  `gorm:"not null"`
}

func (SecuenciaFactura) TableName() string { return "secuencias_factura" }
