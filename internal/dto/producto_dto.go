package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=1,max=200"`
	Descripcion *string         `json:"descripcion" validate:"omitempty,max=1000"`
	Precio      decimal.Decimal `json:"precio"      validate:"min=0"`
	Categoria   *string         `json:"categoria"   validate:"omitempty,max=100"`
	Codigo      *string         `json:"codigo"      validate:"omitempty,max=50"`
	Stock       *int            `json:"stock"       validate:"omitempty,min=0"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,min=1,max=200"`
	Descripcion *string          `json:"descripcion" validate:"omitempty,max=1000"`
	Precio      *decimal.Decimal `json:"precio"`
	Categoria   *string          `json:"categoria"   validate:"omitempty,max=100"`
	Codigo      *string          `json:"codigo"      validate:"omitempty,max=50"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          uint            `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	Categoria   *string         `json:"categoria"`
	Codigo      *string         `json:"codigo"`
	Stock       *int            `json:"stock"`
	Activo      bool            `json:"activo"`
	CreatedAt   time.Time       `json:"created_at"`
}
