package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LineaFacturaRequest struct {
	ProductoID  *uint           `json:"producto_id"`
	Descripcion string          `json:"descripcion" validate:"max=500"`
	Cantidad    int             `json:"cantidad"    validate:"required,min=1"`
	Precio      decimal.Decimal `json:"precio"      validate:"min=0"`
}

// CrearFacturaRequest omits numero and totals: both are computed server-side.
type CrearFacturaRequest struct {
	ClienteID        uint                  `json:"cliente_id"        validate:"required"`
	Fecha            *time.Time            `json:"fecha"`
	FechaVencimiento *time.Time            `json:"fecha_vencimiento"`
	Notas            *string               `json:"notas"             validate:"omitempty,max=2000"`
	Lineas           []LineaFacturaRequest `json:"lineas"            validate:"required,min=1,dive"`
}

type ActualizarFacturaRequest struct {
	Estado           *string    `json:"estado"            validate:"omitempty,oneof=pendiente pagada vencida cancelada"`
	FechaVencimiento *time.Time `json:"fecha_vencimiento"`
	Notas            *string    `json:"notas"             validate:"omitempty,max=2000"`
}

type EnviarFacturaRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaFacturaResponse struct {
	ID          uint            `json:"id"`
	ProductoID  *uint           `json:"producto_id"`
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Precio      decimal.Decimal `json:"precio"`
	Total       decimal.Decimal `json:"total"`
}

type FacturaResponse struct {
	ID               uint                   `json:"id"`
	Numero           string                 `json:"numero"`
	ClienteID        uint                   `json:"cliente_id"`
	Cliente          *ClienteResponse       `json:"cliente,omitempty"`
	Fecha            time.Time              `json:"fecha"`
	FechaVencimiento *time.Time             `json:"fecha_vencimiento"`
	Subtotal         decimal.Decimal        `json:"subtotal"`
	IVA              decimal.Decimal        `json:"iva"`
	Total            decimal.Decimal        `json:"total"`
	Estado           string                 `json:"estado"`
	Notas            *string                `json:"notas"`
	Lineas           []LineaFacturaResponse `json:"lineas"`
	CreatedAt        time.Time              `json:"created_at"`
}

type ProximoNumeroResponse struct {
	Numero string `json:"numero"`
}

// EnvioFacturaPayload is the queued job body for emailing an invoice PDF.
type EnvioFacturaPayload struct {
	FacturaID    uint   `json:"factura_id"`
	UsuarioID    uint   `json:"usuario_id"`
	Destinatario string `json:"destinatario"`
}
