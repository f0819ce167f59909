package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre       string  `json:"nombre"        validate:"required,min=1,max=200"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefono     *string `json:"telefono"      validate:"omitempty,max=30"`
	Direccion    *string `json:"direccion"     validate:"omitempty,max=300"`
	Ciudad       *string `json:"ciudad"        validate:"omitempty,max=100"`
	CodigoPostal *string `json:"codigo_postal" validate:"omitempty,max=10"`
	Pais         *string `json:"pais"          validate:"omitempty,max=100"`
	NIF          *string `json:"nif"           validate:"omitempty,max=20"`
}

type ActualizarClienteRequest struct {
	Nombre       *string `json:"nombre"        validate:"omitempty,min=1,max=200"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	Telefono     *string `json:"telefono"      validate:"omitempty,max=30"`
	Direccion    *string `json:"direccion"     validate:"omitempty,max=300"`
	Ciudad       *string `json:"ciudad"        validate:"omitempty,max=100"`
	CodigoPostal *string `json:"codigo_postal" validate:"omitempty,max=10"`
	Pais         *string `json:"pais"          validate:"omitempty,max=100"`
	NIF          *string `json:"nif"           validate:"omitempty,max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID           uint      `json:"id"`
	Nombre       string    `json:"nombre"`
	Email        *string   `json:"email"`
	Telefono     *string   `json:"telefono"`
	Direccion    *string   `json:"direccion"`
	Ciudad       *string   `json:"ciudad"`
	CodigoPostal *string   `json:"codigo_postal"`
	Pais         *string   `json:"pais"`
	NIF          *string   `json:"nif"`
	Activo       bool      `json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
}
