package dto

import (
	"encoding/json"
	"time"
)

type LogResponse struct {
	ID        uint            `json:"id"`
	Accion    string          `json:"accion"`
	Entidad   *string         `json:"entidad"`
	EntidadID *uint           `json:"entidad_id"`
	Detalles  json.RawMessage `json:"detalles,omitempty"`
	IP        *string         `json:"ip"`
	UserAgent *string         `json:"user_agent"`
	CreatedAt time.Time       `json:"created_at"`
}
