package model

import (
	"time"

	"gorm.io/datatypes"
)

// Accion is the closed set of audited actions.
type Accion string

const (
	AccionCrear      Accion = "create"
	AccionActualizar Accion = "update"
	AccionEliminar   Accion = "delete"
	AccionLogin      Accion = "login"
	AccionLogout     Accion = "logout"
	AccionRegistro   Accion = "register"
	AccionConfigurar Accion = "configure"
)

// Entidad names the kind of record an audit entry refers to.
type Entidad string

const (
	EntidadUsuario  Entidad = "usuario"
	EntidadCliente  Entidad = "cliente"
	EntidadProducto Entidad = "producto"
	EntidadFactura  Entidad = "factura"
	EntidadEmpresa  Entidad = "empresa"
)

// Log is an append-only audit entry. UsuarioID is nil for system actions.
type Log struct {
	ID        uint     `gorm:"primaryKey"`
	UsuarioID *uint    `gorm:"index"`
	Accion    Accion   `gorm:"type:varchar(20);not null"`
	Entidad   *Entidad `gorm:"type:varchar(20)"`
	EntidadID *uint
	Detalles  datatypes.JSON
	IP        *string `gorm:"column:ip"`
	UserAgent *string
	CreatedAt time.Time `gorm:"index"`
}

func (Log) TableName() string { return "logs" }
