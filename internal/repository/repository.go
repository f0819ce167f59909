// Package repository holds the data access contracts used by the services and
// their GORM implementations. The in-memory implementation lives in
// repository/memory.
package repository

import (
	"errors"

	"facturas/internal/errs"

	"gorm.io/gorm"
)

// Repositories groups one implementation of every contract so the router and
// the CLI can be wired from either storage backend.
type Repositories struct {
	Usuarios  UsuarioRepository
	Clientes  ClienteRepository
	Productos ProductoRepository
	Facturas  FacturaRepository
	Empresas  EmpresaRepository
	Logs      LogRepository
}

// NewGormRepositories builds the GORM-backed set over db.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Usuarios:  NewUsuarioRepository(db),
		Clientes:  NewClienteRepository(db),
		Productos: NewProductoRepository(db),
		Facturas:  NewFacturaRepository(db),
		Empresas:  NewEmpresaRepository(db),
		Logs:      NewLogRepository(db),
	}
}

// translate maps GORM errors onto the shared error kinds.
// Duplicate detection requires gorm.Config.TranslateError.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errs.ErrAlreadyExists
	}
	return err
}

// affected turns a zero-row write into ErrNotFound.
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func likePattern(q string) string {
	return "%" + q + "%"
}
