package repository

import (
	"context"
	"errors"

	"facturas/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EmpresaRepository interface {
	FindByUsuario(ctx context.Context, usuarioID uint) (*model.ConfiguracionEmpresa, error)
	// Guardar creates the owner's profile or overwrites the existing one, keeping its ID.
	Guardar(ctx context.Context, e *model.ConfiguracionEmpresa) error
}

type empresaRepo struct{ db *gorm.DB }

func NewEmpresaRepository(db *gorm.DB) EmpresaRepository { return &empresaRepo{db: db} }

func (r *empresaRepo) FindByUsuario(ctx context.Context, usuarioID uint) (*model.ConfiguracionEmpresa, error) {
	var e model.ConfiguracionEmpresa
	if err := r.db.WithContext(ctx).Where("usuario_id = ?", usuarioID).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *empresaRepo) Guardar(ctx context.Context, e *model.ConfiguracionEmpresa) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var actual model.ConfiguracionEmpresa
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("usuario_id = ?", e.UsuarioID).
			First(&actual).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return translate(tx.Create(e).Error)
		case err != nil:
			return err
		}
		e.ID = actual.ID
		e.CreatedAt = actual.CreatedAt
		return tx.Model(&actual).Updates(map[string]any{
			"nombre":    e.Nombre,
			"direccion": e.Direccion,
			"telefono":  e.Telefono,
			"email":     e.Email,
			"nif":       e.NIF,
			"logo":      e.Logo,
		}).Error
	})
}
