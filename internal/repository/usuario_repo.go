package repository

import (
	"context"
	"strings"

	"facturas/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByID(ctx context.Context, id uint) (*model.Usuario, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("id = ?", u.ID).Updates(map[string]any{
		"nombre":        u.Nombre,
		"apellido":      u.Apellido,
		"password_hash": u.PasswordHash,
		"rol":           u.Rol,
		"activo":        u.Activo,
	})
	return affected(res)
}
