package repository

import (
	"context"
	"strings"

	"facturas/internal/model"

	"gorm.io/gorm"
)

// ClienteRepository scopes every read and write to the owning user.
// FindByID also returns inactive clients so old invoices keep resolving them.
type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id, usuarioID uint) (*model.Cliente, error)
	ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Cliente, error)
	Buscar(ctx context.Context, query string, usuarioID uint) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	// SoftDelete deactivates an active record; inactive ones count as not found.
	SoftDelete(ctx context.Context, id, usuarioID uint) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	c.Activo = true
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *clienteRepo) FindByID(ctx context.Context, id, usuarioID uint) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *clienteRepo) ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Cliente, error) {
	var clientes []model.Cliente
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND activo = ?", usuarioID, true).
		Order("id ASC").
		Find(&clientes).Error
	return clientes, err
}

// Buscar matches nombre, email or nif, case-insensitively.
func (r *clienteRepo) Buscar(ctx context.Context, query string, usuarioID uint) ([]model.Cliente, error) {
	var clientes []model.Cliente
	q := likePattern(strings.ToLower(query))
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND activo = ?", usuarioID, true).
		Where("LOWER(nombre) LIKE ? OR LOWER(COALESCE(email, '')) LIKE ? OR LOWER(COALESCE(nif, '')) LIKE ?", q, q, q).
		Order("id ASC").
		Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	res := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Where("id = ? AND usuario_id = ?", c.ID, c.UsuarioID).
		Updates(map[string]any{
			"nombre":        c.Nombre,
			"email":         c.Email,
			"telefono":      c.Telefono,
			"direccion":     c.Direccion,
			"ciudad":        c.Ciudad,
			"codigo_postal": c.CodigoPostal,
			"pais":          c.Pais,
			"nif":           c.NIF,
		})
	return affected(res)
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id, usuarioID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Cliente{}).
		Where("id = ? AND usuario_id = ? AND activo = ?", id, usuarioID, true).
		Update("activo", false)
	return affected(res)
}
