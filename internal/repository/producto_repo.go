package repository

import (
	"context"
	"strings"

	"facturas/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository follows the same ownership and soft-delete rules as ClienteRepository.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id, usuarioID uint) (*model.Producto, error)
	ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Producto, error)
	Buscar(ctx context.Context, query string, usuarioID uint) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	// SoftDelete deactivates an active record; inactive ones count as not found.
	SoftDelete(ctx context.Context, id, usuarioID uint) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	p.Activo = true
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *productoRepo) FindByID(ctx context.Context, id, usuarioID uint) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, usuarioID).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *productoRepo) ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND activo = ?", usuarioID, true).
		Order("id ASC").
		Find(&productos).Error
	return productos, err
}

// Buscar matches nombre, descripcion or codigo, case-insensitively.
func (r *productoRepo) Buscar(ctx context.Context, query string, usuarioID uint) ([]model.Producto, error) {
	var productos []model.Producto
	q := likePattern(strings.ToLower(query))
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND activo = ?", usuarioID, true).
		Where("LOWER(nombre) LIKE ? OR LOWER(COALESCE(descripcion, '')) LIKE ? OR LOWER(COALESCE(codigo, '')) LIKE ?", q, q, q).
		Order("id ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND usuario_id = ?", p.ID, p.UsuarioID).
		Updates(map[string]any{
			"nombre":      p.Nombre,
			"descripcion": p.Descripcion,
			"precio":      p.Precio,
			"categoria":   p.Categoria,
			"codigo":      p.Codigo,
			"stock":       p.Stock,
		})
	return affected(res)
}

func (r *productoRepo) SoftDelete(ctx context.Context, id, usuarioID uint) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND usuario_id = ? AND activo = ?", id, usuarioID, true).
		Update("activo", false)
	return affected(res)
}
