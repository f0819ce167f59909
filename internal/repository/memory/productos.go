package memory

import (
	"context"
	"sort"
	"strings"

	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"
)

type productoRepo struct{ s *Store }

var _ repository.ProductoRepository = (*productoRepo)(nil)

func cloneProducto(p *model.Producto) *model.Producto {
	cp := *p
	cp.Descripcion = cloneString(p.Descripcion)
	cp.Categoria = cloneString(p.Categoria)
	cp.Codigo = cloneString(p.Codigo)
	cp.Stock = cloneInt(p.Stock)
	return &cp
}

func (r *productoRepo) Create(_ context.Context, p *model.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.nextID()
	p.Activo = true
	p.CreatedAt = r.s.timestamp()
	p.UpdatedAt = p.CreatedAt
	r.s.productos[p.ID] = cloneProducto(p)
	return nil
}

func (r *productoRepo) FindByID(_ context.Context, id, usuarioID uint) (*model.Producto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.productos[id]
	if !ok || p.UsuarioID != usuarioID {
		return nil, errs.ErrNotFound
	}
	return cloneProducto(p), nil
}

func (r *productoRepo) ListByUsuario(_ context.Context, usuarioID uint) ([]model.Producto, error) {
	return r.filtrar(usuarioID, func(*model.Producto) bool { return true }), nil
}

func (r *productoRepo) Buscar(_ context.Context, query string, usuarioID uint) ([]model.Producto, error) {
	q := strings.ToLower(query)
	return r.filtrar(usuarioID, func(p *model.Producto) bool {
		return contiene(p.Nombre, q) || contienePtr(p.Descripcion, q) || contienePtr(p.Codigo, q)
	}), nil
}

func (r *productoRepo) filtrar(usuarioID uint, keep func(*model.Producto) bool) []model.Producto {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Producto, 0)
	for _, p := range r.s.productos {
		if p.UsuarioID == usuarioID && p.Activo && keep(p) {
			out = append(out, *cloneProducto(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *productoRepo) Update(_ context.Context, p *model.Producto) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.productos[p.ID]
	if !ok || stored.UsuarioID != p.UsuarioID {
		return errs.ErrNotFound
	}
	next := cloneProducto(p)
	next.Activo = stored.Activo
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = r.s.timestamp()
	r.s.productos[p.ID] = next
	p.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *productoRepo) SoftDelete(_ context.Context, id, usuarioID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.productos[id]
	if !ok || p.UsuarioID != usuarioID || !p.Activo {
		return errs.ErrNotFound
	}
	p.Activo = false
	p.UpdatedAt = r.s.timestamp()
	return nil
}
