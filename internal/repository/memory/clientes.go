package memory

import (
	"context"
	"sort"
	"strings"

	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"
)

type clienteRepo struct{ s *Store }

var _ repository.ClienteRepository = (*clienteRepo)(nil)

func cloneCliente(c *model.Cliente) *model.Cliente {
	cp := *c
	cp.Email = cloneString(c.Email)
	cp.Telefono = cloneString(c.Telefono)
	cp.Direccion = cloneString(c.Direccion)
	cp.Ciudad = cloneString(c.Ciudad)
	cp.CodigoPostal = cloneString(c.CodigoPostal)
	cp.Pais = cloneString(c.Pais)
	cp.NIF = cloneString(c.NIF)
	return &cp
}

func (r *clienteRepo) Create(_ context.Context, c *model.Cliente) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c.ID = r.s.nextID()
	c.Activo = true
	c.CreatedAt = r.s.timestamp()
	c.UpdatedAt = c.CreatedAt
	r.s.clientes[c.ID] = cloneCliente(c)
	return nil
}

func (r *clienteRepo) FindByID(_ context.Context, id, usuarioID uint) (*model.Cliente, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.clientes[id]
	if !ok || c.UsuarioID != usuarioID {
		return nil, errs.ErrNotFound
	}
	return cloneCliente(c), nil
}

func (r *clienteRepo) ListByUsuario(_ context.Context, usuarioID uint) ([]model.Cliente, error) {
	return r.filtrar(usuarioID, func(*model.Cliente) bool { return true }), nil
}

func (r *clienteRepo) Buscar(_ context.Context, query string, usuarioID uint) ([]model.Cliente, error) {
	q := strings.ToLower(query)
	return r.filtrar(usuarioID, func(c *model.Cliente) bool {
		return contiene(c.Nombre, q) || contienePtr(c.Email, q) || contienePtr(c.NIF, q)
	}), nil
}

// filtrar returns the owner's active clients accepted by keep, ordered by id.
func (r *clienteRepo) filtrar(usuarioID uint, keep func(*model.Cliente) bool) []model.Cliente {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Cliente, 0)
	for _, c := range r.s.clientes {
		if c.UsuarioID == usuarioID && c.Activo && keep(c) {
			out = append(out, *cloneCliente(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *clienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.clientes[c.ID]
	if !ok || stored.UsuarioID != c.UsuarioID {
		return errs.ErrNotFound
	}
	next := cloneCliente(c)
	next.Activo = stored.Activo
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = r.s.timestamp()
	r.s.clientes[c.ID] = next
	c.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *clienteRepo) SoftDelete(_ context.Context, id, usuarioID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.clientes[id]
	if !ok || c.UsuarioID != usuarioID || !c.Activo {
		return errs.ErrNotFound
	}
	c.Activo = false
	c.UpdatedAt = r.s.timestamp()
	return nil
}

func contiene(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func contienePtr(s *string, lowerQuery string) bool {
	return s != nil && contiene(*s, lowerQuery)
}
