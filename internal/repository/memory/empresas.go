package memory

import (
	"context"

	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"
)

type empresaRepo struct{ s *Store }

var _ repository.EmpresaRepository = (*empresaRepo)(nil)

func cloneEmpresa(e *model.ConfiguracionEmpresa) *model.ConfiguracionEmpresa {
	cp := *e
	cp.Direccion = cloneString(e.Direccion)
	cp.Telefono = cloneString(e.Telefono)
	cp.Email = cloneString(e.Email)
	cp.NIF = cloneString(e.NIF)
	cp.Logo = cloneString(e.Logo)
	return &cp
}

func (r *empresaRepo) FindByUsuario(_ context.Context, usuarioID uint) (*model.ConfiguracionEmpresa, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.empresas[usuarioID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return cloneEmpresa(e), nil
}

func (r *empresaRepo) Guardar(_ context.Context, e *model.ConfiguracionEmpresa) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	if actual, ok := r.s.empresas[e.UsuarioID]; ok {
		e.ID = actual.ID
		e.CreatedAt = actual.CreatedAt
	} else {
		e.ID = r.s.nextID()
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	r.s.empresas[e.UsuarioID] = cloneEmpresa(e)
	return nil
}
