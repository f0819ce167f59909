package memory

import (
	"context"
	"sort"
	"time"

	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"
)

type facturaRepo struct{ s *Store }

var _ repository.FacturaRepository = (*facturaRepo)(nil)

func cloneFacturaHeader(f *model.Factura) *model.Factura {
	cp := *f
	cp.FechaVencimiento = cloneTime(f.FechaVencimiento)
	cp.Notas = cloneString(f.Notas)
	cp.Cliente = nil
	cp.Lineas = nil
	return &cp
}

func cloneLinea(l *model.LineaFactura) model.LineaFactura {
	cp := *l
	cp.ProductoID = cloneUint(l.ProductoID)
	return cp
}

// Create runs entirely under the write lock: the sequence bump, the header and
// every line become visible together or not at all.
func (r *facturaRepo) Create(_ context.Context, f *model.Factura, anio int, numerar repository.Numerador) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := secuenciaKey{usuarioID: f.UsuarioID, anio: anio}
	seq := r.s.secuencias[key] + 1
	numero := numerar(anio, seq)
	for _, existing := range r.s.facturas {
		if existing.UsuarioID == f.UsuarioID && existing.Numero == numero {
			return errs.ErrAlreadyExists
		}
	}
	r.s.secuencias[key] = seq

	f.ID = r.s.nextID()
	f.Numero = numero
	if f.Estado == "" {
		f.Estado = model.EstadoPendiente
	}
	f.CreatedAt = r.s.timestamp()
	f.UpdatedAt = f.CreatedAt
	for i := range f.Lineas {
		f.Lineas[i].ID = r.s.nextID()
		f.Lineas[i].FacturaID = f.ID
		l := cloneLinea(&f.Lineas[i])
		r.s.lineas[l.ID] = &l
	}
	r.s.facturas[f.ID] = cloneFacturaHeader(f)
	return nil
}

func (r *facturaRepo) FindByID(_ context.Context, id, usuarioID uint) (*model.Factura, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.facturas[id]
	if !ok || f.UsuarioID != usuarioID {
		return nil, errs.ErrNotFound
	}
	return r.componer(f), nil
}

func (r *facturaRepo) ListByUsuario(_ context.Context, usuarioID uint) ([]model.Factura, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Factura, 0)
	for _, f := range r.s.facturas {
		if f.UsuarioID == usuarioID {
			out = append(out, *r.componer(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.After(out[j].Fecha)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *facturaRepo) ListLineas(_ context.Context, facturaID uint) ([]model.LineaFactura, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.lineasDe(facturaID), nil
}

// componer attaches the client and lines. Caller holds mu.
func (r *facturaRepo) componer(f *model.Factura) *model.Factura {
	out := cloneFacturaHeader(f)
	if c, ok := r.s.clientes[f.ClienteID]; ok {
		out.Cliente = cloneCliente(c)
	}
	out.Lineas = r.lineasDe(f.ID)
	return out
}

// lineasDe returns copies ordered by id. Caller holds mu.
func (r *facturaRepo) lineasDe(facturaID uint) []model.LineaFactura {
	out := make([]model.LineaFactura, 0)
	for _, l := range r.s.lineas {
		if l.FacturaID == facturaID {
			out = append(out, cloneLinea(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *facturaRepo) UpdateDatos(_ context.Context, f *model.Factura) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.facturas[f.ID]
	if !ok || stored.UsuarioID != f.UsuarioID {
		return errs.ErrNotFound
	}
	stored.Estado = f.Estado
	stored.FechaVencimiento = cloneTime(f.FechaVencimiento)
	stored.Notas = cloneString(f.Notas)
	stored.UpdatedAt = r.s.timestamp()
	f.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *facturaRepo) Delete(_ context.Context, id, usuarioID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.facturas[id]
	if !ok || f.UsuarioID != usuarioID {
		return errs.ErrNotFound
	}
	for lid, l := range r.s.lineas {
		if l.FacturaID == id {
			delete(r.s.lineas, lid)
		}
	}
	delete(r.s.facturas, id)
	return nil
}

func (r *facturaRepo) SiguienteSecuencia(_ context.Context, usuarioID uint, anio int) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.secuencias[secuenciaKey{usuarioID: usuarioID, anio: anio}] + 1, nil
}

func (r *facturaRepo) MarcarVencidas(_ context.Context, ahora time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, f := range r.s.facturas {
		if f.Estado == model.EstadoPendiente && f.FechaVencimiento != nil && f.FechaVencimiento.Before(ahora) {
			f.Estado = model.EstadoVencida
			f.UpdatedAt = r.s.timestamp()
			n++
		}
	}
	return n, nil
}
