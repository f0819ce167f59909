package memory

import (
	"context"
	"sort"

	"facturas/internal/model"
	"facturas/internal/repository"

	"gorm.io/datatypes"
)

type logRepo struct{ s *Store }

var _ repository.LogRepository = (*logRepo)(nil)

func cloneLog(l *model.Log) model.Log {
	cp := *l
	cp.UsuarioID = cloneUint(l.UsuarioID)
	cp.EntidadID = cloneUint(l.EntidadID)
	cp.IP = cloneString(l.IP)
	cp.UserAgent = cloneString(l.UserAgent)
	if l.Entidad != nil {
		e := *l.Entidad
		cp.Entidad = &e
	}
	if l.Detalles != nil {
		cp.Detalles = append(datatypes.JSON(nil), l.Detalles...)
	}
	return cp
}

func (r *logRepo) Create(_ context.Context, l *model.Log) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l.ID = r.s.nextID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.s.timestamp()
	}
	cp := cloneLog(l)
	r.s.logs = append(r.s.logs, &cp)
	return nil
}

func (r *logRepo) ListByUsuario(_ context.Context, usuarioID uint) ([]model.Log, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Log, 0)
	for _, l := range r.s.logs {
		if l.UsuarioID != nil && *l.UsuarioID == usuarioID {
			out = append(out, cloneLog(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
