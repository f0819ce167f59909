package memory

import (
	"context"
	"strings"

	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"
)

type usuarioRepo struct{ s *Store }

var _ repository.UsuarioRepository = (*usuarioRepo)(nil)

func (r *usuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range r.s.usuarios {
		if existing.Email == u.Email {
			return errs.ErrAlreadyExists
		}
	}
	if u.Rol == "" {
		u.Rol = model.RolUsuario
	}
	u.ID = r.s.nextID()
	u.CreatedAt = r.s.timestamp()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.s.usuarios[u.ID] = &cp
	return nil
}

func (r *usuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.usuarios[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *usuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.usuarios {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (r *usuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.usuarios[u.ID]
	if !ok {
		return errs.ErrNotFound
	}
	stored.Nombre = u.Nombre
	stored.Apellido = u.Apellido
	stored.PasswordHash = u.PasswordHash
	stored.Rol = u.Rol
	stored.Activo = u.Activo
	stored.UpdatedAt = r.s.timestamp()
	u.UpdatedAt = stored.UpdatedAt
	return nil
}
