package service

import (
	"context"
	"fmt"
	"strings"

	"facturas/internal/dto"
	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"
)

type EmpresaService interface {
	// Obtener returns ErrNotFound until the profile is first saved.
	Obtener(ctx context.Context, usuarioID uint) (*dto.EmpresaResponse, error)
	Guardar(ctx context.Context, usuarioID uint, req dto.GuardarEmpresaRequest) (*dto.EmpresaResponse, error)
}

type empresaService struct {
	repo  repository.EmpresaRepository
	audit AuditoriaService
}

func NewEmpresaService(repo repository.EmpresaRepository, audit AuditoriaService) EmpresaService {
	return &empresaService{repo: repo, audit: audit}
}

func (s *empresaService) Obtener(ctx context.Context, usuarioID uint) (*dto.EmpresaResponse, error) {
	e, err := s.repo.FindByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("configuracion de empresa: %w", err)
	}
	resp := mapEmpresa(e)
	return &resp, nil
}

func (s *empresaService) Guardar(ctx context.Context, usuarioID uint, req dto.GuardarEmpresaRequest) (*dto.EmpresaResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, errs.Invalid("nombre", "required")
	}
	e := &model.ConfiguracionEmpresa{
		Nombre:    nombre,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
		Email:     req.Email,
		NIF:       req.NIF,
		Logo:      req.Logo,
		UsuarioID: usuarioID,
	}
	if err := s.repo.Guardar(ctx, e); err != nil {
		return nil, err
	}
	auditar(ctx, s.audit, usuarioID, model.AccionConfigurar, model.EntidadEmpresa, e.ID, map[string]any{"nombre": e.Nombre})
	resp := mapEmpresa(e)
	return &resp, nil
}
