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

// ClienteService manages the caller's clients. Every method is scoped to usuarioID.
type ClienteService interface {
	Crear(ctx context.Context, usuarioID uint, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id, usuarioID uint) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, usuarioID uint) ([]dto.ClienteResponse, error)
	Buscar(ctx context.Context, query string, usuarioID uint) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id, usuarioID uint, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id, usuarioID uint) error
}

type clienteService struct {
	repo  repository.ClienteRepository
	audit AuditoriaService
}

func NewClienteService(repo repository.ClienteRepository, audit AuditoriaService) ClienteService {
	return &clienteService{repo: repo, audit: audit}
}

func (s *clienteService) Crear(ctx context.Context, usuarioID uint, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		return nil, errs.Invalid("nombre", "required")
	}
	c := &model.Cliente{
		Nombre:       nombre,
		Email:        req.Email,
		Telefono:     req.Telefono,
		Direccion:    req.Direccion,
		Ciudad:       req.Ciudad,
		CodigoPostal: req.CodigoPostal,
		Pais:         req.Pais,
		NIF:          req.NIF,
		UsuarioID:    usuarioID,
	}
	if c.Pais == nil {
		pais := model.PaisPorDefecto
		c.Pais = &pais
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	auditar(ctx, s.audit, usuarioID, model.AccionCrear, model.EntidadCliente, c.ID, map[string]any{"nombre": c.Nombre})
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) Obtener(ctx context.Context, id, usuarioID uint) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("cliente %d: %w", id, err)
	}
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, usuarioID uint) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return mapClientes(clientes), nil
}

func (s *clienteService) Buscar(ctx context.Context, query string, usuarioID uint) ([]dto.ClienteResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Invalid("q", "required")
	}
	clientes, err := s.repo.Buscar(ctx, query, usuarioID)
	if err != nil {
		return nil, err
	}
	return mapClientes(clientes), nil
}

func (s *clienteService) Actualizar(ctx context.Context, id, usuarioID uint, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("cliente %d: %w", id, err)
	}
	if req.Nombre != nil {
		nombre := strings.TrimSpace(*req.Nombre)
		if nombre == "" {
			return nil, errs.Invalid("nombre", "required")
		}
		c.Nombre = nombre
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if req.Ciudad != nil {
		c.Ciudad = req.Ciudad
	}
	if req.CodigoPostal != nil {
		c.CodigoPostal = req.CodigoPostal
	}
	if req.Pais != nil {
		c.Pais = req.Pais
	}
	if req.NIF != nil {
		c.NIF = req.NIF
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("cliente %d: %w", id, err)
	}
	auditar(ctx, s.audit, usuarioID, model.AccionActualizar, model.EntidadCliente, c.ID, req)
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) Eliminar(ctx context.Context, id, usuarioID uint) error {
	if err := s.repo.SoftDelete(ctx, id, usuarioID); err != nil {
		return fmt.Errorf("cliente %d: %w", id, err)
	}
	auditar(ctx, s.audit, usuarioID, model.AccionEliminar, model.EntidadCliente, id, nil)
	return nil
}

func mapClientes(clientes []model.Cliente) []dto.ClienteResponse {
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, mapCliente(&clientes[i]))
	}
	return out
}
