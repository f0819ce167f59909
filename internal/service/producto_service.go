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

// ProductoService manages the caller's catalog. Every method is scoped to usuarioID.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID uint, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id, usuarioID uint) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, usuarioID uint) ([]dto.ProductoResponse, error)
	Buscar(ctx context.Context, query string, usuarioID uint) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id, usuarioID uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id, usuarioID uint) error
}

type productoService struct {
	repo  repository.ProductoRepository
	audit AuditoriaService
}

func NewProductoService(repo repository.ProductoRepository, audit AuditoriaService) ProductoService {
	return &productoService{repo: repo, audit: audit}
}

func (s *productoService) Crear(ctx context.Context, usuarioID uint, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	var c errs.Collector
	nombre := strings.TrimSpace(req.Nombre)
	if nombre == "" {
		c.Add("nombre", "required")
	}
	if !precioValido(req.Precio) {
		c.Add("precio", "invalid")
	}
	if req.Stock != nil && *req.Stock < 0 {
		c.Add("stock", "min")
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	p := &model.Producto{
		Nombre:      nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Categoria:   req.Categoria,
		Codigo:      req.Codigo,
		Stock:       req.Stock,
		UsuarioID:   usuarioID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	auditar(ctx, s.audit, usuarioID, model.AccionCrear, model.EntidadProducto, p.ID, map[string]any{"nombre": p.Nombre})
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Obtener(ctx context.Context, id, usuarioID uint) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("producto %d: %w", id, err)
	}
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, usuarioID uint) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return mapProductos(productos), nil
}

func (s *productoService) Buscar(ctx context.Context, query string, usuarioID uint) ([]dto.ProductoResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errs.Invalid("q", "required")
	}
	productos, err := s.repo.Buscar(ctx, query, usuarioID)
	if err != nil {
		return nil, err
	}
	return mapProductos(productos), nil
}

func (s *productoService) Actualizar(ctx context.Context, id, usuarioID uint, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("producto %d: %w", id, err)
	}
	var c errs.Collector
	if req.Nombre != nil {
		if nombre := strings.TrimSpace(*req.Nombre); nombre == "" {
			c.Add("nombre", "required")
		} else {
			p.Nombre = nombre
		}
	}
	if req.Precio != nil {
		if !precioValido(*req.Precio) {
			c.Add("precio", "invalid")
		} else {
			p.Precio = *req.Precio
		}
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			c.Add("stock", "min")
		} else {
			p.Stock = req.Stock
		}
	}
	if err := c.Err(); err != nil {
		return nil, err
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != nil {
		p.Categoria = req.Categoria
	}
	if req.Codigo != nil {
		p.Codigo = req.Codigo
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("producto %d: %w", id, err)
	}
	auditar(ctx, s.audit, usuarioID, model.AccionActualizar, model.EntidadProducto, p.ID, req)
	resp := mapProducto(p)
	return &resp, nil
}

func (s *productoService) Eliminar(ctx context.Context, id, usuarioID uint) error {
	if err := s.repo.SoftDelete(ctx, id, usuarioID); err != nil {
		return fmt.Errorf("producto %d: %w", id, err)
	}
	auditar(ctx, s.audit, usuarioID, model.AccionEliminar, model.EntidadProducto, id, nil)
	return nil
}

func mapProductos(productos []model.Producto) []dto.ProductoResponse {
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, mapProducto(&productos[i]))
	}
	return out
}
