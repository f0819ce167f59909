package service

import (
	"context"
	"time"

	"facturas/internal/dto"
	"facturas/internal/model"
	"facturas/internal/repository"

	"github.com/shopspring/decimal"
)

var nombresMes = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

const facturasRecientes = 5

// EstadisticasService computes the dashboard snapshot on every call.
type EstadisticasService interface {
	Obtener(ctx context.Context, usuarioID uint) (*dto.EstadisticasResponse, error)
}

type estadisticasService struct {
	facturas  repository.FacturaRepository
	clientes  repository.ClienteRepository
	productos repository.ProductoRepository
	now       func() time.Time
}

func NewEstadisticasService(
	facturas repository.FacturaRepository,
	clientes repository.ClienteRepository,
	productos repository.ProductoRepository,
) EstadisticasService {
	return &estadisticasService{facturas: facturas, clientes: clientes, productos: productos, now: time.Now}
}

func (s *estadisticasService) Obtener(ctx context.Context, usuarioID uint) (*dto.EstadisticasResponse, error) {
	facturas, err := s.facturas.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	clientes, err := s.clientes.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	productos, err := s.productos.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	ahora := s.now().UTC()
	resp := &dto.EstadisticasResponse{
		IngresosTotales:   decimal.Zero,
		ClientesActivos:   len(clientes),
		TotalProductos:    len(productos),
		FacturasPorMes:    make([]dto.MesEstadistica, 12),
		FacturasRecientes: make([]dto.FacturaResponse, 0, facturasRecientes),
	}
	for i := range resp.FacturasPorMes {
		resp.FacturasPorMes[i] = dto.MesEstadistica{Mes: nombresMes[i], Ingresos: decimal.Zero}
	}

	// ListByUsuario is already newest first.
	for i := range facturas {
		f := &facturas[i]
		fecha := f.Fecha.UTC()
		pagada := f.Estado == model.EstadoPagada
		if pagada {
			resp.IngresosTotales = resp.IngresosTotales.Add(f.Total)
		}
		if fecha.Year() == ahora.Year() {
			bucket := &resp.FacturasPorMes[fecha.Month()-1]
			bucket.Cantidad++
			if pagada {
				bucket.Ingresos = bucket.Ingresos.Add(f.Total)
			}
			if fecha.Month() == ahora.Month() {
				resp.FacturasEsteMes++
			}
		}
		if len(resp.FacturasRecientes) < facturasRecientes {
			resp.FacturasRecientes = append(resp.FacturasRecientes, mapFactura(f))
		}
	}
	return resp, nil
}
