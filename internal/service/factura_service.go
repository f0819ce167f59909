package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"facturas/internal/dto"
	"facturas/internal/errs"
	"facturas/internal/infra"
	"facturas/internal/model"
	"facturas/internal/repository"

	"github.com/shopspring/decimal"
)

// EmailEnqueuer hands invoice emails to the background queue.
type EmailEnqueuer interface {
	EnqueueEnvioFactura(ctx context.Context, p dto.EnvioFacturaPayload) error
}

// FacturaService composes, numbers and manages invoices. Every method is
// scoped to usuarioID.
type FacturaService interface {
	ProximoNumero(ctx context.Context, usuarioID uint) (string, error)
	Crear(ctx context.Context, usuarioID uint, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error)
	Obtener(ctx context.Context, id, usuarioID uint) (*dto.FacturaResponse, error)
	// Listar returns the owner's invoices newest first; estado filters when non-empty.
	Listar(ctx context.Context, usuarioID uint, estado string) ([]dto.FacturaResponse, error)
	Actualizar(ctx context.Context, id, usuarioID uint, req dto.ActualizarFacturaRequest) (*dto.FacturaResponse, error)
	Eliminar(ctx context.Context, id, usuarioID uint) error
	// PDF renders the invoice with the owner's company profile.
	PDF(ctx context.Context, id, usuarioID uint) ([]byte, string, error)
	// Enviar queues the invoice PDF for delivery by email.
	Enviar(ctx context.Context, id, usuarioID uint, req dto.EnviarFacturaRequest) error
}

type facturaService struct {
	facturas  repository.FacturaRepository
	clientes  repository.ClienteRepository
	productos repository.ProductoRepository
	empresas  repository.EmpresaRepository
	audit     AuditoriaService
	mailer    EmailEnqueuer
	now       func() time.Time
}

// NewFacturaService wires the invoice service. mailer may be nil, in which
// case Enviar reports ErrUnavailable.
func NewFacturaService(
	facturas repository.FacturaRepository,
	clientes repository.ClienteRepository,
	productos repository.ProductoRepository,
	empresas repository.EmpresaRepository,
	audit AuditoriaService,
	mailer EmailEnqueuer,
) FacturaService {
	return &facturaService{
		facturas:  facturas,
		clientes:  clientes,
		productos: productos,
		empresas:  empresas,
		audit:     audit,
		mailer:    mailer,
		now:       time.Now,
	}
}

func (s *facturaService) ProximoNumero(ctx context.Context, usuarioID uint) (string, error) {
	anio := s.now().UTC().Year()
	seq, err := s.facturas.SiguienteSecuencia(ctx, usuarioID, anio)
	if err != nil {
		return "", err
	}
	return FormatNumeroFactura(anio, seq), nil
}

func (s *facturaService) Crear(ctx context.Context, usuarioID uint, req dto.CrearFacturaRequest) (*dto.FacturaResponse, error) {
	if err := validarLineas(req.Lineas); err != nil {
		return nil, err
	}
	fecha := s.now().UTC()
	if req.Fecha != nil {
		fecha = req.Fecha.UTC()
	}
	if req.FechaVencimiento != nil && req.FechaVencimiento.Before(fecha) {
		return nil, errs.Invalid("fecha_vencimiento", "before_fecha")
	}

	cliente, err := s.clientes.FindByID(ctx, req.ClienteID, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("cliente %d: %w", req.ClienteID, err)
	}
	if !cliente.Activo {
		return nil, fmt.Errorf("cliente %d: %w", req.ClienteID, errs.ErrNotFound)
	}

	lineas := make([]model.LineaFactura, 0, len(req.Lineas))
	totales := make([]decimal.Decimal, 0, len(req.Lineas))
	for _, l := range req.Lineas {
		desc := strings.TrimSpace(l.Descripcion)
		if l.ProductoID != nil {
			p, err := s.productos.FindByID(ctx, *l.ProductoID, usuarioID)
			if err == nil && !p.Activo {
				err = errs.ErrNotFound
			}
			if err != nil {
				return nil, fmt.Errorf("producto %d: %w", *l.ProductoID, err)
			}
			if desc == "" {
				desc = p.Nombre
			}
		}
		total := LineTotal(l.Cantidad, l.Precio)
		totales = append(totales, total)
		lineas = append(lineas, model.LineaFactura{
			ProductoID:  l.ProductoID,
			Descripcion: desc,
			Cantidad:    l.Cantidad,
			Precio:      l.Precio,
			Total:       total,
		})
	}

	subtotal := Subtotal(totales)
	iva := IVA(subtotal)
	f := &model.Factura{
		ClienteID:        cliente.ID,
		UsuarioID:        usuarioID,
		Fecha:            fecha,
		FechaVencimiento: req.FechaVencimiento,
		Subtotal:         subtotal,
		IVA:              iva,
		Total:            Total(subtotal, iva),
		Estado:           model.EstadoPendiente,
		Notas:            req.Notas,
		Lineas:           lineas,
	}
	// The number carries the year it was issued in, whatever fecha says.
	anio := s.now().UTC().Year()
	if err := s.facturas.Create(ctx, f, anio, FormatNumeroFactura); err != nil {
		return nil, err
	}
	f.Cliente = cliente

	auditar(ctx, s.audit, usuarioID, model.AccionCrear, model.EntidadFactura, f.ID, map[string]any{
		"numero": f.Numero,
		"total":  f.Total.StringFixed(2),
	})
	resp := mapFactura(f)
	return &resp, nil
}

func (s *facturaService) Obtener(ctx context.Context, id, usuarioID uint) (*dto.FacturaResponse, error) {
	f, err := s.facturas.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("factura %d: %w", id, err)
	}
	resp := mapFactura(f)
	return &resp, nil
}

func (s *facturaService) Listar(ctx context.Context, usuarioID uint, estado string) ([]dto.FacturaResponse, error) {
	if estado != "" && !model.EstadoValido(estado) {
		return nil, errs.Invalid("estado", "oneof")
	}
	facturas, err := s.facturas.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FacturaResponse, 0, len(facturas))
	for i := range facturas {
		if estado != "" && facturas[i].Estado != estado {
			continue
		}
		out = append(out, mapFactura(&facturas[i]))
	}
	return out, nil
}

func (s *facturaService) Actualizar(ctx context.Context, id, usuarioID uint, req dto.ActualizarFacturaRequest) (*dto.FacturaResponse, error) {
	f, err := s.facturas.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, fmt.Errorf("factura %d: %w", id, err)
	}
	cambios := map[string]any{}
	if req.Estado != nil {
		if !model.EstadoValido(*req.Estado) {
			return nil, errs.Invalid("estado", "oneof")
		}
		f.Estado = *req.Estado
		cambios["estado"] = f.Estado
	}
	if req.FechaVencimiento != nil {
		if req.FechaVencimiento.Before(f.Fecha) {
			return nil, errs.Invalid("fecha_vencimiento", "before_fecha")
		}
		f.FechaVencimiento = req.FechaVencimiento
		cambios["fecha_vencimiento"] = f.FechaVencimiento
	}
	if req.Notas != nil {
		f.Notas = req.Notas
		cambios["notas"] = true
	}
	if err := s.facturas.UpdateDatos(ctx, f); err != nil {
		return nil, fmt.Errorf("factura %d: %w", id, err)
	}
	auditar(ctx, s.audit, usuarioID, model.AccionActualizar, model.EntidadFactura, f.ID, cambios)
	resp := mapFactura(f)
	return &resp, nil
}

func (s *facturaService) Eliminar(ctx context.Context, id, usuarioID uint) error {
	if err := s.facturas.Delete(ctx, id, usuarioID); err != nil {
		return fmt.Errorf("factura %d: %w", id, err)
	}
	auditar(ctx, s.audit, usuarioID, model.AccionEliminar, model.EntidadFactura, id, nil)
	return nil
}

func (s *facturaService) PDF(ctx context.Context, id, usuarioID uint) ([]byte, string, error) {
	f, err := s.facturas.FindByID(ctx, id, usuarioID)
	if err != nil {
		return nil, "", fmt.Errorf("factura %d: %w", id, err)
	}
	empresa, err := s.empresas.FindByUsuario(ctx, usuarioID)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, "", err
	}
	pdf, err := infra.GenerateFacturaPDF(f, empresa)
	if err != nil {
		return nil, "", err
	}
	return pdf, f.Numero + ".pdf", nil
}

func (s *facturaService) Enviar(ctx context.Context, id, usuarioID uint, req dto.EnviarFacturaRequest) error {
	if s.mailer == nil {
		return fmt.Errorf("envio de facturas: %w", errs.ErrUnavailable)
	}
	f, err := s.facturas.FindByID(ctx, id, usuarioID)
	if err != nil {
		return fmt.Errorf("factura %d: %w", id, err)
	}
	destinatario := ""
	if req.Email != nil {
		destinatario = strings.TrimSpace(*req.Email)
	} else if f.Cliente != nil && f.Cliente.Email != nil {
		destinatario = strings.TrimSpace(*f.Cliente.Email)
	}
	if destinatario == "" {
		return errs.Invalid("email", "required")
	}
	return s.mailer.EnqueueEnvioFactura(ctx, dto.EnvioFacturaPayload{
		FacturaID:    f.ID,
		UsuarioID:    usuarioID,
		Destinatario: destinatario,
	})
}
