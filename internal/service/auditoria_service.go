package service

import (
	"context"
	"encoding/json"
	"fmt"

	"facturas/internal/dto"
	"facturas/internal/errs"
	"facturas/internal/model"
	"facturas/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// EntradaAuditoria describes one audited action. Entidad is empty when the
// action has no subject record.
type EntradaAuditoria struct {
	UsuarioID *uint
	Accion    model.Accion
	Entidad   model.Entidad
	EntidadID *uint
	Detalles  any
}

// AuditoriaService appends to and reads the audit log.
type AuditoriaService interface {
	Registrar(ctx context.Context, e EntradaAuditoria) (*model.Log, error)
	Listar(ctx context.Context, usuarioID uint) ([]dto.LogResponse, error)
}

type auditoriaService struct {
	repo repository.LogRepository
}

func NewAuditoriaService(repo repository.LogRepository) AuditoriaService {
	return &auditoriaService{repo: repo}
}

func (s *auditoriaService) Registrar(ctx context.Context, e EntradaAuditoria) (*model.Log, error) {
	if !accionValida(e.Accion) {
		return nil, errs.Invalid("accion", "invalid")
	}
	entry := &model.Log{
		UsuarioID: e.UsuarioID,
		Accion:    e.Accion,
		EntidadID: e.EntidadID,
	}
	if e.Entidad != "" {
		if !entidadValida(e.Entidad) {
			return nil, errs.Invalid("entidad", "invalid")
		}
		entidad := e.Entidad
		entry.Entidad = &entidad
	}
	if e.Detalles != nil {
		raw, err := json.Marshal(e.Detalles)
		if err != nil {
			return nil, fmt.Errorf("auditoria: detalles: %w", err)
		}
		entry.Detalles = datatypes.JSON(raw)
	}
	if meta, ok := requestMetaFrom(ctx); ok {
		if meta.IP != "" {
			ip := meta.IP
			entry.IP = &ip
		}
		if meta.UserAgent != "" {
			ua := meta.UserAgent
			entry.UserAgent = &ua
		}
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *auditoriaService) Listar(ctx context.Context, usuarioID uint) ([]dto.LogResponse, error) {
	logs, err := s.repo.ListByUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, mapLog(&logs[i]))
	}
	return out, nil
}

func accionValida(a model.Accion) bool {
	switch a {
	case model.AccionCrear, model.AccionActualizar, model.AccionEliminar,
		model.AccionLogin, model.AccionLogout, model.AccionRegistro, model.AccionConfigurar:
		return true
	}
	return false
}

func entidadValida(e model.Entidad) bool {
	switch e {
	case model.EntidadUsuario, model.EntidadCliente, model.EntidadProducto,
		model.EntidadFactura, model.EntidadEmpresa:
		return true
	}
	return false
}

// auditar records a completed mutation. A failure here never undoes the
// mutation; it is only logged.
func auditar(ctx context.Context, a AuditoriaService, usuarioID uint, accion model.Accion, entidad model.Entidad, entidadID uint, detalles any) {
	if a == nil {
		return
	}
	e := EntradaAuditoria{
		UsuarioID: &usuarioID,
		Accion:    accion,
		Entidad:   entidad,
		Detalles:  detalles,
	}
	if entidadID != 0 {
		e.EntidadID = &entidadID
	}
	if _, err := a.Registrar(ctx, e); err != nil {
		log.Warn().Err(err).
			Uint("usuario_id", usuarioID).
			Str("accion", string(accion)).
			Str("entidad", string(entidad)).
			Msg("auditoria: no se pudo registrar la accion")
	}
}
