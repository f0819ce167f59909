package repository

import (
	"context"
	"errors"
	"time"

	"facturas/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Numerador renders an invoice number from its year and sequence value.
type Numerador func(anio, secuencia int) string

type FacturaRepository interface {
	// Create allocates the next sequence value for (owner, anio), assigns
	// Numero through numerar and inserts header and lines atomically.
	Create(ctx context.Context, f *model.Factura, anio int, numerar Numerador) error
	// FindByID loads the invoice with Cliente and Lineas.
	FindByID(ctx context.Context, id, usuarioID uint) (*model.Factura, error)
	// ListByUsuario returns the owner's invoices newest first, with Cliente and Lineas.
	ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Factura, error)
	ListLineas(ctx context.Context, facturaID uint) ([]model.LineaFactura, error)
	// UpdateDatos persists estado, fecha_vencimiento and notas only.
	UpdateDatos(ctx context.Context, f *model.Factura) error
	// Delete removes the invoice and all of its lines.
	Delete(ctx context.Context, id, usuarioID uint) error
	// SiguienteSecuencia returns the value Create would use next, without reserving it.
	SiguienteSecuencia(ctx context.Context, usuarioID uint, anio int) (int, error)
	// MarcarVencidas flips pending invoices whose due date is before ahora.
	MarcarVencidas(ctx context.Context, ahora time.Time) (int64, error)
}

type facturaRepo struct{ db *gorm.DB }

func NewFacturaRepository(db *gorm.DB) FacturaRepository { return &facturaRepo{db: db} }

func (r *facturaRepo) Create(ctx context.Context, f *model.Factura, anio int, numerar Numerador) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := reservarSecuencia(tx, f.UsuarioID, anio)
		if err != nil {
			return err
		}
		f.Numero = numerar(anio, seq)
		if f.Estado == "" {
			f.Estado = model.EstadoPendiente
		}
		return translate(tx.Omit("Cliente").Create(f).Error)
	})
}

// reservarSecuencia bumps the (owner, year) counter under a row lock.
func reservarSecuencia(tx *gorm.DB, usuarioID uint, anio int) (int, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SecuenciaFactura{UsuarioID: usuarioID, Anio: anio, Ultimo: 0}).Error
	if err != nil {
		return 0, err
	}
	var s model.SecuenciaFactura
	err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("usuario_id = ? AND anio = ?", usuarioID, anio).
		First(&s).Error
	if err != nil {
		return 0, err
	}
	s.Ultimo++
	if err := tx.Model(&s).Update("ultimo", s.Ultimo).Error; err != nil {
		return 0, err
	}
	return s.Ultimo, nil
}

func (r *facturaRepo) FindByID(ctx context.Context, id, usuarioID uint) (*model.Factura, error) {
	var f model.Factura
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Lineas", ordenPorID).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		First(&f).Error
	if err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *facturaRepo) ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Factura, error) {
	var facturas []model.Factura
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Lineas", ordenPorID).
		Where("usuario_id = ?", usuarioID).
		Order("fecha DESC, id DESC").
		Find(&facturas).Error
	return facturas, err
}

func (r *facturaRepo) ListLineas(ctx context.Context, facturaID uint) ([]model.LineaFactura, error) {
	var lineas []model.LineaFactura
	err := r.db.WithContext(ctx).Where("factura_id = ?", facturaID).Order("id ASC").Find(&lineas).Error
	return lineas, err
}

func (r *facturaRepo) UpdateDatos(ctx context.Context, f *model.Factura) error {
	res := r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("id = ? AND usuario_id = ?", f.ID, f.UsuarioID).
		Updates(map[string]any{
			"estado":            f.Estado,
			"fecha_vencimiento": f.FechaVencimiento,
			"notas":             f.Notas,
		})
	return affected(res)
}

func (r *facturaRepo) Delete(ctx context.Context, id, usuarioID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Factura
		err := tx.Select("id").Where("id = ? AND usuario_id = ?", id, usuarioID).First(&f).Error
		if err != nil {
			return translate(err)
		}
		if err := tx.Where("factura_id = ?", f.ID).Delete(&model.LineaFactura{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Factura{}, f.ID).Error
	})
}

func (r *facturaRepo) SiguienteSecuencia(ctx context.Context, usuarioID uint, anio int) (int, error) {
	var s model.SecuenciaFactura
	err := r.db.WithContext(ctx).Where("usuario_id = ? AND anio = ?", usuarioID, anio).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return s.Ultimo + 1, nil
}

func (r *facturaRepo) MarcarVencidas(ctx context.Context, ahora time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Factura{}).
		Where("estado = ? AND fecha_vencimiento IS NOT NULL AND fecha_vencimiento < ?", model.EstadoPendiente, ahora).
		Update("estado", model.EstadoVencida)
	return res.RowsAffected, res.Error
}

func ordenPorID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
