package repository

import (
	"context"

	"facturas/internal/model"

	"gorm.io/gorm"
)

// LogRepository is append-only.
type LogRepository interface {
	Create(ctx context.Context, l *model.Log) error
	// ListByUsuario returns the user's entries newest first.
	ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Log, error)
}

type logRepo struct{ db *gorm.DB }

func NewLogRepository(db *gorm.DB) LogRepository { return &logRepo{db: db} }

func (r *logRepo) Create(ctx context.Context, l *model.Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *logRepo) ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Log, error) {
	var logs []model.Log
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC, id DESC").
		Find(&logs).Error
	return logs, err
}
