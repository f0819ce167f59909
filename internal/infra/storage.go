package infra

import (
	"context"

	"facturas/internal/config"
	"facturas/internal/repository"
	"facturas/internal/repository/memory"

	"gorm.io/gorm"
)

// OpenStorage returns the repository set for cfg.StorageDriver. The *gorm.DB
// is nil for the in-memory store, which keeps nothing across restarts.
func OpenStorage(ctx context.Context, cfg *config.Config) (repository.Repositories, *gorm.DB, error) {
	if cfg.StorageDriver == config.StorageMemory {
		return memory.New().Repositories(), nil, nil
	}
	db, err := NewDatabase(ctx, cfg)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	return repository.NewGormRepositories(db), db, nil
}
