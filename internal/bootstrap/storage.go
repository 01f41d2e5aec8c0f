// Package bootstrap wires the configured storage backend for the binaries.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/korean-tutor-bot/internal/config"
	"github.com/aliskhannn/korean-tutor-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/korean-tutor-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/infra/sqlite"
	"github.com/aliskhannn/korean-tutor-bot/internal/repository"
	"github.com/aliskhannn/korean-tutor-bot/internal/service"
	"github.com/aliskhannn/korean-tutor-bot/internal/storage"
)

// Storage is the persistence selected by storage.backend.
type Storage struct {
	Backend  string
	Backends service.BackendFactory // nil for the "none" backend
	Users    service.UserRepository

	pool *pgxpool.Pool
	db   *sqlx.DB
}

// OpenStorage opens the configured backend. Close releases it.
func OpenStorage(ctx context.Context, cfg *config.Config, fs afero.Fs, log *zap.Logger) (*Storage, error) {
	s := &Storage{Backend: cfg.Storage.Backend}

	switch cfg.Storage.Backend {
	case config.BackendNone:
		s.Users = storage.NewUserStorage()

	case config.BackendFile:
		dir := cfg.Storage.Dir
		s.Users = storage.NewUserStorage()
		s.Backends = func(userID int64) repository.ProgressBackend {
			return repository.NewFileProgressBackend(fs, dir, userID)
		}

	case config.BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		s.db = db
		s.Users = sqlite.NewUserRepository(db)
		s.Backends = func(userID int64) repository.ProgressBackend {
			return sqlite.NewProgressBackend(db, userID)
		}

	case config.BackendPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		s.pool = pool

		tx := postgres.NewTransactor(pool)
		s.Users = pgrepo.NewUserRepository(pool)
		s.Backends = func(userID int64) repository.ProgressBackend {
			return pgrepo.NewProgressBackend(pool, tx, userID)
		}

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	log.Info("progress storage ready", zap.String("backend", cfg.Storage.Backend))
	return s, nil
}

// Close releases the database handles.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
}
