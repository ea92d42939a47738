package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"allotrack-backend/internal/logger"
	"allotrack-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Repositories
// are built over it so the same code runs standalone or inside WithinTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, Repositories: newRepositories(db)}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Assets:        NewAssetRepository(db),
		Organizations: NewOrganizationRepository(db),
		Allotments:    NewAllotmentRepository(db),
		ImportReports: NewImportReportRepository(db),
	}
}

// WithinTx implements repository.TxManager. fn runs against tx-bound
// repositories; a nil return commits, anything else rolls back.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("Transaction rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
