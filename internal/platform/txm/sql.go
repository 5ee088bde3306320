package txm

import (
	"context"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/jmoiron/sqlx"
)

type SQLManager struct {
	DB *sqlx.DB
}

func NewSQLManager(db *sqlx.DB) *SQLManager {
	return &SQLManager{DB: db}
}

func (m *SQLManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if Active(ctx) {
		return fn(ctx)
	}

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Persistence("txm.begin", err)
	}
	txCtx, state := Enter(ctx, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperror.Persistence("txm.commit", err)
	}
	state.Committed()
	return nil
}

// Executor returns the transaction bound to ctx, or db when there is none.
func Executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if s, ok := FromContext(ctx); ok && s.tx != nil {
		return s.tx
	}
	return db
}
