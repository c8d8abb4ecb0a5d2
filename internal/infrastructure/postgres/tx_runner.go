package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/retail-audit-api/internal/application/auditing"
	"github.com/jhoicas/retail-audit-api/internal/application/usecase"
	"github.com/jhoicas/retail-audit-api/internal/domain/repository"
)

// Ensure TxRunner implements auditing.TxRunner and usecase.StoreTxRunner.
var _ auditing.TxRunner = (*TxRunner)(nil)
var _ usecase.StoreTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunAudit inicia una transacción con los repos de auditoría, acciones y comentarios
// (finalizar y rechazar) y hace Commit o Rollback.
func (r *TxRunner) RunAudit(ctx context.Context, fn func(
	audits repository.AuditRepository,
	actions repository.ActionPlanRepository,
	comments repository.CommentRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewAuditRepository(tx), NewActionPlanRepository(tx), NewCommentRepository(tx))
	})
}

// RunStores transacción sobre tiendas (reasignación del Aderente 1:1).
func (r *TxRunner) RunStores(ctx context.Context, fn func(stores repository.StoreRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewStoreRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
