package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El commit
// libera todos los bloqueos de fila tomados por el callback; no hay liberación
// explícita.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Un lock_timeout agotado o deadlock sale como
// domain.ErrLockTimeout para que el caller pueda reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := inventory.Repos{
		Movements: NewMovementRepository(tx),
		Stock:     NewStockRepository(tx),
		Lots:      NewLotRepository(tx),
		Serials:   NewSerialRepository(tx),
		Products:  NewProductRepository(tx),
		Transfers: NewTransferRepository(tx),
	}

	if err := fn(repos); err != nil {
		if isLockError(err) {
			return fmt.Errorf("%w: %v", domain.ErrLockTimeout, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
