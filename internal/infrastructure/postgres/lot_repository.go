package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
// El orden FIFO lo da la columna seq (bigserial): refleja el orden de ingreso
// aunque dos lotes compartan timestamp.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, product_id, warehouse_id, number, remaining, unit_cost, expiry, seq, created_at`

// Create persiste un lote nuevo; seq lo asigna la secuencia de la tabla.
func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (id, product_id, warehouse_id, number, remaining, unit_cost, expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		lot.ID, lot.ProductID, lot.WarehouseID, lot.Number,
		lot.Remaining, lot.UnitCost, lot.Expiry, lot.CreatedAt,
	).Scan(&lot.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create lot: %w", err)
	}
	return nil
}

// GetByNumberForUpdate devuelve el lote por número en esa bodega con bloqueo
// de fila, o nil si no existe.
func (r *LotRepo) GetByNumberForUpdate(ctx context.Context, productID, warehouseID, number string) (*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND warehouse_id = $2 AND number = $3
		FOR UPDATE`
	lot, err := scanLot(r.q.QueryRow(ctx, query, productID, warehouseID, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return lot, nil
}

// ListOpen lista los lotes con cantidad restante en orden FIFO, sin bloquear.
func (r *LotRepo) ListOpen(ctx context.Context, productID, warehouseID string) ([]entity.Lot, error) {
	return r.listOpen(ctx, productID, warehouseID, false)
}

// ListOpenForUpdate lista los lotes abiertos en orden FIFO bloqueando las filas.
func (r *LotRepo) ListOpenForUpdate(ctx context.Context, productID, warehouseID string) ([]entity.Lot, error) {
	return r.listOpen(ctx, productID, warehouseID, true)
}

func (r *LotRepo) listOpen(ctx context.Context, productID, warehouseID string, forUpdate bool) ([]entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND warehouse_id = $2 AND remaining > 0
		ORDER BY seq`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list open lots: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

// UpdateRemaining fija la cantidad restante de un lote.
func (r *LotRepo) UpdateRemaining(ctx context.Context, lotID string, remaining decimal.Decimal) error {
	query := `UPDATE lots SET remaining = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, lotID, remaining)
	if err != nil {
		return fmt.Errorf("update lot remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProductWarehouse lista todos los lotes (incluidos en cero) para auditoría.
func (r *LotRepo) ListByProductWarehouse(ctx context.Context, productID, warehouseID string) ([]entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	return collectLots(rows)
}

func scanLot(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.WarehouseID, &l.Number,
		&l.Remaining, &l.UnitCost, &l.Expiry, &l.Seq, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLots(rows pgx.Rows) ([]entity.Lot, error) {
	var list []entity.Lot
	for rows.Next() {
		var l entity.Lot
		err := rows.Scan(
			&l.ID, &l.ProductID, &l.WarehouseID, &l.Number,
			&l.Remaining, &l.UnitCost, &l.Expiry, &l.Seq, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
