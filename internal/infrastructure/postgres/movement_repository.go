package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx). La tabla es append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, transaction_id, product_id, warehouse_id, type, quantity, unit_cost, total_cost, motive, ref_kind, ref_id, date, created_at, created_by`

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	var refKind, refID *string
	if movement.Reference != nil {
		refKind = &movement.Reference.Kind
		refID = &movement.Reference.ID
	}
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.TransactionID, movement.ProductID, movement.WarehouseID,
		movement.Type, movement.Quantity, movement.UnitCost, movement.TotalCost,
		movement.Motive, refKind, refID, movement.Date, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos de un producto (kárdex); warehouseID vacío
// incluye todas las bodegas. Orden cronológico ascendente.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if warehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, warehouseID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date, created_at LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByTransaction lista los movimientos de una misma operación.
func (r *MovementRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE transaction_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list movements by transaction: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByReference lista movimientos causados por un documento de negocio.
func (r *MovementRepo) ListByReference(ctx context.Context, ref entity.DocumentRef) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements WHERE ref_kind = $1 AND ref_id = $2
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, ref.Kind, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var refKind, refID, createdBy *string
		err := rows.Scan(
			&m.ID, &m.TransactionID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &m.UnitCost, &m.TotalCost, &m.Motive,
			&refKind, &refID, &m.Date, &m.CreatedAt, &createdBy,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if refKind != nil && refID != nil {
			m.Reference = &entity.DocumentRef{Kind: *refKind, ID: *refID}
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
