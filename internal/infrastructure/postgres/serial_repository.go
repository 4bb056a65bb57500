package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

var _ repository.SerialRepository = (*SerialRepo)(nil)

// SerialRepo implementación de SerialRepository sobre PostgreSQL (usable con pool o tx).
type SerialRepo struct {
	q Querier
}

// NewSerialRepository construye el adaptador de seriales. Pasar pool o tx (Querier).
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

const serialColumns = `id, product_id, warehouse_id, serial, state, cost, created_at, updated_at`

// Create persiste una unidad serializada. El serial es único global.
func (r *SerialRepo) Create(ctx context.Context, unit *entity.SerialUnit) error {
	query := `
		INSERT INTO serial_units (id, product_id, warehouse_id, serial, state, cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		unit.ID, unit.ProductID, unit.WarehouseID, unit.Serial,
		unit.State, unit.Cost, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create serial unit: %w", err)
	}
	return nil
}

// GetBySerial devuelve la unidad por su serial normalizado, o nil.
func (r *SerialRepo) GetBySerial(ctx context.Context, serial string) (*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE serial = $1`
	var u entity.SerialUnit
	err := r.q.QueryRow(ctx, query, serial).Scan(
		&u.ID, &u.ProductID, &u.WarehouseID, &u.Serial,
		&u.State, &u.Cost, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serial unit: %w", err)
	}
	return &u, nil
}

// GetBySerials devuelve las unidades encontradas, sin bloquear.
func (r *SerialRepo) GetBySerials(ctx context.Context, serials []string) ([]entity.SerialUnit, error) {
	return r.getBySerials(ctx, serials, false)
}

// GetBySerialsForUpdate devuelve las unidades bloqueando las filas. El orden
// por serial es determinista para evitar deadlocks entre transacciones que
// bloquean conjuntos solapados.
func (r *SerialRepo) GetBySerialsForUpdate(ctx context.Context, serials []string) ([]entity.SerialUnit, error) {
	return r.getBySerials(ctx, serials, true)
}

func (r *SerialRepo) getBySerials(ctx context.Context, serials []string, forUpdate bool) ([]entity.SerialUnit, error) {
	if len(serials) == 0 {
		return nil, nil
	}
	query := `SELECT ` + serialColumns + ` FROM serial_units WHERE serial = ANY($1) ORDER BY serial`
	if forUpdate {
		query += " FOR UPDATE"
	}
	rows, err := r.q.Query(ctx, query, serials)
	if err != nil {
		return nil, fmt.Errorf("get serial units: %w", err)
	}
	defer rows.Close()
	return collectSerialUnits(rows)
}

// UpdateLocation muta bodega y estado de la unidad en sitio.
func (r *SerialRepo) UpdateLocation(ctx context.Context, unitID, warehouseID, state string) error {
	query := `UPDATE serial_units SET warehouse_id = $2, state = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, unitID, warehouseID, state)
	if err != nil {
		return fmt.Errorf("update serial location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountInStock cuenta unidades en_stock de un producto en una bodega.
func (r *SerialRepo) CountInStock(ctx context.Context, productID, warehouseID string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM serial_units
		WHERE product_id = $1 AND warehouse_id = $2 AND state = $3`
	var n int64
	if err := r.q.QueryRow(ctx, query, productID, warehouseID, entity.SerialEnStock).Scan(&n); err != nil {
		return 0, fmt.Errorf("count serial units: %w", err)
	}
	return n, nil
}

// ListInStock lista unidades en_stock de un producto en una bodega en orden de ingreso.
func (r *SerialRepo) ListInStock(ctx context.Context, productID, warehouseID string) ([]entity.SerialUnit, error) {
	query := `
		SELECT ` + serialColumns + ` FROM serial_units
		WHERE product_id = $1 AND warehouse_id = $2 AND state = $3
		ORDER BY created_at, serial`
	rows, err := r.q.Query(ctx, query, productID, warehouseID, entity.SerialEnStock)
	if err != nil {
		return nil, fmt.Errorf("list serial units: %w", err)
	}
	defer rows.Close()
	return collectSerialUnits(rows)
}

func collectSerialUnits(rows pgx.Rows) ([]entity.SerialUnit, error) {
	var list []entity.SerialUnit
	for rows.Next() {
		var u entity.SerialUnit
		err := rows.Scan(
			&u.ID, &u.ProductID, &u.WarehouseID, &u.Serial,
			&u.State, &u.Cost, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan serial unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}
