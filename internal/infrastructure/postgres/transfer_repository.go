package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL (usable
// con pool o tx). El detalle de lotes viaja como jsonb: es procedencia para
// la reversión, no estado consultable por lote.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador de traslados. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, product_id, from_warehouse_id, to_warehouse_id, quantity, serials, detail, status, motive, motive_ref_kind, motive_ref_id, created_at, created_by`

// Create persiste un traslado completado.
func (r *TransferRepo) Create(ctx context.Context, transfer *entity.Transfer) error {
	detail, err := json.Marshal(transfer.Detail)
	if err != nil {
		return fmt.Errorf("marshal transfer detail: %w", err)
	}
	var refKind, refID *string
	if transfer.Reference != nil {
		refKind = &transfer.Reference.Kind
		refID = &transfer.Reference.ID
	}
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		transfer.ID, transfer.ProductID, transfer.FromWarehouseID, transfer.ToWarehouseID,
		transfer.Quantity, transfer.Serials, detail, transfer.Status,
		transfer.Motive, refKind, refID, transfer.CreatedAt, transfer.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID devuelve el traslado, o nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// UpdateStatus cambia el estado del traslado (completado -> revertido).
func (r *TransferRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE transfers SET status = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista traslados recientes con paginación.
func (r *TransferRepo) List(ctx context.Context, limit, offset int) ([]*entity.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM transfers ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var detail []byte
	var refKind, refID *string
	err := row.Scan(
		&t.ID, &t.ProductID, &t.FromWarehouseID, &t.ToWarehouseID,
		&t.Quantity, &t.Serials, &detail, &t.Status,
		&t.Motive, &refKind, &refID, &t.CreatedAt, &t.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &t.Detail); err != nil {
			return nil, fmt.Errorf("unmarshal transfer detail: %w", err)
		}
	}
	if refKind != nil && refID != nil {
		t.Reference = &entity.DocumentRef{Kind: *refKind, ID: *refID}
	}
	return &t, nil
}
