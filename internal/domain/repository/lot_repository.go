package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// LotRepository puerto de persistencia para lotes. Los lotes se crean en
// entradas y solo reducen su cantidad restante; un lote en cero se conserva.
type LotRepository interface {
	// Create persiste un lote nuevo y asigna Seq (orden FIFO por bodega).
	Create(ctx context.Context, lot *entity.Lot) error
	// GetByNumberForUpdate devuelve el lote por número en esa bodega con
	// bloqueo de fila, o nil si no existe.
	GetByNumberForUpdate(ctx context.Context, productID, warehouseID, number string) (*entity.Lot, error)
	// ListOpen lista los lotes con cantidad restante en orden FIFO (Seq), sin bloquear.
	ListOpen(ctx context.Context, productID, warehouseID string) ([]entity.Lot, error)
	// ListOpenForUpdate lista los lotes abiertos en orden FIFO bloqueando las filas.
	ListOpenForUpdate(ctx context.Context, productID, warehouseID string) ([]entity.Lot, error)
	// UpdateRemaining fija la cantidad restante de un lote.
	UpdateRemaining(ctx context.Context, lotID string, remaining decimal.Decimal) error
	// ListByProductWarehouse lista todos los lotes (incluidos en cero) para auditoría.
	ListByProductWarehouse(ctx context.Context, productID, warehouseID string) ([]entity.Lot, error)
}
