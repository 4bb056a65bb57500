package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// StockRepository puerto de persistencia para saldos por (producto, bodega).
// Los saldos solo los escribe el motor de movimientos; los demás componentes
// consultan.
type StockRepository interface {
	// Get devuelve el saldo actual; si no hay fila devuelve un saldo en cero.
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate devuelve el saldo bloqueando la fila (SELECT ... FOR UPDATE).
	// Obligatorio antes de cualquier lectura-modificación-escritura del saldo.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// Upsert inserta o actualiza la cantidad (por producto y bodega).
	Upsert(ctx context.Context, stock *entity.Stock) error
	// ListByWarehouse lista los saldos no-cero de una bodega.
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error)
	// SumByProduct suma el saldo de un producto en todas las bodegas.
	SumByProduct(ctx context.Context, productID string) (decimal.Decimal, error)
}
