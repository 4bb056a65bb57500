package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// StockQuery consultas de solo lectura sobre saldos. Para productos
// serializados el saldo se reconstruye contando unidades en_stock; para el
// resto se lee el agregado mantenido por el motor de movimientos.
type StockQuery struct {
	stockRepo   repository.StockRepository
	serialRepo  repository.SerialRepository
	productRepo repository.ProductRepository
}

// NewStockQuery construye las consultas de stock.
func NewStockQuery(stockRepo repository.StockRepository, serialRepo repository.SerialRepository, productRepo repository.ProductRepository) *StockQuery {
	return &StockQuery{stockRepo: stockRepo, serialRepo: serialRepo, productRepo: productRepo}
}

// Disponibilidad devuelve el saldo de un producto en una bodega.
func (q *StockQuery) Disponibilidad(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	product, err := q.productRepo.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if product.Serializado() {
		n, err := q.serialRepo.CountInStock(ctx, productID, warehouseID)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(n), nil
	}
	stock, err := q.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.Quantity, nil
}

// PorBodega lista los saldos no-cero de una bodega.
func (q *StockQuery) PorBodega(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	return q.stockRepo.ListByWarehouse(ctx, warehouseID)
}

// TotalProducto suma el saldo de un producto en todas las bodegas.
func (q *StockQuery) TotalProducto(ctx context.Context, productID string) (decimal.Decimal, error) {
	return q.stockRepo.SumByProduct(ctx, productID)
}
