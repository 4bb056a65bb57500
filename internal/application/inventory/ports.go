package inventory

import (
	"context"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
type Repos struct {
	Movements repository.MovementRepository
	Stock     repository.StockRepository
	Lots      repository.LotRepository
	Serials   repository.SerialRepository
	Products  repository.ProductRepository
	Transfers repository.TransferRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de
// inventario: si fn devuelve error se hace Rollback, si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// KardexPDFGenerator genera la representación PDF del kárdex de un producto.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, product *entity.Product, warehouse *entity.Warehouse, movements []*entity.Movement) ([]byte, error)
}
