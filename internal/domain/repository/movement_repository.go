package repository

import (
	"context"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// MovementRepository puerto de persistencia para el log de movimientos.
// Solo inserta y lee: los movimientos nunca se actualizan ni se borran.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByProduct lista movimientos de un producto (kárdex); warehouseID
	// vacío incluye todas las bodegas. Orden cronológico ascendente.
	ListByProduct(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.Movement, error)
	// ListByTransaction lista los movimientos de una misma operación.
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Movement, error)
	// ListByReference lista movimientos causados por un documento de negocio.
	ListByReference(ctx context.Context, ref entity.DocumentRef) ([]*entity.Movement, error)
}
