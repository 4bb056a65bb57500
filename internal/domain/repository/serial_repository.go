package repository

import (
	"context"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// SerialRepository puerto de persistencia para unidades serializadas.
// El saldo de un producto serializado es implícito: el conteo de filas
// en_stock por bodega, sin aritmética de cantidades que pueda desfasarse.
type SerialRepository interface {
	Create(ctx context.Context, unit *entity.SerialUnit) error
	// GetBySerial devuelve la unidad por su serial normalizado, o nil.
	GetBySerial(ctx context.Context, serial string) (*entity.SerialUnit, error)
	// GetBySerials devuelve las unidades encontradas (sin bloquear); puede
	// devolver menos elementos que seriales pedidos.
	GetBySerials(ctx context.Context, serials []string) ([]entity.SerialUnit, error)
	// GetBySerialsForUpdate igual que GetBySerials pero bloqueando las filas.
	GetBySerialsForUpdate(ctx context.Context, serials []string) ([]entity.SerialUnit, error)
	// UpdateLocation muta bodega y estado de la unidad en sitio.
	UpdateLocation(ctx context.Context, unitID, warehouseID, state string) error
	// CountInStock cuenta unidades en_stock de un producto en una bodega.
	CountInStock(ctx context.Context, productID, warehouseID string) (int64, error)
	// ListInStock lista unidades en_stock de un producto en una bodega en orden de ingreso.
	ListInStock(ctx context.Context, productID, warehouseID string) ([]entity.SerialUnit, error)
}
