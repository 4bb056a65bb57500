package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos y sus componentes de kit.
type ProductRepository interface {
	// Create persiste el producto y, si es kit, sus componentes.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve el producto con componentes cargados, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetBySKU devuelve el producto por SKU normalizado, o nil si no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update actualiza el producto y reemplaza sus componentes.
	// No permite modificar Cost (se maneja vía movimientos).
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCost actualiza solo el costo vigente (usado por el motor de inventario).
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
