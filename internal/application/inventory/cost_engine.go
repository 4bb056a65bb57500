package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// CostEngine calcula el costo histórico de una cantidad recorriendo los lotes
// en orden FIFO, sin mutar nada: es puramente consultivo para cotizar y
// valorar. Cuando los lotes no alcanzan (una cotización puede valorarse antes
// de que el stock exista) el resto se valora al costo de compra vigente.
type CostEngine struct {
	productRepo repository.ProductRepository
	lotRepo     repository.LotRepository
	serialRepo  repository.SerialRepository
}

// NewCostEngine construye el motor de costos. Las dependencias se inyectan
// explícitamente; no hay resolución ambiental de servicios.
func NewCostEngine(productRepo repository.ProductRepository, lotRepo repository.LotRepository, serialRepo repository.SerialRepository) *CostEngine {
	return &CostEngine{productRepo: productRepo, lotRepo: lotRepo, serialRepo: serialRepo}
}

// CalcularCostoHistorico devuelve el costo unitario promedio ponderado de
// vender cantidad unidades del producto desde la bodega indicada. Solo lee.
func (e *CostEngine) CalcularCostoHistorico(ctx context.Context, productID string, cantidad decimal.Decimal, warehouseID string) (decimal.Decimal, error) {
	if !cantidad.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return e.costoProducto(ctx, product, cantidad, warehouseID)
}

func (e *CostEngine) costoProducto(ctx context.Context, product *entity.Product, cantidad decimal.Decimal, warehouseID string) (decimal.Decimal, error) {
	switch {
	case product.Lotificado():
		lots, err := e.lotRepo.ListOpen(ctx, product.ID, warehouseID)
		if err != nil {
			return decimal.Zero, err
		}
		plan, faltante := inventory.PlanConsumo(lots, cantidad)
		return inventory.CostoPromedio(plan, faltante, product.Cost, cantidad), nil

	case product.Serializado():
		// Costo de adquisición de las unidades en stock, en orden de ingreso;
		// el resto al costo de lista.
		units, err := e.serialRepo.ListInStock(ctx, product.ID, warehouseID)
		if err != nil {
			return decimal.Zero, err
		}
		total := decimal.Zero
		cubierto := decimal.Zero
		uno := decimal.NewFromInt(1)
		for _, u := range units {
			if !cubierto.LessThan(cantidad) {
				break
			}
			total = total.Add(u.Cost)
			cubierto = cubierto.Add(uno)
		}
		faltante := cantidad.Sub(cubierto)
		if faltante.GreaterThan(decimal.Zero) {
			total = total.Add(faltante.Mul(product.Cost))
		}
		return total.Div(cantidad), nil

	default:
		return product.Cost, nil
	}
}
