package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// KitResolver expande un kit en su lista de materiales y deriva costo y
// disponibilidad desde los componentes. Un kit nunca tiene lotes, seriales ni
// saldo propio: su stock es siempre transitivo y se evalúa en el momento, no
// se cachea. El costo se recalcula en cada lectura.
type KitResolver struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	serialRepo  repository.SerialRepository
	costEngine  *CostEngine
}

// NewKitResolver construye el resolvedor de kits.
func NewKitResolver(productRepo repository.ProductRepository, stockRepo repository.StockRepository, serialRepo repository.SerialRepository, costEngine *CostEngine) *KitResolver {
	return &KitResolver{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		serialRepo:  serialRepo,
		costEngine:  costEngine,
	}
}

// Faltante describe el déficit de un componente al validar disponibilidad.
type Faltante struct {
	ComponentID string          `json:"component_id"`
	Nombre      string          `json:"nombre"`
	Requerido   decimal.Decimal `json:"requerido"`
	Disponible  decimal.Decimal `json:"disponible"`
	Faltante    decimal.Decimal `json:"faltante"`
}

// ResolveBOM devuelve la lista de materiales del kit (productos y servicios).
func (kr *KitResolver) ResolveBOM(product *entity.Product) ([]entity.KitComponent, error) {
	if product == nil || !product.IsKit {
		return nil, domain.ErrInvalidInput
	}
	return product.Components, nil
}

// CalcularCostoKit devuelve el costo total de cantidad kits en la bodega:
// suma del costo histórico de cada componente producto por la cantidad que
// aporta. Los servicios no tienen base de costo de inventario y aportan cero.
func (kr *KitResolver) CalcularCostoKit(ctx context.Context, kit *entity.Product, cantidad decimal.Decimal, warehouseID string) (decimal.Decimal, error) {
	components, err := kr.ResolveBOM(kit)
	if err != nil {
		return decimal.Zero, err
	}
	if !cantidad.GreaterThan(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidInput
	}
	total := decimal.Zero
	for _, comp := range components {
		if comp.Kind != entity.ComponentProducto {
			continue
		}
		necesario := comp.Quantity.Mul(cantidad)
		unitario, err := kr.costEngine.CalcularCostoHistorico(ctx, comp.ComponentID, necesario, warehouseID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(unitario.Mul(necesario))
	}
	return total, nil
}

// CalcularCostoKitPorID resuelve el kit por ID y delega en CalcularCostoKit.
func (kr *KitResolver) CalcularCostoKitPorID(ctx context.Context, kitID string, cantidad decimal.Decimal, warehouseID string) (decimal.Decimal, error) {
	kit, err := kr.productRepo.GetByID(ctx, kitID)
	if err != nil {
		return decimal.Zero, err
	}
	if kit == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return kr.CalcularCostoKit(ctx, kit, cantidad, warehouseID)
}

// ValidarDisponibilidadKitPorID resuelve el kit por ID y delega en ValidarDisponibilidadKit.
func (kr *KitResolver) ValidarDisponibilidadKitPorID(ctx context.Context, kitID string, cantidad decimal.Decimal, warehouseID string, seriales []string) ([]Faltante, error) {
	kit, err := kr.productRepo.GetByID(ctx, kitID)
	if err != nil {
		return nil, err
	}
	if kit == nil {
		return nil, domain.ErrNotFound
	}
	return kr.ValidarDisponibilidadKit(ctx, kit, cantidad, warehouseID, seriales)
}

// ValidarDisponibilidadKit verifica que cada componente producto tenga stock
// para cantidad kits en la bodega. seriales (opcional) restringe los
// componentes serializados a unidades concretas. Devuelve la lista de
// faltantes por componente; lista vacía = disponibilidad completa.
func (kr *KitResolver) ValidarDisponibilidadKit(ctx context.Context, kit *entity.Product, cantidad decimal.Decimal, warehouseID string, seriales []string) ([]Faltante, error) {
	components, err := kr.ResolveBOM(kit)
	if err != nil {
		return nil, err
	}
	if !cantidad.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var solicitadas []entity.SerialUnit
	if len(seriales) > 0 {
		solicitadas, err = kr.serialRepo.GetBySerials(ctx, seriales)
		if err != nil {
			return nil, err
		}
	}

	faltantes := []Faltante{}
	for _, comp := range components {
		if comp.Kind != entity.ComponentProducto {
			continue
		}
		compProduct, err := kr.productRepo.GetByID(ctx, comp.ComponentID)
		if err != nil {
			return nil, err
		}
		if compProduct == nil {
			return nil, domain.ErrNotFound
		}
		necesario := comp.Quantity.Mul(cantidad)

		var disponible decimal.Decimal
		if compProduct.Serializado() {
			if len(seriales) > 0 {
				n := int64(0)
				for _, u := range solicitadas {
					if u.ProductID == compProduct.ID && u.WarehouseID == warehouseID && u.State == entity.SerialEnStock {
						n++
					}
				}
				disponible = decimal.NewFromInt(n)
			} else {
				n, err := kr.serialRepo.CountInStock(ctx, compProduct.ID, warehouseID)
				if err != nil {
					return nil, err
				}
				disponible = decimal.NewFromInt(n)
			}
		} else {
			stock, err := kr.stockRepo.Get(ctx, compProduct.ID, warehouseID)
			if err != nil {
				return nil, err
			}
			disponible = stock.Quantity
		}

		if disponible.LessThan(necesario) {
			faltantes = append(faltantes, Faltante{
				ComponentID: compProduct.ID,
				Nombre:      compProduct.Name,
				Requerido:   necesario,
				Disponible:  disponible,
				Faltante:    necesario.Sub(disponible),
			})
		}
	}
	return faltantes, nil
}
