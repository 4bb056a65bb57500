package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

func newCostEngine(store *memStore) *inventory.CostEngine {
	r := store.repos()
	return inventory.NewCostEngine(r.Products, r.Lots, r.Serials)
}

// El costo histórico de un lotificado recorre los lotes en orden FIFO:
// (5*10 + 2*12) / 7.
func TestCalcularCostoHistorico_Lotificado(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "15")
	store.products[p.ID] = p
	engine := newEngine(store)
	seedLotes(t, engine, "prod-1", "bod-1", [][3]string{
		{"L1", "5", "10"},
		{"L2", "5", "12"},
	})
	costs := newCostEngine(store)

	costo, err := costs.CalcularCostoHistorico(context.Background(), "prod-1", dec("7"), "bod-1")

	require.NoError(t, err)
	assert.True(t, costo.Equal(dec("74").Div(dec("7"))))
}

// El cálculo es puramente consultivo: los lotes quedan intactos.
func TestCalcularCostoHistorico_NoMuta(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "15")
	store.products[p.ID] = p
	engine := newEngine(store)
	seedLotes(t, engine, "prod-1", "bod-1", [][3]string{{"L1", "5", "10"}})
	costs := newCostEngine(store)

	_, err := costs.CalcularCostoHistorico(context.Background(), "prod-1", dec("5"), "bod-1")

	require.NoError(t, err)
	assert.True(t, store.lots[0].Remaining.Equal(dec("5")))
	assert.True(t, store.stock[stockKey("prod-1", "bod-1")].Quantity.Equal(dec("5")))
}

// Cuando los lotes no alcanzan, el resto se valora al costo de compra vigente
// (una cotización puede valorarse antes de que el stock exista).
func TestCalcularCostoHistorico_FaltanteACostoVigente(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "20")
	store.products[p.ID] = p
	store.lots = append(store.lots, &entity.Lot{
		ID: "lot-1", ProductID: "prod-1", WarehouseID: "bod-1",
		Number: "L1", Remaining: dec("3"), UnitCost: dec("10"), Seq: 1,
		CreatedAt: time.Now(),
	})
	costs := newCostEngine(store)

	costo, err := costs.CalcularCostoHistorico(context.Background(), "prod-1", dec("5"), "bod-1")

	require.NoError(t, err)
	// 3*10 + 2*20 = 70, sobre 5 unidades = 14.
	assert.True(t, costo.Equal(dec("14")))
}

// Serializado: costo de adquisición de las unidades en stock, en orden de
// ingreso.
func TestCalcularCostoHistorico_Serializado(t *testing.T) {
	store := newMemStore()
	p := productoSerie("prod-s", "Motor", "200")
	store.products[p.ID] = p
	reg := newRegistry(store)
	registrarUnidad(t, reg, "prod-s", "bod-1", "SN-001", "100")
	registrarUnidad(t, reg, "prod-s", "bod-1", "SN-002", "140")
	costs := newCostEngine(store)

	costo, err := costs.CalcularCostoHistorico(context.Background(), "prod-s", dec("2"), "bod-1")

	require.NoError(t, err)
	assert.True(t, costo.Equal(dec("120")))
}

// Sin lotes ni seriales, el costo es el de compra vigente del producto.
func TestCalcularCostoHistorico_SinTracking(t *testing.T) {
	store := newMemStore()
	p := productoSimple("prod-1", "Filtro", "8.5")
	store.products[p.ID] = p
	costs := newCostEngine(store)

	costo, err := costs.CalcularCostoHistorico(context.Background(), "prod-1", dec("3"), "bod-1")

	require.NoError(t, err)
	assert.True(t, costo.Equal(dec("8.5")))
}

func TestCalcularCostoHistorico_Errores(t *testing.T) {
	store := newMemStore()
	costs := newCostEngine(store)
	ctx := context.Background()

	_, err := costs.CalcularCostoHistorico(ctx, "no-existe", dec("1"), "bod-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = costs.CalcularCostoHistorico(ctx, "prod-1", dec("0"), "bod-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
