package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/inventory"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func lote(number, remaining, cost string, seq int64) entity.Lot {
	return entity.Lot{
		ID:        "lot-" + number,
		Number:    number,
		Remaining: d(remaining),
		UnitCost:  d(cost),
		Seq:       seq,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PlanConsumo
// ──────────────────────────────────────────────────────────────────────────────

// El lote más antiguo se agota por completo antes de tocar el siguiente.
func TestPlanConsumo_OrdenFIFOEstricto(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "5", "10", 1),
		lote("L2", "5", "12", 2),
	}

	plan, faltante := inventory.PlanConsumo(lotes, d("7"))

	require.Len(t, plan, 2)
	assert.Equal(t, "L1", plan[0].Lote.Number)
	assert.True(t, plan[0].Cantidad.Equal(d("5")), "L1 debe agotarse por completo")
	assert.Equal(t, "L2", plan[1].Lote.Number)
	assert.True(t, plan[1].Cantidad.Equal(d("2")))
	assert.True(t, faltante.IsZero())
}

// Los lotes en cero se saltan sin aportar consumo.
func TestPlanConsumo_IgnoraLotesAgotados(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "0", "10", 1),
		lote("L2", "4", "12", 2),
	}

	plan, faltante := inventory.PlanConsumo(lotes, d("3"))

	require.Len(t, plan, 1)
	assert.Equal(t, "L2", plan[0].Lote.Number)
	assert.True(t, faltante.IsZero())
}

// Si los lotes no alcanzan, el plan cubre lo que hay y reporta el faltante.
func TestPlanConsumo_ReportaFaltante(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "3", "10", 1),
	}

	plan, faltante := inventory.PlanConsumo(lotes, d("8"))

	require.Len(t, plan, 1)
	assert.True(t, plan[0].Cantidad.Equal(d("3")))
	assert.True(t, faltante.Equal(d("5")))
}

// PlanConsumo no muta los lotes recibidos.
func TestPlanConsumo_NoMutaLotes(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "5", "10", 1),
	}

	_, _ = inventory.PlanConsumo(lotes, d("5"))

	assert.True(t, lotes[0].Remaining.Equal(d("5")))
}

// ──────────────────────────────────────────────────────────────────────────────
// CostoPromedio
// ──────────────────────────────────────────────────────────────────────────────

// 5 unidades a $10 y 2 a $12: promedio ponderado (5*10 + 2*12) / 7.
func TestCostoPromedio_PonderadoPorLote(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "5", "10", 1),
		lote("L2", "5", "12", 2),
	}
	plan, faltante := inventory.PlanConsumo(lotes, d("7"))

	costo := inventory.CostoPromedio(plan, faltante, d("15"), d("7"))

	esperado := d("74").Div(d("7"))
	assert.True(t, costo.Equal(esperado), "esperado %s, obtenido %s", esperado, costo)
}

// El faltante se valora al costo de lista vigente.
func TestCostoPromedio_FaltanteACostoDeLista(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "3", "10", 1),
	}
	plan, faltante := inventory.PlanConsumo(lotes, d("5"))

	costo := inventory.CostoPromedio(plan, faltante, d("20"), d("5"))

	// 3*10 + 2*20 = 70, sobre 5 unidades = 14
	assert.True(t, costo.Equal(d("14")))
}

func TestCostoPromedio_CantidadCeroDevuelveCero(t *testing.T) {
	costo := inventory.CostoPromedio(nil, decimal.Zero, d("10"), decimal.Zero)
	assert.True(t, costo.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponible / CostCalculator
// ──────────────────────────────────────────────────────────────────────────────

func TestDisponible_SumaRestantes(t *testing.T) {
	lotes := []entity.Lot{
		lote("L1", "2.5", "10", 1),
		lote("L2", "1.5", "12", 2),
	}
	assert.True(t, inventory.Disponible(lotes).Equal(d("4")))
}

// Entrada de 10 a $20 sobre 10 en stock a $10: nuevo costo promedio $15.
func TestCostCalculator_PromedioPonderado(t *testing.T) {
	nuevo := inventory.CostCalculator(d("10"), d("10"), d("10"), d("20"))
	assert.True(t, nuevo.Equal(d("15")))
}

// Sin stock previo el costo es el de la entrada.
func TestCostCalculator_SinStockPrevio(t *testing.T) {
	nuevo := inventory.CostCalculator(decimal.Zero, decimal.Zero, d("4"), d("25"))
	assert.True(t, nuevo.Equal(d("25")))
}
