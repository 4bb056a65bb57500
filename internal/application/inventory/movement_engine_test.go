package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-inventario/internal/application/inventory"
	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

func newEngine(store *memStore) *inventory.MovementEngine {
	return inventory.NewMovementEngine(&fakeTxRunner{store: store})
}

// ──────────────────────────────────────────────────────────────────────────────
// Entrada
// ──────────────────────────────────────────────────────────────────────────────

// Una entrada de producto lotificado abre lote, suma saldo y deja auditoría.
func TestEntrada_LotificadoCreaLoteSaldoYMovimiento(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "10")
	store.products[p.ID] = p
	engine := newEngine(store)

	mov, err := engine.Entrada(context.Background(), inventory.EntradaInput{
		ProductID:   "prod-1",
		WarehouseID: "bod-1",
		Quantity:    dec("5"),
		LotNumber:   "L-100",
		Motive:      "compra inicial",
		UserID:      "user-1",
	})

	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementTypeEntrada, mov.Type)
	assert.True(t, mov.Quantity.Equal(dec("5")))

	require.Len(t, store.lots, 1)
	assert.Equal(t, "L-100", store.lots[0].Number)
	assert.True(t, store.lots[0].Remaining.Equal(dec("5")))
	assert.Equal(t, int64(1), store.lots[0].Seq)

	st := store.stock[stockKey("prod-1", "bod-1")]
	require.NotNil(t, st)
	assert.True(t, st.Quantity.Equal(dec("5")))
	require.Len(t, store.movements, 1)
}

// Repetir el número de lote en la misma bodega completa el lote existente en
// lugar de abrir uno nuevo.
func TestEntrada_MismoNumeroCompletaLote(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "10")
	store.products[p.ID] = p
	engine := newEngine(store)
	ctx := context.Background()

	_, err := engine.Entrada(ctx, inventory.EntradaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("5"), LotNumber: "L-100",
	})
	require.NoError(t, err)
	_, err = engine.Entrada(ctx, inventory.EntradaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("3"), LotNumber: "L-100",
	})
	require.NoError(t, err)

	require.Len(t, store.lots, 1)
	assert.True(t, store.lots[0].Remaining.Equal(dec("8")))
}

// Sin número de lote la entrada genera uno propio.
func TestEntrada_SinNumeroGeneraLote(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "10")
	store.products[p.ID] = p
	engine := newEngine(store)

	_, err := engine.Entrada(context.Background(), inventory.EntradaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("2"),
	})

	require.NoError(t, err)
	require.Len(t, store.lots, 1)
	assert.NotEmpty(t, store.lots[0].Number)
}

// Entrada de 10 a $20 sobre 10 en stock a $10 deja el costo promedio en $15.
func TestEntrada_RecalculaCostoPromedio(t *testing.T) {
	store := newMemStore()
	p := productoSimple("prod-1", "Filtro", "10")
	store.products[p.ID] = p
	store.stock[stockKey("prod-1", "bod-1")] = &entity.Stock{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("10"),
	}
	engine := newEngine(store)

	costo := dec("20")
	_, err := engine.Entrada(context.Background(), inventory.EntradaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("10"), UnitCost: &costo,
	})

	require.NoError(t, err)
	assert.True(t, store.products["prod-1"].Cost.Equal(dec("15")))
}

// Una entrada por traslado no toca el costo del producto: mover stock de
// bodega no cambia su costo de adquisición.
func TestEntrada_TrasladoNoRecalculaCosto(t *testing.T) {
	store := newMemStore()
	p := productoSimple("prod-1", "Filtro", "10")
	store.products[p.ID] = p
	engine := newEngine(store)

	costo := dec("99")
	_, err := engine.Entrada(context.Background(), inventory.EntradaInput{
		ProductID:   "prod-1",
		WarehouseID: "bod-2",
		Quantity:    dec("4"),
		UnitCost:    &costo,
		Reference:   &entity.DocumentRef{Kind: entity.DocTraslado, ID: "tr-1"},
	})

	require.NoError(t, err)
	assert.True(t, store.products["prod-1"].Cost.Equal(dec("10")))
}

// Kits y serializados no entran por cantidad.
func TestEntrada_RechazaKitsYSerializados(t *testing.T) {
	store := newMemStore()
	kit := productoSimple("kit-1", "Kit mantenimiento", "0")
	kit.IsKit = true
	store.products[kit.ID] = kit
	serie := productoSerie("prod-s", "Motor", "100")
	store.products[serie.ID] = serie
	engine := newEngine(store)
	ctx := context.Background()

	_, err := engine.Entrada(ctx, inventory.EntradaInput{
		ProductID: "kit-1", WarehouseID: "bod-1", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Entrada(ctx, inventory.EntradaInput{
		ProductID: "prod-s", WarehouseID: "bod-1", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEntrada_ProductoInexistente(t *testing.T) {
	engine := newEngine(newMemStore())
	_, err := engine.Entrada(context.Background(), inventory.EntradaInput{
		ProductID: "no-existe", WarehouseID: "bod-1", Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salida
// ──────────────────────────────────────────────────────────────────────────────

func seedLotes(t *testing.T, engine *inventory.MovementEngine, productID, warehouseID string, lotes [][3]string) {
	t.Helper()
	for _, l := range lotes {
		costo := dec(l[2])
		_, err := engine.Entrada(context.Background(), inventory.EntradaInput{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Quantity:    dec(l[1]),
			LotNumber:   l[0],
			UnitCost:    &costo,
		})
		require.NoError(t, err)
	}
}

// La salida agota el lote más antiguo por completo antes de tocar el
// siguiente, y devuelve los consumos en ese orden.
func TestSalida_ConsumeFIFOEstricto(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "10")
	store.products[p.ID] = p
	engine := newEngine(store)
	seedLotes(t, engine, "prod-1", "bod-1", [][3]string{
		{"L1", "5", "10"},
		{"L2", "5", "12"},
	})

	mov, consumos, err := engine.Salida(context.Background(), inventory.SalidaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("7"), Motive: "venta",
	})

	require.NoError(t, err)
	require.Len(t, consumos, 2)
	assert.Equal(t, "L1", consumos[0].Lote.Number)
	assert.True(t, consumos[0].Cantidad.Equal(dec("5")))
	assert.Equal(t, "L2", consumos[1].Lote.Number)
	assert.True(t, consumos[1].Cantidad.Equal(dec("2")))

	// La cantidad del movimiento de salida es negativa.
	assert.True(t, mov.Quantity.Equal(dec("-7")))
	// Costo promedio ponderado: (5*10 + 2*12) / 7.
	assert.True(t, mov.UnitCost.Equal(dec("74").Div(dec("7"))))

	assert.True(t, store.lots[0].Remaining.IsZero())
	assert.True(t, store.lots[1].Remaining.Equal(dec("3")))
	assert.True(t, store.stock[stockKey("prod-1", "bod-1")].Quantity.Equal(dec("3")))
}

// Sin stock suficiente la salida falla con el error tipado y no consume nada:
// el rollback deja lotes y saldo intactos.
func TestSalida_InsuficienteNoConsumeNada(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "10")
	store.products[p.ID] = p
	engine := newEngine(store)
	seedLotes(t, engine, "prod-1", "bod-1", [][3]string{{"L1", "3", "10"}})

	_, _, err := engine.Salida(context.Background(), inventory.SalidaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("8"),
	})

	require.Error(t, err)
	var insuf *domain.InsufficientStockError
	require.ErrorAs(t, err, &insuf)
	assert.True(t, insuf.Solicitado.Equal(dec("8")))
	assert.True(t, insuf.Disponible.Equal(dec("3")))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, store.lots[0].Remaining.Equal(dec("3")), "nunca hay consumo parcial")
	assert.True(t, store.stock[stockKey("prod-1", "bod-1")].Quantity.Equal(dec("3")))
	assert.Len(t, store.movements, 1, "solo la entrada de seed")
}

// Producto sin lotes: la salida descuenta del saldo directo.
func TestSalida_SinLotesDescuentaSaldo(t *testing.T) {
	store := newMemStore()
	p := productoSimple("prod-1", "Filtro", "10")
	store.products[p.ID] = p
	store.stock[stockKey("prod-1", "bod-1")] = &entity.Stock{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("6"),
	}
	engine := newEngine(store)

	mov, consumos, err := engine.Salida(context.Background(), inventory.SalidaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("4"),
	})

	require.NoError(t, err)
	assert.Empty(t, consumos)
	assert.True(t, mov.UnitCost.Equal(dec("10")))
	assert.True(t, store.stock[stockKey("prod-1", "bod-1")].Quantity.Equal(dec("2")))
}

func TestSalida_CantidadInvalida(t *testing.T) {
	engine := newEngine(newMemStore())
	_, _, err := engine.Salida(context.Background(), inventory.SalidaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Entradas y salidas de una misma operación comparten el TransactionID.
func TestMovimientos_CompartenTransactionID(t *testing.T) {
	store := newMemStore()
	p := productoLote("prod-1", "Aceite 20W50", "10")
	store.products[p.ID] = p
	engine := newEngine(store)
	ctx := context.Background()

	_, err := engine.Entrada(ctx, inventory.EntradaInput{
		ProductID: "prod-1", WarehouseID: "bod-1", Quantity: dec("5"),
		LotNumber: "L1", TransactionID: "tx-compra-9",
	})
	require.NoError(t, err)

	movs, err := store.repos().Movements.ListByTransaction(ctx, "tx-compra-9")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "tx-compra-9", movs[0].TransactionID)
}
