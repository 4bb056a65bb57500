package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/inventory"
)

// MovementEngine es el único mutador de saldos, lotes y movimientos: expone
// Entrada y Salida como primitivas de escritura, siempre con bloqueo de fila
// (SELECT FOR UPDATE) y re-validación de disponibilidad bajo el bloqueo.
//
// Cada operación existe en dos formas: la forma directa abre y cierra su
// propia transacción vía TxRunner; la forma *InTx recibe los repositorios
// atados a una transacción del caller, para que operaciones multi-ítem (una
// venta con diez líneas, un traslado) ejecuten como una sola unidad atómica.
type MovementEngine struct {
	txRunner TxRunner
}

// NewMovementEngine construye el motor de movimientos.
func NewMovementEngine(txRunner TxRunner) *MovementEngine {
	return &MovementEngine{txRunner: txRunner}
}

// EntradaInput parámetros de una entrada de stock.
type EntradaInput struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	Motive      string
	Reference   *entity.DocumentRef
	// Solo productos lotificados:
	LotNumber string           // vacío = generar número nuevo
	Expiry    *time.Time       // vencimiento del lote
	UnitCost  *decimal.Decimal // nil = costo de compra vigente del producto
	// Auditoría:
	UserID        string
	TransactionID string // vacío = generar uno nuevo
}

// SalidaInput parámetros de una salida de stock.
type SalidaInput struct {
	ProductID     string
	WarehouseID   string
	Quantity      decimal.Decimal
	Motive        string
	Reference     *entity.DocumentRef
	UserID        string
	TransactionID string
}

// Entrada registra una entrada de stock en su propia transacción.
func (e *MovementEngine) Entrada(ctx context.Context, in EntradaInput) (*entity.Movement, error) {
	var mov *entity.Movement
	err := e.txRunner.Run(ctx, func(r Repos) error {
		m, err := e.EntradaInTx(ctx, r, in)
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// EntradaInTx registra una entrada usando los repositorios del caller (misma
// transacción). Bloquea la fila de saldo, crea o completa el lote para
// productos lotificados, suma el saldo y guarda el movimiento de auditoría.
// Los productos serializados no entran por cantidad: sus unidades se
// registran una a una en el registro de seriales.
func (e *MovementEngine) EntradaInTx(ctx context.Context, r Repos, in EntradaInput) (*entity.Movement, error) {
	if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := r.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	// Un kit nunca almacena stock propio; un serializado entra unidad a unidad.
	if product.IsKit || product.Serializado() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	stock, err := r.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, err
	}

	unitCost := product.Cost
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
	}

	if product.Lotificado() {
		number := strings.TrimSpace(in.LotNumber)
		if number == "" {
			number = nuevoNumeroLote()
		}
		lot, err := r.Lots.GetByNumberForUpdate(ctx, in.ProductID, in.WarehouseID, number)
		if err != nil {
			return nil, err
		}
		if lot != nil {
			// Mismo número en la misma bodega: se completa el lote existente.
			if err := r.Lots.UpdateRemaining(ctx, lot.ID, lot.Remaining.Add(in.Quantity)); err != nil {
				return nil, err
			}
		} else {
			lot = &entity.Lot{
				ID:          uuid.New().String(),
				ProductID:   in.ProductID,
				WarehouseID: in.WarehouseID,
				Number:      number,
				Remaining:   in.Quantity,
				UnitCost:    unitCost,
				Expiry:      in.Expiry,
				CreatedAt:   now,
			}
			if err := r.Lots.Create(ctx, lot); err != nil {
				return nil, err
			}
		}
	}

	// Actualiza el costo promedio ponderado del producto, salvo en traslados:
	// mover stock de bodega no cambia su costo de adquisición.
	if in.Reference == nil || in.Reference.Kind != entity.DocTraslado {
		newCost := inventory.CostCalculator(stock.Quantity, product.Cost, in.Quantity, unitCost)
		if err := r.Products.UpdateCost(ctx, in.ProductID, newCost); err != nil {
			return nil, err
		}
	}

	stock.Quantity = stock.Quantity.Add(in.Quantity)
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		TransactionID: orNewTransactionID(in.TransactionID),
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          entity.MovementTypeEntrada,
		Quantity:      in.Quantity,
		UnitCost:      unitCost,
		TotalCost:     in.Quantity.Mul(unitCost),
		Motive:        in.Motive,
		Reference:     in.Reference,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     in.UserID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Salida registra una salida de stock en su propia transacción y devuelve los
// pares (lote, cantidad tomada) consumidos en orden FIFO.
func (e *MovementEngine) Salida(ctx context.Context, in SalidaInput) (*entity.Movement, []inventory.Consumo, error) {
	var (
		mov      *entity.Movement
		consumos []inventory.Consumo
	)
	err := e.txRunner.Run(ctx, func(r Repos) error {
		m, c, err := e.SalidaInTx(ctx, r, in)
		mov, consumos = m, c
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return mov, consumos, nil
}

// SalidaInTx registra una salida usando los repositorios del caller.
// Bloquea la fila de saldo y los lotes abiertos, re-valida disponibilidad bajo
// el bloqueo y consume en orden FIFO estricto: un lote se agota por completo
// antes de tocar el siguiente. Si la cantidad no alcanza falla con
// InsufficientStockError sin consumir nada (nunca hay consumo parcial).
func (e *MovementEngine) SalidaInTx(ctx context.Context, r Repos, in SalidaInput) (*entity.Movement, []inventory.Consumo, error) {
	if in.ProductID == "" || in.WarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, nil, domain.ErrInvalidInput
	}
	product, err := r.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	if product.IsKit || product.Serializado() {
		// Los kits salen por componentes; los serializados, por el registro de seriales.
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	stock, err := r.Stock.GetForUpdate(ctx, in.ProductID, in.WarehouseID)
	if err != nil {
		return nil, nil, err
	}

	var (
		plan     []inventory.Consumo
		unitCost decimal.Decimal
	)
	if product.Lotificado() {
		lots, err := r.Lots.ListOpenForUpdate(ctx, in.ProductID, in.WarehouseID)
		if err != nil {
			return nil, nil, err
		}
		// Re-validación obligatoria bajo el bloqueo: pudo pasar tiempo entre
		// una verificación previa sin bloqueo y este punto.
		disponible := inventory.Disponible(lots)
		if disponible.LessThan(in.Quantity) {
			return nil, nil, &domain.InsufficientStockError{
				ProductID:  product.ID,
				Nombre:     product.Name,
				Solicitado: in.Quantity,
				Disponible: disponible,
			}
		}
		plan, _ = inventory.PlanConsumo(lots, in.Quantity)
		for _, c := range plan {
			if err := r.Lots.UpdateRemaining(ctx, c.Lote.ID, c.Lote.Remaining.Sub(c.Cantidad)); err != nil {
				return nil, nil, err
			}
		}
		unitCost = inventory.CostoPromedio(plan, decimal.Zero, product.Cost, in.Quantity)
	} else {
		if stock.Quantity.LessThan(in.Quantity) {
			return nil, nil, &domain.InsufficientStockError{
				ProductID:  product.ID,
				Nombre:     product.Name,
				Solicitado: in.Quantity,
				Disponible: stock.Quantity,
			}
		}
		unitCost = product.Cost
	}

	stock.Quantity = stock.Quantity.Sub(in.Quantity)
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(ctx, stock); err != nil {
		return nil, nil, err
	}

	mov := &entity.Movement{
		ID:            uuid.New().String(),
		TransactionID: orNewTransactionID(in.TransactionID),
		ProductID:     in.ProductID,
		WarehouseID:   in.WarehouseID,
		Type:          entity.MovementTypeSalida,
		Quantity:      in.Quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     in.Quantity.Neg().Mul(unitCost),
		Motive:        in.Motive,
		Reference:     in.Reference,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     in.UserID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return mov, plan, nil
}

// salidaDeLotesInTx consume cantidades de lotes nombrados (no FIFO): lo usa la
// reversión de traslados para devolver exactamente los lotes que el traslado
// abrió en destino. Si un lote ya no tiene la cantidad pedida (otro consumo se
// la llevó) falla con ErrCannotReverse.
func (e *MovementEngine) salidaDeLotesInTx(ctx context.Context, r Repos, product *entity.Product, warehouseID string, detail []entity.TransferLot, motive string, ref *entity.DocumentRef, userID, transactionID string) (*entity.Movement, error) {
	now := time.Now()
	stock, err := r.Stock.GetForUpdate(ctx, product.ID, warehouseID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	totalCost := decimal.Zero
	for _, d := range detail {
		lot, err := r.Lots.GetByNumberForUpdate(ctx, product.ID, warehouseID, d.Number)
		if err != nil {
			return nil, err
		}
		if lot == nil || lot.Remaining.LessThan(d.Quantity) {
			return nil, domain.ErrCannotReverse
		}
		if err := r.Lots.UpdateRemaining(ctx, lot.ID, lot.Remaining.Sub(d.Quantity)); err != nil {
			return nil, err
		}
		total = total.Add(d.Quantity)
		totalCost = totalCost.Add(d.Quantity.Mul(d.UnitCost))
	}

	stock.Quantity = stock.Quantity.Sub(total)
	stock.UpdatedAt = now
	if err := r.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}

	unitCost := decimal.Zero
	if total.GreaterThan(decimal.Zero) {
		unitCost = totalCost.Div(total)
	}
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		ProductID:     product.ID,
		WarehouseID:   warehouseID,
		Type:          entity.MovementTypeSalida,
		Quantity:      total.Neg(),
		UnitCost:      unitCost,
		TotalCost:     total.Neg().Mul(unitCost),
		Motive:        motive,
		Reference:     ref,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func orNewTransactionID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

// nuevoNumeroLote genera un número de lote cuando la entrada no trae uno.
func nuevoNumeroLote() string {
	return "L-" + strings.ToUpper(uuid.New().String()[:8])
}
