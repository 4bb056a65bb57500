package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/pkg/normalize"
)

// SerialRegistry administra unidades serializadas: registro al recibir,
// traslado entre bodegas y transiciones de ciclo de vida ligadas a un evento
// de negocio. El saldo de un producto serializado es el conteo de unidades
// en_stock por bodega; nunca se hace aritmética de cantidades, así el saldo
// siempre es reconstruible contando filas y no puede desfasarse.
//
// Cada mutación devuelve sus movimientos de auditoría: escribir la historia
// es parte del contrato de la operación, no un hook implícito que el caller
// pueda olvidar disparar.
type SerialRegistry struct {
	txRunner TxRunner
}

// NewSerialRegistry construye el registro de seriales.
func NewSerialRegistry(txRunner TxRunner) *SerialRegistry {
	return &SerialRegistry{txRunner: txRunner}
}

// RegistrarInput parámetros para registrar una unidad serializada recibida.
type RegistrarInput struct {
	ProductID   string
	WarehouseID string
	Serial      string
	Cost        decimal.Decimal
	Motive      string
	Reference   *entity.DocumentRef
	UserID      string
}

// Registrar da de alta una unidad serializada en_stock y guarda su movimiento
// de entrada (cantidad 1).
func (s *SerialRegistry) Registrar(ctx context.Context, in RegistrarInput) (*entity.SerialUnit, error) {
	serial := normalize.Fold(in.Serial)
	if in.ProductID == "" || in.WarehouseID == "" || serial == "" {
		return nil, domain.ErrInvalidInput
	}
	var unit *entity.SerialUnit
	err := s.txRunner.Run(ctx, func(r Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.Serializado() {
			return domain.ErrInvalidInput
		}
		existing, err := r.Serials.GetBySerial(ctx, serial)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		now := time.Now()
		unit = &entity.SerialUnit{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			Serial:      serial,
			State:       entity.SerialEnStock,
			Cost:        in.Cost,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Serials.Create(ctx, unit); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:            uuid.New().String(),
			TransactionID: uuid.New().String(),
			ProductID:     in.ProductID,
			WarehouseID:   in.WarehouseID,
			Type:          entity.MovementTypeEntrada,
			Quantity:      decimal.NewFromInt(1),
			UnitCost:      in.Cost,
			TotalCost:     in.Cost,
			Motive:        in.Motive,
			Reference:     in.Reference,
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     in.UserID,
		}
		return r.Movements.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// MoverSeriales traslada unidades entre bodegas en su propia transacción.
func (s *SerialRegistry) MoverSeriales(ctx context.Context, serials []string, fromID, toID, motive string, ref *entity.DocumentRef, userID string) ([]*entity.Movement, error) {
	var movs []*entity.Movement
	err := s.txRunner.Run(ctx, func(r Repos) error {
		m, err := s.MoverSerialesInTx(ctx, r, serials, fromID, toID, motive, ref, userID, "")
		movs = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return movs, nil
}

// MoverSerialesInTx traslada unidades usando los repositorios del caller.
// Bloquea las filas, verifica que todas estén en_stock en la bodega origen
// (rechaza con SerialUnavailableError nombrando las ofensoras) y muta la
// bodega de cada unidad en sitio: sin sumas ni restas de cantidades.
// Registra una salida en origen y una entrada en destino por producto.
func (s *SerialRegistry) MoverSerialesInTx(ctx context.Context, r Repos, serials []string, fromID, toID, motive string, ref *entity.DocumentRef, userID, transactionID string) ([]*entity.Movement, error) {
	if len(serials) == 0 || fromID == "" || toID == "" || fromID == toID {
		return nil, domain.ErrInvalidInput
	}
	pedidos := make([]string, 0, len(serials))
	for _, sn := range serials {
		pedidos = append(pedidos, normalize.Fold(sn))
	}

	units, err := r.Serials.GetBySerialsForUpdate(ctx, pedidos)
	if err != nil {
		return nil, err
	}
	porSerial := make(map[string]entity.SerialUnit, len(units))
	for _, u := range units {
		porSerial[u.Serial] = u
	}

	// Re-validación bajo bloqueo: toda unidad debe estar en_stock en origen.
	var ofensores []string
	for _, sn := range pedidos {
		u, ok := porSerial[sn]
		if !ok || u.WarehouseID != fromID || u.State != entity.SerialEnStock {
			ofensores = append(ofensores, sn)
		}
	}
	if len(ofensores) > 0 {
		return nil, &domain.SerialUnavailableError{WarehouseID: fromID, Seriales: ofensores}
	}

	for _, sn := range pedidos {
		u := porSerial[sn]
		if err := r.Serials.UpdateLocation(ctx, u.ID, toID, entity.SerialEnStock); err != nil {
			return nil, err
		}
	}

	return s.movimientosPorProducto(ctx, r, units, fromID, toID, motive, ref, userID, transactionID)
}

// movimientosPorProducto agrupa las unidades movidas por producto y escribe
// el par salida/entrada de auditoría de cada grupo.
func (s *SerialRegistry) movimientosPorProducto(ctx context.Context, r Repos, units []entity.SerialUnit, fromID, toID, motive string, ref *entity.DocumentRef, userID, transactionID string) ([]*entity.Movement, error) {
	now := time.Now()
	txID := orNewTransactionID(transactionID)

	type grupo struct {
		cantidad decimal.Decimal
		costo    decimal.Decimal
	}
	grupos := make(map[string]*grupo)
	orden := []string{}
	for _, u := range units {
		g, ok := grupos[u.ProductID]
		if !ok {
			g = &grupo{cantidad: decimal.Zero, costo: decimal.Zero}
			grupos[u.ProductID] = g
			orden = append(orden, u.ProductID)
		}
		g.cantidad = g.cantidad.Add(decimal.NewFromInt(1))
		g.costo = g.costo.Add(u.Cost)
	}

	var movs []*entity.Movement
	for _, productID := range orden {
		g := grupos[productID]
		unitCost := g.costo.Div(g.cantidad)
		salida := &entity.Movement{
			ID:            uuid.New().String(),
			TransactionID: txID,
			ProductID:     productID,
			WarehouseID:   fromID,
			Type:          entity.MovementTypeSalida,
			Quantity:      g.cantidad.Neg(),
			UnitCost:      unitCost,
			TotalCost:     g.cantidad.Neg().Mul(unitCost),
			Motive:        motive,
			Reference:     ref,
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := r.Movements.Create(ctx, salida); err != nil {
			return nil, err
		}
		entrada := &entity.Movement{
			ID:            uuid.New().String(),
			TransactionID: txID,
			ProductID:     productID,
			WarehouseID:   toID,
			Type:          entity.MovementTypeEntrada,
			Quantity:      g.cantidad,
			UnitCost:      unitCost,
			TotalCost:     g.cantidad.Mul(unitCost),
			Motive:        motive,
			Reference:     ref,
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     userID,
		}
		if err := r.Movements.Create(ctx, entrada); err != nil {
			return nil, err
		}
		movs = append(movs, salida, entrada)
	}
	return movs, nil
}

// Vender marca unidades como vendidas (salida de auditoría incluida), ligadas
// al documento de venta.
func (s *SerialRegistry) Vender(ctx context.Context, serials []string, warehouseID, motive string, ref *entity.DocumentRef, userID string) ([]*entity.Movement, error) {
	return s.transicion(ctx, serials, warehouseID, entity.SerialEnStock, entity.SerialVendido, entity.MovementTypeSalida, motive, ref, userID)
}

// Devolver marca unidades vendidas como devueltas y las reingresa a la bodega
// (entrada de auditoría incluida).
func (s *SerialRegistry) Devolver(ctx context.Context, serials []string, warehouseID, motive string, ref *entity.DocumentRef, userID string) ([]*entity.Movement, error) {
	return s.transicion(ctx, serials, warehouseID, entity.SerialVendido, entity.SerialDevuelto, entity.MovementTypeEntrada, motive, ref, userID)
}

func (s *SerialRegistry) transicion(ctx context.Context, serials []string, warehouseID, desde, hacia, movType, motive string, ref *entity.DocumentRef, userID string) ([]*entity.Movement, error) {
	if len(serials) == 0 || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	pedidos := make([]string, 0, len(serials))
	for _, sn := range serials {
		pedidos = append(pedidos, normalize.Fold(sn))
	}
	var movs []*entity.Movement
	err := s.txRunner.Run(ctx, func(r Repos) error {
		units, err := r.Serials.GetBySerialsForUpdate(ctx, pedidos)
		if err != nil {
			return err
		}
		porSerial := make(map[string]entity.SerialUnit, len(units))
		for _, u := range units {
			porSerial[u.Serial] = u
		}
		var ofensores []string
		for _, sn := range pedidos {
			u, ok := porSerial[sn]
			if !ok || u.WarehouseID != warehouseID || u.State != desde {
				ofensores = append(ofensores, sn)
			}
		}
		if len(ofensores) > 0 {
			return &domain.SerialUnavailableError{WarehouseID: warehouseID, Seriales: ofensores}
		}

		now := time.Now()
		txID := uuid.New().String()
		for _, sn := range pedidos {
			u := porSerial[sn]
			if err := r.Serials.UpdateLocation(ctx, u.ID, warehouseID, hacia); err != nil {
				return err
			}
			qty := decimal.NewFromInt(1)
			if movType == entity.MovementTypeSalida {
				qty = qty.Neg()
			}
			mov := &entity.Movement{
				ID:            uuid.New().String(),
				TransactionID: txID,
				ProductID:     u.ProductID,
				WarehouseID:   warehouseID,
				Type:          movType,
				Quantity:      qty,
				UnitCost:      u.Cost,
				TotalCost:     qty.Mul(u.Cost),
				Motive:        motive,
				Reference:     ref,
				Date:          now,
				CreatedAt:     now,
				CreatedBy:     userID,
			}
			if err := r.Movements.Create(ctx, mov); err != nil {
				return err
			}
			movs = append(movs, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movs, nil
}
