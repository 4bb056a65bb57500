package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// TransferCoordinator orquesta un traslado entre bodegas: una salida en la
// bodega origen seguida de una entrada en destino por cada lote consumido,
// todo dentro de una única transacción del coordinador (las llamadas internas
// usan las formas *InTx). Cualquier falla revierte el traslado completo y
// deja ambas bodegas intactas.
type TransferCoordinator struct {
	txRunner TxRunner
	engine   *MovementEngine
	serials  *SerialRegistry
}

// NewTransferCoordinator construye el coordinador de traslados.
func NewTransferCoordinator(txRunner TxRunner, engine *MovementEngine, serials *SerialRegistry) *TransferCoordinator {
	return &TransferCoordinator{txRunner: txRunner, engine: engine, serials: serials}
}

// TransferInput parámetros de un traslado. Para productos serializados se
// indican los seriales concretos; para el resto, la cantidad.
type TransferInput struct {
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Serials         []string
	Motive          string
	UserID          string
}

// Transferir mueve stock de la bodega origen a la destino preservando la
// procedencia: cada lote consumido en origen abre (o completa) en destino un
// lote con el mismo número, costo y vencimiento. Los seriales se reubican
// directamente, sin contabilidad sintética de lotes. Un traslado fallido no
// se persiste: el rollback deja ambas bodegas como estaban.
func (tc *TransferCoordinator) Transferir(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	if in.ProductID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" ||
		in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}

	transfer := &entity.Transfer{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Quantity:        in.Quantity,
		Serials:         in.Serials,
		Motive:          in.Motive,
		CreatedAt:       time.Now(),
		CreatedBy:       in.UserID,
	}
	ref := &entity.DocumentRef{Kind: entity.DocTraslado, ID: transfer.ID}
	transfer.Reference = ref

	err := tc.txRunner.Run(ctx, func(r Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if product.Serializado() {
			if len(in.Serials) == 0 {
				return domain.ErrInvalidInput
			}
			if _, err := tc.serials.MoverSerialesInTx(ctx, r, in.Serials,
				in.FromWarehouseID, in.ToWarehouseID, in.Motive, ref, in.UserID, transfer.ID); err != nil {
				return err
			}
			transfer.Quantity = decimal.NewFromInt(int64(len(in.Serials)))
		} else {
			if !in.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			_, consumos, err := tc.engine.SalidaInTx(ctx, r, SalidaInput{
				ProductID:     in.ProductID,
				WarehouseID:   in.FromWarehouseID,
				Quantity:      in.Quantity,
				Motive:        in.Motive,
				Reference:     ref,
				UserID:        in.UserID,
				TransactionID: transfer.ID,
			})
			if err != nil {
				return err
			}

			if len(consumos) > 0 {
				// Lotificado: una entrada por lote consumido, con procedencia.
				for _, c := range consumos {
					unitCost := c.Lote.UnitCost
					if _, err := tc.engine.EntradaInTx(ctx, r, EntradaInput{
						ProductID:     in.ProductID,
						WarehouseID:   in.ToWarehouseID,
						Quantity:      c.Cantidad,
						Motive:        in.Motive,
						Reference:     ref,
						LotNumber:     c.Lote.Number,
						Expiry:        c.Lote.Expiry,
						UnitCost:      &unitCost,
						UserID:        in.UserID,
						TransactionID: transfer.ID,
					}); err != nil {
						return err
					}
					transfer.Detail = append(transfer.Detail, entity.TransferLot{
						Number:   c.Lote.Number,
						Quantity: c.Cantidad,
						UnitCost: c.Lote.UnitCost,
						Expiry:   c.Lote.Expiry,
					})
				}
			} else {
				// Sin lotes: una sola entrada por la cantidad completa.
				if _, err := tc.engine.EntradaInTx(ctx, r, EntradaInput{
					ProductID:     in.ProductID,
					WarehouseID:   in.ToWarehouseID,
					Quantity:      in.Quantity,
					Motive:        in.Motive,
					Reference:     ref,
					UserID:        in.UserID,
					TransactionID: transfer.ID,
				}); err != nil {
					return err
				}
			}
		}

		transfer.Status = entity.TransferCompletado
		return r.Transfers.Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// Revertir deshace un traslado completado: salida en destino de exactamente
// los lotes (o seriales) que el traslado llevó, y entrada de vuelta en origen
// con la procedencia original. Si el stock en destino ya fue consumido por
// otra operación falla con ErrCannotReverse en lugar de permitir inventario
// negativo o implícito.
func (tc *TransferCoordinator) Revertir(ctx context.Context, transferID, userID string) error {
	return tc.txRunner.Run(ctx, func(r Repos) error {
		transfer, err := r.Transfers.GetByID(ctx, transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrNotFound
		}
		if transfer.Status != entity.TransferCompletado {
			return domain.ErrConflict
		}
		product, err := r.Products.GetByID(ctx, transfer.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		ref := &entity.DocumentRef{Kind: entity.DocTraslado, ID: transfer.ID}
		motive := "reversión de traslado"

		switch {
		case product.Serializado():
			_, err := tc.serials.MoverSerialesInTx(ctx, r, transfer.Serials,
				transfer.ToWarehouseID, transfer.FromWarehouseID, motive, ref, userID, "")
			if errors.Is(err, domain.ErrSerialUnavailable) {
				// Alguna unidad ya salió de destino: la procedencia se perdió.
				return domain.ErrCannotReverse
			}
			if err != nil {
				return err
			}

		case len(transfer.Detail) > 0:
			if _, err := tc.engine.salidaDeLotesInTx(ctx, r, product, transfer.ToWarehouseID,
				transfer.Detail, motive, ref, userID, uuid.New().String()); err != nil {
				return err
			}
			for _, d := range transfer.Detail {
				unitCost := d.UnitCost
				if _, err := tc.engine.EntradaInTx(ctx, r, EntradaInput{
					ProductID:   transfer.ProductID,
					WarehouseID: transfer.FromWarehouseID,
					Quantity:    d.Quantity,
					Motive:      motive,
					Reference:   ref,
					LotNumber:   d.Number,
					Expiry:      d.Expiry,
					UnitCost:    &unitCost,
					UserID:      userID,
				}); err != nil {
					return err
				}
			}

		default:
			_, _, err := tc.engine.SalidaInTx(ctx, r, SalidaInput{
				ProductID:   transfer.ProductID,
				WarehouseID: transfer.ToWarehouseID,
				Quantity:    transfer.Quantity,
				Motive:      motive,
				Reference:   ref,
				UserID:      userID,
			})
			if errors.Is(err, domain.ErrInsufficientStock) {
				return domain.ErrCannotReverse
			}
			if err != nil {
				return err
			}
			if _, err := tc.engine.EntradaInTx(ctx, r, EntradaInput{
				ProductID:   transfer.ProductID,
				WarehouseID: transfer.FromWarehouseID,
				Quantity:    transfer.Quantity,
				Motive:      motive,
				Reference:   ref,
				UserID:      userID,
			}); err != nil {
				return err
			}
		}

		return r.Transfers.UpdateStatus(ctx, transfer.ID, entity.TransferRevertido)
	})
}
