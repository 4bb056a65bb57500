package inventory

import (
	"context"

	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
)

// KardexUseCase consulta el historial de movimientos de un producto (kárdex)
// y genera su representación PDF.
type KardexUseCase struct {
	movementRepo  repository.MovementRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	pdf           KardexPDFGenerator
}

// NewKardexUseCase construye el caso de uso de kárdex.
func NewKardexUseCase(
	movementRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	pdf KardexPDFGenerator,
) *KardexUseCase {
	return &KardexUseCase{
		movementRepo:  movementRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		pdf:           pdf,
	}
}

// Movimientos devuelve el kárdex de un producto; warehouseID vacío incluye
// todas las bodegas.
func (uc *KardexUseCase) Movimientos(ctx context.Context, productID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movementRepo.ListByProduct(ctx, productID, warehouseID, limit, offset)
}

// PDF genera el kárdex en PDF para un producto en una bodega.
func (uc *KardexUseCase) PDF(ctx context.Context, productID, warehouseID string) ([]byte, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	var warehouse *entity.Warehouse
	if warehouseID != "" {
		warehouse, err = uc.warehouseRepo.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if warehouse == nil {
			return nil, domain.ErrNotFound
		}
	}
	movs, err := uc.movementRepo.ListByProduct(ctx, productID, warehouseID, 500, 0)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateKardexPDF(ctx, product, warehouse, movs)
}
