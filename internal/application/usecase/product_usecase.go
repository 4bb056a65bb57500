package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/application/dto"
	"github.com/jhoicas/erp-inventario/internal/domain"
	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	"github.com/jhoicas/erp-inventario/internal/domain/repository"
	"github.com/jhoicas/erp-inventario/pkg/normalize"
)

// ProductUseCase casos de uso CRUD para productos. Cost y stock se manejan vía movimientos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Cost inicia en 0 y solo lo actualiza el
// motor de movimientos. Los kits no llevan tracking propio y sus componentes
// no pueden ser a su vez kits (un solo nivel de anidamiento).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := normalize.Fold(in.SKU)
	if sku == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	tracking := in.TrackingMode
	switch tracking {
	case "":
		tracking = entity.TrackingNone
	case entity.TrackingNone, entity.TrackingLote, entity.TrackingSerie:
	default:
		return nil, domain.ErrInvalidInput
	}
	if in.IsKit && tracking != entity.TrackingNone {
		return nil, domain.ErrInvalidKit
	}
	components, err := uc.buildComponents(ctx, in.IsKit, in.Components)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Cost:         decimal.Zero,
		TrackingMode: tracking,
		IsKit:        in.IsKit,
		Components:   components,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// buildComponents valida y materializa la lista de componentes de un kit.
func (uc *ProductUseCase) buildComponents(ctx context.Context, isKit bool, in []dto.KitComponentRequest) ([]entity.KitComponent, error) {
	if !isKit {
		if len(in) > 0 {
			return nil, domain.ErrInvalidKit
		}
		return nil, nil
	}
	if len(in) == 0 {
		return nil, domain.ErrInvalidKit
	}
	components := make([]entity.KitComponent, 0, len(in))
	for i, c := range in {
		switch c.Kind {
		case entity.ComponentProducto:
			if !c.Quantity.GreaterThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
			comp, err := uc.repo.GetByID(ctx, c.ComponentID)
			if err != nil {
				return nil, err
			}
			if comp == nil {
				return nil, domain.ErrNotFound
			}
			if comp.IsKit {
				// Kits de kits quedan fuera: la expansión es de un nivel.
				return nil, domain.ErrInvalidKit
			}
		case entity.ComponentServicio:
			if c.UnitPrice == nil {
				return nil, domain.ErrInvalidInput
			}
		default:
			return nil, domain.ErrInvalidInput
		}
		components = append(components, entity.KitComponent{
			ID:          uuid.New().String(),
			Kind:        c.Kind,
			ComponentID: c.ComponentID,
			Quantity:    c.Quantity,
			UnitPrice:   c.UnitPrice,
			Position:    i,
		})
	}
	return components, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar Cost, SKU ni tracking:
// el costo lo fija el motor y cambiar el tracking invalidaría el historial.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if len(in.Components) > 0 {
		components, err := uc.buildComponents(ctx, product.IsKit, in.Components)
		if err != nil {
			return nil, err
		}
		product.Components = components
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	var components []dto.KitComponentResponse
	for _, c := range p.Components {
		components = append(components, dto.KitComponentResponse{
			ID:          c.ID,
			Kind:        c.Kind,
			ComponentID: c.ComponentID,
			Quantity:    c.Quantity,
			UnitPrice:   c.UnitPrice,
			Position:    c.Position,
		})
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		TrackingMode: p.TrackingMode,
		IsKit:        p.IsKit,
		Components:   components,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
