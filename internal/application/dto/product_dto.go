package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// KitComponentRequest componente de un kit al crear o actualizar.
type KitComponentRequest struct {
	Kind        string          `json:"kind"` // producto | servicio
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateProductRequest alta de producto.
type CreateProductRequest struct {
	SKU          string                `json:"sku"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Price        decimal.Decimal       `json:"price"`
	TrackingMode string                `json:"tracking_mode"` // none | lote | serie
	IsKit        bool                  `json:"is_kit"`
	Components   []KitComponentRequest `json:"components,omitempty"`
}

// UpdateProductRequest actualización parcial. Cost no es editable: lo fija el motor de movimientos.
type UpdateProductRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Price       *decimal.Decimal      `json:"price,omitempty"`
	Components  []KitComponentRequest `json:"components,omitempty"`
}

// KitComponentResponse componente de un kit en respuestas.
type KitComponentResponse struct {
	ID          string           `json:"id"`
	Kind        string           `json:"kind"`
	ComponentID string           `json:"component_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	Position    int              `json:"position"`
}

// ProductResponse representación pública de un producto.
type ProductResponse struct {
	ID           string                 `json:"id"`
	SKU          string                 `json:"sku"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Price        decimal.Decimal        `json:"price"`
	Cost         decimal.Decimal        `json:"cost"`
	TrackingMode string                 `json:"tracking_mode"`
	IsKit        bool                   `json:"is_kit"`
	Components   []KitComponentResponse `json:"components,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
