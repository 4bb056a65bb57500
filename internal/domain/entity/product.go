package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modo de seguimiento de inventario de un producto.
const (
	TrackingNone  = "none"  // solo saldo por bodega
	TrackingLote  = "lote"  // por lotes con costo/vencimiento (consumo FIFO)
	TrackingSerie = "serie" // unidad por unidad, con serial
)

// Tipo de componente de un kit.
const (
	ComponentProducto = "producto"
	ComponentServicio = "servicio"
)

// KitComponent es una línea de la lista de materiales de un kit.
// Un componente nunca puede ser a su vez un kit (se valida al definir el kit).
type KitComponent struct {
	ID          string
	ProductID   string // kit al que pertenece
	Kind        string // producto | servicio
	ComponentID string
	Quantity    decimal.Decimal  // cantidad por kit
	UnitPrice   *decimal.Decimal // precio unitario override (opcional)
	Position    int              // orden dentro del kit
}

// Product representa un producto o SKU del inventario (multi-bodega).
// Cost es el costo de compra vigente: promedio ponderado actualizado en cada
// entrada, y valor de respaldo del motor de costos cuando no hay lotes.
// El stock se maneja por bodega (Stock / Lot / SerialUnit), nunca aquí.
type Product struct {
	ID           string
	SKU          string // código único normalizado
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo de compra vigente
	TrackingMode string          // none | lote | serie
	IsKit        bool
	Components   []KitComponent // solo si IsKit
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Lotificado indica si el producto se controla por lotes.
func (p *Product) Lotificado() bool { return p.TrackingMode == TrackingLote }

// Serializado indica si el producto se controla unidad por unidad.
func (p *Product) Serializado() bool { return p.TrackingMode == TrackingSerie }
