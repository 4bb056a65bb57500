package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ciclo de vida de una unidad serializada.
const (
	SerialEnStock   = "en_stock"
	SerialReservado = "reservado"
	SerialVendido   = "vendido"
	SerialDevuelto  = "devuelto"
)

// SerialUnit es una unidad física individual de un producto serializado.
// Pertenece a exactamente una bodega a la vez; moverla entre bodegas es una
// transferencia de propiedad (se muta WarehouseID en sitio, no se copia).
// WarehouseID y State son los únicos campos mutables, y solo cambian a través
// de operaciones del registro de seriales ligadas a un evento de negocio.
type SerialUnit struct {
	ID          string
	ProductID   string
	WarehouseID string
	Serial      string
	State       string // en_stock | reservado | vendido | devuelto
	Cost        decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
