package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el saldo actual de un producto en una bodega.
// Es un agregado derivado: para productos lotificados debe ser siempre igual a
// la suma de los lotes vivos; para productos serializados el saldo real es el
// conteo de seriales en_stock y esta tabla no se usa. Solo el motor de
// movimientos lo escribe.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
