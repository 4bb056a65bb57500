package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot es un lote de un producto en una bodega: cantidad restante, costo de
// adquisición y vencimiento opcional. Lo crea una entrada y solo una salida lo
// reduce (nunca vuelve a crecer). Un lote en cero queda inerte pero se
// conserva para auditoría. La identidad del lote es local a la bodega: un
// traslado cierra cantidad en el lote origen y abre un lote nuevo en destino
// con el mismo número, costo y vencimiento.
type Lot struct {
	ID          string
	ProductID   string
	WarehouseID string
	Number      string
	Remaining   decimal.Decimal
	UnitCost    decimal.Decimal
	Expiry      *time.Time
	Seq         int64 // orden de creación para consumo FIFO
	CreatedAt   time.Time
}

// Abierto indica si al lote le queda cantidad por consumir.
func (l *Lot) Abierto() bool { return l.Remaining.GreaterThan(decimal.Zero) }
