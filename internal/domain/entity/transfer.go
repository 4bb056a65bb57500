package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un traslado entre bodegas. El commit es síncrono: un traslado se
// persiste ya completado o no se persiste (rollback total); no se modela un
// estado en tránsito.
const (
	TransferCompletado = "completado"
	TransferRevertido  = "revertido"
)

// TransferLot conserva la procedencia de un lote consumido en origen: con ella
// la reversión puede devolver exactamente los mismos números de lote, costos y
// vencimientos.
type TransferLot struct {
	Number   string          `json:"number"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Expiry   *time.Time      `json:"expiry,omitempty"`
}

// Transfer es un traslado de stock entre dos bodegas: una salida en origen
// seguida de una o más entradas en destino, como una sola operación lógica.
type Transfer struct {
	ID              string
	ProductID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	Serials         []string      // solo productos serializados
	Detail          []TransferLot // lotes consumidos en origen (procedencia)
	Status          string        // completado | revertido
	Motive          string
	Reference       *DocumentRef
	CreatedAt       time.Time
	CreatedBy       string
}
