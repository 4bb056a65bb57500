package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentRefDTO referencia polimórfica al documento de negocio que originó
// un movimiento.
type DocumentRefDTO struct {
	Kind string `json:"kind"` // venta | compra | traslado | ajuste
	ID   string `json:"id"`
}

// EntradaRequest ingreso de stock a una bodega.
type EntradaRequest struct {
	ProductID   string           `json:"product_id"`
	WarehouseID string           `json:"warehouse_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Motive      string           `json:"motive"`
	Reference   *DocumentRefDTO  `json:"reference,omitempty"`
	LotNumber   string           `json:"lot_number,omitempty"`
	Expiry      *time.Time       `json:"expiry,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// SalidaRequest egreso de stock de una bodega.
type SalidaRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Motive      string          `json:"motive"`
	Reference   *DocumentRefDTO `json:"reference,omitempty"`
}

// MovementResponse un renglón del kárdex.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Motive        string          `json:"motive"`
	Reference     *DocumentRefDTO `json:"reference,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// ConsumoResponse lote consumido por una salida FIFO.
type ConsumoResponse struct {
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// SalidaResponse movimiento de salida más el plan de consumo aplicado.
type SalidaResponse struct {
	Movement MovementResponse  `json:"movement"`
	Consumos []ConsumoResponse `json:"consumos,omitempty"`
}

// TransferRequest traslado entre bodegas.
type TransferRequest struct {
	ProductID       string          `json:"product_id"`
	FromWarehouseID string          `json:"from_warehouse_id"`
	ToWarehouseID   string          `json:"to_warehouse_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Serials         []string        `json:"serials,omitempty"`
	Motive          string          `json:"motive"`
}

// TransferLotDTO procedencia de un lote dentro de un traslado.
type TransferLotDTO struct {
	Number   string          `json:"number"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Expiry   *time.Time      `json:"expiry,omitempty"`
}

// TransferResponse traslado persistido.
type TransferResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	FromWarehouseID string           `json:"from_warehouse_id"`
	ToWarehouseID   string           `json:"to_warehouse_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Serials         []string         `json:"serials,omitempty"`
	Detail          []TransferLotDTO `json:"detail,omitempty"`
	Status          string           `json:"status"`
	Motive          string           `json:"motive"`
	CreatedAt       time.Time        `json:"created_at"`
	CreatedBy       string           `json:"created_by"`
}

// RegistrarSerialRequest alta de una unidad serializada.
type RegistrarSerialRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Serial      string          `json:"serial"`
	Cost        decimal.Decimal `json:"cost"`
	Motive      string          `json:"motive"`
	Reference   *DocumentRefDTO `json:"reference,omitempty"`
}

// SerialesRequest operación sobre un conjunto de seriales en una bodega
// (venta o devolución).
type SerialesRequest struct {
	Serials     []string        `json:"serials"`
	WarehouseID string          `json:"warehouse_id"`
	Motive      string          `json:"motive"`
	Reference   *DocumentRefDTO `json:"reference,omitempty"`
}

// SerialUnitResponse una unidad serializada.
type SerialUnitResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Serial      string          `json:"serial"`
	State       string          `json:"state"`
	Cost        decimal.Decimal `json:"cost"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CostoRequest consulta de costo histórico.
type CostoRequest struct {
	ProductID   string          `json:"product_id" query:"product_id"`
	WarehouseID string          `json:"warehouse_id" query:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity" query:"quantity"`
}

// CostoResponse costo unitario resuelto para una cantidad hipotética.
type CostoResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// KitDisponibilidadRequest validación de disponibilidad de un kit.
type KitDisponibilidadRequest struct {
	Quantity    decimal.Decimal `json:"quantity"`
	WarehouseID string          `json:"warehouse_id"`
	Serials     []string        `json:"serials,omitempty"`
}

// FaltanteDTO déficit de un componente de kit.
type FaltanteDTO struct {
	ComponentID string          `json:"component_id"`
	Nombre      string          `json:"nombre"`
	Requerido   decimal.Decimal `json:"requerido"`
	Disponible  decimal.Decimal `json:"disponible"`
	Faltante    decimal.Decimal `json:"faltante"`
}

// KitDisponibilidadResponse resultado de la validación: lista vacía de
// faltantes significa disponibilidad completa.
type KitDisponibilidadResponse struct {
	Disponible bool          `json:"disponible"`
	Faltantes  []FaltanteDTO `json:"faltantes"`
}

// StockResponse saldo de un producto en una bodega.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
