package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeEntrada = "entrada"
	MovementTypeSalida  = "salida"
)

// Tipos de documento de negocio que pueden originar un movimiento.
const (
	DocVenta    = "venta"
	DocCompra   = "compra"
	DocTraslado = "traslado"
	DocAjuste   = "ajuste"
)

// DocumentRef es la referencia polimórfica al documento de negocio que causó
// un movimiento: tipo + id, sin despacho por nombre de clase.
type DocumentRef struct {
	Kind string `json:"kind"` // venta | compra | traslado | ajuste
	ID   string `json:"id"`
}

// Movement es el registro inmutable de auditoría de un movimiento de stock.
// Nunca se actualiza ni se borra; las correcciones se modelan como movimientos
// compensatorios.
type Movement struct {
	ID            string
	TransactionID string // agrupa los movimientos de una misma operación de negocio
	ProductID     string
	WarehouseID   string
	Type          string          // entrada | salida
	Quantity      decimal.Decimal // positiva en entradas, negativa en salidas
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Motive        string // etiqueta libre de auditoría
	Reference     *DocumentRef
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
