// Package inventory contiene la lógica pura del motor de inventario:
// planificación de consumo FIFO y costeo promedio ponderado (servicios de
// dominio sin estado ni acceso a almacenamiento).
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

// Consumo es el par (lote, cantidad tomada) que produce una salida FIFO.
type Consumo struct {
	Lote     entity.Lot
	Cantidad decimal.Decimal
}

// Disponible suma la cantidad restante de los lotes vivos.
func Disponible(lotes []entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lotes {
		total = total.Add(l.Remaining)
	}
	return total
}

// PlanConsumo recorre los lotes en el orden recibido (FIFO por Seq) y arma el
// plan de consumo para cantidad: cada lote se agota por completo antes de
// tocar el siguiente. No muta los lotes. Devuelve el plan y el faltante que
// los lotes no alcanzan a cubrir (cero si la cantidad queda satisfecha).
func PlanConsumo(lotes []entity.Lot, cantidad decimal.Decimal) ([]Consumo, decimal.Decimal) {
	pendiente := cantidad
	var plan []Consumo
	for _, l := range lotes {
		if !pendiente.GreaterThan(decimal.Zero) {
			break
		}
		if !l.Abierto() {
			continue
		}
		tomar := decimal.Min(l.Remaining, pendiente)
		plan = append(plan, Consumo{Lote: l, Cantidad: tomar})
		pendiente = pendiente.Sub(tomar)
	}
	return plan, pendiente
}

// CostoPromedio calcula el costo unitario promedio ponderado de una cantidad:
// la parte cubierta por el plan se valora al costo de cada lote y el faltante
// al costo de lista vigente (una cotización puede valorarse antes de que el
// stock exista físicamente). Devuelve cero si cantidad es cero.
func CostoPromedio(plan []Consumo, faltante, costoLista, cantidad decimal.Decimal) decimal.Decimal {
	if !cantidad.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, c := range plan {
		total = total.Add(c.Cantidad.Mul(c.Lote.UnitCost))
	}
	if faltante.GreaterThan(decimal.Zero) {
		total = total.Add(faltante.Mul(costoLista))
	}
	return total.Div(cantidad)
}
