// Package pdf implementa la generación del kárdex de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU  │  Bodega + Fecha de emisión       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Cant | C.Unit | C.Total | Motivo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: saldo acumulado de los movimientos listados        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoKardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

// GenerateKardexPDF genera el kárdex en PDF y devuelve sus bytes.
// warehouse puede ser nil: el reporte cubre entonces todas las bodegas.
func (g *MarotoKardexGenerator) GenerateKardexPDF(
	_ context.Context,
	product *entity.Product,
	warehouse *entity.Warehouse,
	movements []*entity.Movement,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kárdex de producto", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())

	saldo := decimal.Zero
	for _, mov := range movements {
		saldo = saldo.Add(mov.Quantity)
		m.AddRows(detailRow(mov, saldo))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(len(movements), saldo))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kárdex: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: producto + SKU (izq) y bodega (der).
func headerRow(product *entity.Product, warehouse *entity.Warehouse) core.Row {
	bodega := "Todas las bodegas"
	if warehouse != nil {
		bodega = warehouse.Name
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+product.SKU, props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KÁRDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(bodega, props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary,
		}))
	}
	return row.New(6).Add(
		header(2, "Fecha"),
		header(1, "Tipo"),
		header(2, "Cantidad"),
		header(2, "C. Unitario"),
		header(2, "C. Total"),
		header(2, "Saldo"),
		header(1, "Motivo"),
	)
}

func detailRow(mov *entity.Movement, saldo decimal.Decimal) core.Row {
	cell := func(size int, value string, al align.Type) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 7, Align: al}))
	}
	return row.New(5).Add(
		cell(2, mov.Date.Format("02/01/2006"), align.Left),
		cell(1, mov.Type, align.Left),
		cell(2, mov.Quantity.String(), align.Right),
		cell(2, mov.UnitCost.StringFixed(2), align.Right),
		cell(2, mov.TotalCost.StringFixed(2), align.Right),
		cell(2, saldo.String(), align.Right),
		cell(1, mov.Motive, align.Left),
	)
}

func summaryRow(total int, saldo decimal.Decimal) core.Row {
	return row.New(8).Add(
		col.New(7).Add(text.New(
			fmt.Sprintf("%d movimientos listados", total),
			props.Text{Size: 8, Color: colorGray, Top: 2},
		)),
		col.New(5).Add(text.New(
			"Saldo del periodo: "+saldo.String(),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2},
		)),
	)
}
