// Package pdf implementa el reporte de valoración y utilidad del libro de oro.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio  │  Fecha de corte + banderas   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA LOTES: Lote | Proveedor | Apertura | Rest. | Costo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA VENTAS: Fecha | Cliente | Gramos | COGS | Utilidad    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: gramos en stock / valor a costo / utilidad total   │
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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appledger "github.com/jhoicas/LibroOro-api/internal/application/ledger"
	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 128, Green: 96, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// printer localiza los separadores de miles/decimales. Solo para presentación:
// la aritmética del libro nunca pasa por float.
var printer = message.NewPrinter(language.MustParse("es-CO"))

// ── Generator ─────────────────────────────────────────────────────────────────

// ValuationReportGenerator genera el PDF de valoración del inventario y utilidad
// por venta a partir del resultado reconciliado.
type ValuationReportGenerator struct{}

// NewValuationReportGenerator construye el generador.
func NewValuationReportGenerator() *ValuationReportGenerator {
	return &ValuationReportGenerator{}
}

// GenerateValuationPDF genera el PDF y devuelve sus bytes.
func (g *ValuationReportGenerator) GenerateValuationPDF(
	_ context.Context,
	businessName string,
	res *appledger.ReconcileResult,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valoración de inventario FIFO", true).
		WithAuthor(businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(businessName, res))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitleRow("LOTES DE INVENTARIO"))
	m.AddRows(lotHeaderRow())
	for _, r := range lotRows(res.Lots) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitleRow("VENTAS Y UTILIDAD"))
	m.AddRows(saleHeaderRow())
	for _, r := range saleRows(res.Transactions) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(res))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(businessName string, res *appledger.ReconcileResult) core.Row {
	status := "libro completo"
	if res.Degraded {
		status = "MODO DEGRADADO: cifras desde el caché local"
	} else if res.NeedsSync {
		status = fmt.Sprintf("pendientes de sincronizar: %d", len(res.PendingIDs))
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Valoración de inventario FIFO", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(status, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		})),
	)
}

func lotHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Lote", 3, align.Left),
		h("Proveedor", 3, align.Left),
		h("Apertura", 2, align.Center),
		h("Restante (g)", 2, align.Right),
		h("Costo/g", 2, align.Right),
	)
}

func lotRows(lots []*entity.InventoryLot) []core.Row {
	result := make([]core.Row, 0, len(lots))
	for _, l := range lots {
		estado := l.OpenedDate.Format("2006-01-02")
		if l.Closed() {
			estado += " (cerrado " + l.ClosedDate.Format("2006-01-02") + ")"
		}
		result = append(result, row.New(6).Add(
			col.New(3).Add(text.New(l.ID, props.Text{Size: 7, Align: align.Left, Top: 1})),
			col.New(3).Add(text.New(l.SupplierName, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(estado, props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatQty(l.RemainingQuantity), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return result
}

func saleHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Fecha", 2, align.Left),
		h("Cliente", 4, align.Left),
		h("Gramos", 2, align.Right),
		h("COGS", 2, align.Right),
		h("Utilidad", 2, align.Right),
	)
}

func saleRows(txs []*entity.Transaction) []core.Row {
	result := make([]core.Row, 0)
	for _, t := range txs {
		if t.Kind != entity.KindSale {
			continue
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(t.Date.Format("2006-01-02"), props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(4).Add(text.New(t.PartyName, props.Text{Size: 8, Align: align.Left, Top: 1})),
			col.New(2).Add(text.New(formatQty(t.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(t.COGS), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(2).Add(text.New(formatMoney(t.Profit), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return result
}

func totalsRow(res *appledger.ReconcileResult) core.Row {
	stock := decimal.Zero
	value := decimal.Zero
	for _, l := range res.Lots {
		stock = stock.Add(l.RemainingQuantity)
		value = value.Add(l.RemainingQuantity.Mul(l.UnitCost))
	}
	profit := decimal.Zero
	for _, t := range res.Transactions {
		profit = profit.Add(t.Profit)
	}

	return row.New(10).Add(
		col.New(4).Add(text.New(
			"En stock: "+formatQty(stock)+" g",
			props.Text{Style: fontstyle.Bold, Size: 9, Top: 2},
		)),
		col.New(4).Add(text.New(
			"Valor a costo: "+formatMoney(value),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 2},
		)),
		col.New(4).Add(text.New(
			"Utilidad total: "+formatMoney(profit),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2},
		)),
	)
}

// ── Formato ───────────────────────────────────────────────────────────────────

func formatQty(d decimal.Decimal) string {
	return printer.Sprintf("%.4f", d.InexactFloat64())
}

func formatMoney(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.InexactFloat64())
}
