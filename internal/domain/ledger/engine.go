// Package ledger contiene el núcleo puro del libro de oro: el secuenciador que impone
// un orden total determinista sobre las transacciones y el motor FIFO que rehace el
// inventario por lotes y calcula COGS y utilidad por venta.
//
// El motor es una función pura del conjunto completo de transacciones: no guarda estado
// entre corridas, no hace I/O y trabaja sobre copias de su entrada. Esa es la invariante
// central que hace el diseño seguro bajo replay y reordenamiento.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
)

// DefaultEpsilon es la tolerancia por defecto, en gramos, para comparaciones de cantidad.
// Un residuo de lote por debajo de esta tolerancia se ajusta a exactamente cero y el lote
// se cierra en el mismo replay. Es un parámetro documentado y ajustable
// (LEDGER_EPSILON_GRAMS), no un número mágico: nunca se compara contra cero exacto.
var DefaultEpsilon = decimal.New(1, -4) // 0.0001 g

// Engine rehace la historia ordenada de transacciones y mantiene los lotes FIFO.
type Engine struct {
	epsilon decimal.Decimal
}

// NewEngine construye el motor con la tolerancia por defecto.
func NewEngine() *Engine {
	return &Engine{epsilon: DefaultEpsilon}
}

// NewEngineWithTolerance construye el motor con una tolerancia propia.
// Una tolerancia no positiva cae a DefaultEpsilon.
func NewEngineWithTolerance(epsilon decimal.Decimal) *Engine {
	if !epsilon.IsPositive() {
		epsilon = DefaultEpsilon
	}
	return &Engine{epsilon: epsilon}
}

// ReplayResult es la salida del motor: las transacciones anotadas (COGS, utilidad,
// bitácora de consumo) en el orden canónico del secuenciador, y el inventario final.
type ReplayResult struct {
	Transactions []*entity.Transaction
	Lots         []*entity.InventoryLot
}

// Replay ordena el conjunto con el secuenciador y lo rehace de cero:
// cada compra abre un lote y cada venta consume lotes del más antiguo al más
// reciente (el orden de inserción ES el orden FIFO: los lotes solo se agregan al
// final, nunca se reordenan).
//
// Una venta que excede el stock disponible (stockout) no es un error: se anota la
// cantidad faltante en su bitácora y el COGS se calcula con lo realmente consumido.
// El inventario de un lote nunca queda negativo.
func (e *Engine) Replay(txs []*entity.Transaction) ReplayResult {
	ordered := Sequence(txs)

	out := make([]*entity.Transaction, 0, len(ordered))
	lots := make([]*entity.InventoryLot, 0)

	for _, src := range ordered {
		tx := src.Clone()
		tx.COGS = decimal.Zero
		tx.Profit = decimal.Zero
		tx.ConsumptionLog = nil

		switch tx.Kind {
		case entity.KindPurchase:
			lots = append(lots, &entity.InventoryLot{
				ID:                tx.ID,
				SupplierName:      tx.PartyName,
				OriginalQuantity:  tx.Quantity,
				RemainingQuantity: tx.Quantity,
				UnitCost:          tx.RatePerUnit,
				OpenedDate:        tx.Date,
			})
		case entity.KindSale:
			e.consume(tx, lots)
		}

		out = append(out, tx)
	}

	return ReplayResult{Transactions: out, Lots: lots}
}

// consume drena lotes en orden FIFO para satisfacer la venta y anota la bitácora.
func (e *Engine) consume(tx *entity.Transaction, lots []*entity.InventoryLot) {
	if tx.CreatedAt == nil {
		// La posición en el orden total se decidió solo por id: caveat de auditoría, no error.
		tx.ConsumptionLog = append(tx.ConsumptionLog,
			fmt.Sprintf("advertencia: venta %s sin marca de creación; su posición se decidió solo por id y puede no reflejar la secuencia real", tx.ID))
	}

	need := tx.Quantity
	cogs := decimal.Zero

	for _, lot := range lots {
		if need.LessThan(e.epsilon) {
			break
		}
		if lot.RemainingQuantity.LessThan(e.epsilon) {
			continue
		}

		chunk := decimal.Min(lot.RemainingQuantity, need)
		lot.RemainingQuantity = lot.RemainingQuantity.Sub(chunk)
		need = need.Sub(chunk)
		cogs = cogs.Add(chunk.Mul(lot.UnitCost))

		tx.ConsumptionLog = append(tx.ConsumptionLog,
			fmt.Sprintf("consumidos %s g del lote %s (compra del %s) a %s por gramo",
				chunk, lot.ID, lot.OpenedDate.Format("2006-01-02"), lot.UnitCost))

		// Residuo por debajo de la tolerancia: se ajusta a cero exacto y el lote se
		// cierra con la fecha de esta venta (comportamiento autoritativo en el borde).
		if lot.RemainingQuantity.LessThan(e.epsilon) {
			lot.RemainingQuantity = decimal.Zero
			closed := tx.Date
			lot.ClosedDate = &closed
		}
	}

	if need.GreaterThanOrEqual(e.epsilon) {
		tx.ConsumptionLog = append(tx.ConsumptionLog,
			fmt.Sprintf("advertencia: stock insuficiente; quedaron %s g de la venta %s sin lote que los respalde", need, tx.ID))
	}

	base := tx.TaxableAmount
	if base.IsZero() {
		base = tx.Quantity.Mul(tx.RatePerUnit)
	}
	tx.COGS = cogs
	tx.Profit = base.Sub(cogs)
}
