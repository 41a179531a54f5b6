package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryLot es el inventario abierto por una compra: se crea exactamente un lote por
// transacción PURCHASE, con el mismo ID. Los lotes solo se drenan, nunca se borran;
// un lote cerrado sigue siendo consultable para auditoría.
type InventoryLot struct {
	ID                string          // igual al ID de la compra que lo originó
	SupplierName      string
	OriginalQuantity  decimal.Decimal // copia de la cantidad comprada, inmutable
	RemainingQuantity decimal.Decimal // monótonamente no creciente, nunca negativa
	UnitCost          decimal.Decimal // precio por gramo de la compra; base de todo COGS contra este lote
	OpenedDate        time.Time       // fecha de la compra
	ClosedDate        *time.Time      // fecha de la venta que lo agotó; nil mientras esté abierto
}

// Closed indica si el lote ya fue drenado por completo.
func (l *InventoryLot) Closed() bool {
	return l.ClosedDate != nil
}
