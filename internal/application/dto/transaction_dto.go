package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
)

// CreateTransactionRequest body para POST /api/transactions.
// Los decimales viajan como string JSON para que la precisión sobreviva el round trip.
type CreateTransactionRequest struct {
	ID            string          `json:"id,omitempty"`         // opcional: el servidor asigna UUID si falta
	Kind          string          `json:"kind"`                 // PURCHASE | SALE
	Date          string          `json:"date"`                 // fecha de negocio, YYYY-MM-DD
	CreatedAt     string          `json:"created_at,omitempty"` // RFC3339; vacío para registros legados/importados
	PartyName     string          `json:"party_name"`
	Quantity      decimal.Decimal `json:"quantity"`      // gramos
	RatePerUnit   decimal.Decimal `json:"rate_per_unit"` // por gramo, sin impuesto
	TaxRate       decimal.Decimal `json:"tax_rate"`      // % GST plano
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// TransactionResponse transacción anotada por el motor.
type TransactionResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Date           string          `json:"date"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
	PartyName      string          `json:"party_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	RatePerUnit    decimal.Decimal `json:"rate_per_unit"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	COGS           decimal.Decimal `json:"cogs"`
	Profit         decimal.Decimal `json:"profit"`
	ConsumptionLog []string        `json:"consumption_log,omitempty"`
}

// LotResponse lote de inventario (abierto o cerrado).
type LotResponse struct {
	ID                string          `json:"id"`
	SupplierName      string          `json:"supplier_name"`
	OriginalQuantity  decimal.Decimal `json:"original_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	OpenedDate        string          `json:"opened_date"`
	ClosedDate        *string         `json:"closed_date,omitempty"`
}

// ReconcileResponse salida de GET /api/ledger/reconcile.
type ReconcileResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Lots         []LotResponse         `json:"lots"`
	Degraded     bool                  `json:"degraded"`   // remoto inaccesible: cifras desde el caché local
	NeedsSync    bool                  `json:"needs_sync"` // hay transacciones locales sin subir al remoto
	PendingIDs   []string              `json:"pending_ids,omitempty"`
}

// FromTransaction mapea la entidad anotada a su representación HTTP.
func FromTransaction(t *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID,
		Kind:           t.Kind,
		Date:           t.Date.Format("2006-01-02"),
		CreatedAt:      t.CreatedAt,
		PartyName:      t.PartyName,
		Quantity:       t.Quantity,
		RatePerUnit:    t.RatePerUnit,
		TaxRate:        t.TaxRate,
		TaxAmount:      t.TaxAmount,
		TaxableAmount:  t.TaxableAmount,
		TotalAmount:    t.TotalAmount,
		COGS:           t.COGS,
		Profit:         t.Profit,
		ConsumptionLog: t.ConsumptionLog,
	}
}

// FromLot mapea el lote a su representación HTTP.
func FromLot(l *entity.InventoryLot) LotResponse {
	out := LotResponse{
		ID:                l.ID,
		SupplierName:      l.SupplierName,
		OriginalQuantity:  l.OriginalQuantity,
		RemainingQuantity: l.RemainingQuantity,
		UnitCost:          l.UnitCost,
		OpenedDate:        l.OpenedDate.Format("2006-01-02"),
	}
	if l.ClosedDate != nil {
		closed := l.ClosedDate.Format("2006-01-02")
		out.ClosedDate = &closed
	}
	return out
}
