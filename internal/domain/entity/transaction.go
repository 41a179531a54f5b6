package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/LibroOro-api/internal/domain"
)

// Tipos de transacción del libro de oro.
const (
	KindPurchase = "PURCHASE" // compra a proveedor: abre un lote
	KindSale     = "SALE"     // venta a cliente: consume lotes FIFO
)

// Transaction representa una compra o venta de oro (en gramos), inmutable una vez registrada.
// Los campos COGS, Profit y ConsumptionLog los calcula el motor FIFO en cada replay; nunca se
// persisten ni los asigna el caller.
type Transaction struct {
	ID            string
	Kind          string          // PURCHASE | SALE
	Date          time.Time       // fecha de negocio, solo día calendario (sin hora)
	CreatedAt     *time.Time      // marca de creación de alta resolución; nil en registros legados/importados
	PartyName     string          // proveedor (compra) o cliente (venta)
	Quantity      decimal.Decimal // gramos, siempre > 0
	RatePerUnit   decimal.Decimal // precio por gramo sin impuesto
	TaxRate       decimal.Decimal // % GST plano, lo aporta el caller
	TaxAmount     decimal.Decimal
	TaxableAmount decimal.Decimal
	TotalAmount   decimal.Decimal

	// Calculados por el motor en cada reconciliación (derivados, no persistidos).
	COGS           decimal.Decimal
	Profit         decimal.Decimal
	ConsumptionLog []string
}

// Validate verifica que la transacción sea apta para entrar al replay.
// Una transacción malformada se rechaza en la ingesta, nunca se corrige ni se descarta en silencio.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: sin id", domain.ErrMalformedTransaction)
	}
	if t.Kind != KindPurchase && t.Kind != KindSale {
		return fmt.Errorf("%w: id=%s tipo desconocido %q", domain.ErrMalformedTransaction, t.ID, t.Kind)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: id=%s sin fecha", domain.ErrMalformedTransaction, t.ID)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: id=%s cantidad no positiva %s", domain.ErrMalformedTransaction, t.ID, t.Quantity)
	}
	return nil
}

// Clone devuelve una copia profunda. El motor trabaja siempre sobre copias para
// mantenerse como función pura de su entrada.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.CreatedAt != nil {
		at := *t.CreatedAt
		c.CreatedAt = &at
	}
	if t.ConsumptionLog != nil {
		c.ConsumptionLog = append([]string(nil), t.ConsumptionLog...)
	}
	return &c
}
