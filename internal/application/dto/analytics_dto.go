package dto

import "github.com/shopspring/decimal"

// DashboardResponse cifras derivadas del replay FIFO. No contiene lógica FIFO propia:
// todo sale del resultado del motor.
type DashboardResponse struct {
	AsOf           string          `json:"as_of"` // última fecha de negocio del libro (corte determinista)
	GramsInStock   decimal.Decimal `json:"grams_in_stock"`
	StockValue     decimal.Decimal `json:"stock_value"` // a costo de adquisición
	GramsPurchased decimal.Decimal `json:"grams_purchased"`
	GramsSold      decimal.Decimal `json:"grams_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
	TotalCOGS      decimal.Decimal `json:"total_cogs"`
	TotalProfit    decimal.Decimal `json:"total_profit"`
	Turnover       decimal.Decimal `json:"turnover"` // gramos vendidos / gramos comprados
	Degraded       bool            `json:"degraded"`
	NeedsSync      bool            `json:"needs_sync"`

	Aging     []AgingBucketDTO    `json:"aging"`
	Suppliers []PartyAggregateDTO `json:"suppliers"`
	Customers []PartyAggregateDTO `json:"customers"`
}

// AgingBucketDTO antigüedad del inventario abierto respecto al corte.
type AgingBucketDTO struct {
	Label string          `json:"label"` // "0-30", "31-90", "91-180", "180+"
	Lots  int             `json:"lots"`
	Grams decimal.Decimal `json:"grams"`
	Value decimal.Decimal `json:"value"`
}

// PartyAggregateDTO agregado por contraparte (proveedor o cliente).
type PartyAggregateDTO struct {
	PartyName string          `json:"party_name"`
	Grams     decimal.Decimal `json:"grams"`
	Amount    decimal.Decimal `json:"amount"` // valor comprado (proveedor) o ingreso (cliente)
	Profit    decimal.Decimal `json:"profit"` // solo clientes
}
