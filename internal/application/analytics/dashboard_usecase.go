package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/LibroOro-api/internal/application/dto"
	appledger "github.com/jhoicas/LibroOro-api/internal/application/ledger"
	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
)

// DashboardUseCase agrega cifras derivadas (antigüedad de lotes, rotación, contrapartes)
// sobre la salida del motor FIFO. No contiene lógica FIFO propia: consume el replay.
type DashboardUseCase struct {
	reconcile *appledger.ReconcileUseCase
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reconcile *appledger.ReconcileUseCase) *DashboardUseCase {
	return &DashboardUseCase{reconcile: reconcile}
}

// Dashboard reconcilia y agrega. El corte de antigüedad es la última fecha de negocio
// presente en el libro (no el reloj de pared): así el tablero es función del libro y dos
// corridas sobre los mismos datos producen las mismas cifras.
func (uc *DashboardUseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	res, err := uc.reconcile.Reconcile(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardResponse{
		GramsInStock:   decimal.Zero,
		StockValue:     decimal.Zero,
		GramsPurchased: decimal.Zero,
		GramsSold:      decimal.Zero,
		Revenue:        decimal.Zero,
		TotalCOGS:      decimal.Zero,
		TotalProfit:    decimal.Zero,
		Turnover:       decimal.Zero,
		Degraded:       res.Degraded,
		NeedsSync:      res.NeedsSync,
	}

	var asOf time.Time
	suppliers := map[string]*dto.PartyAggregateDTO{}
	customers := map[string]*dto.PartyAggregateDTO{}

	for _, tx := range res.Transactions {
		if tx.Date.After(asOf) {
			asOf = tx.Date
		}
		switch tx.Kind {
		case entity.KindPurchase:
			out.GramsPurchased = out.GramsPurchased.Add(tx.Quantity)
			agg := partyAgg(suppliers, tx.PartyName)
			agg.Grams = agg.Grams.Add(tx.Quantity)
			agg.Amount = agg.Amount.Add(tx.Quantity.Mul(tx.RatePerUnit))
		case entity.KindSale:
			out.GramsSold = out.GramsSold.Add(tx.Quantity)
			out.Revenue = out.Revenue.Add(revenueBase(tx))
			out.TotalCOGS = out.TotalCOGS.Add(tx.COGS)
			out.TotalProfit = out.TotalProfit.Add(tx.Profit)
			agg := partyAgg(customers, tx.PartyName)
			agg.Grams = agg.Grams.Add(tx.Quantity)
			agg.Amount = agg.Amount.Add(revenueBase(tx))
			agg.Profit = agg.Profit.Add(tx.Profit)
		}
	}

	for _, lot := range res.Lots {
		if lot.Closed() {
			continue
		}
		out.GramsInStock = out.GramsInStock.Add(lot.RemainingQuantity)
		out.StockValue = out.StockValue.Add(lot.RemainingQuantity.Mul(lot.UnitCost))
	}
	if out.GramsPurchased.IsPositive() {
		out.Turnover = out.GramsSold.Div(out.GramsPurchased).Round(4)
	}

	if !asOf.IsZero() {
		out.AsOf = asOf.Format("2006-01-02")
	}
	out.Aging = agingBuckets(res.Lots, asOf)
	out.Suppliers = sortedAggregates(suppliers)
	out.Customers = sortedAggregates(customers)
	return out, nil
}

func revenueBase(tx *entity.Transaction) decimal.Decimal {
	if !tx.TaxableAmount.IsZero() {
		return tx.TaxableAmount
	}
	return tx.Quantity.Mul(tx.RatePerUnit)
}

func partyAgg(m map[string]*dto.PartyAggregateDTO, name string) *dto.PartyAggregateDTO {
	agg, ok := m[name]
	if !ok {
		agg = &dto.PartyAggregateDTO{
			PartyName: name,
			Grams:     decimal.Zero,
			Amount:    decimal.Zero,
			Profit:    decimal.Zero,
		}
		m[name] = agg
	}
	return agg
}

// agingBuckets clasifica el inventario abierto por días desde su apertura hasta el corte.
func agingBuckets(lots []*entity.InventoryLot, asOf time.Time) []dto.AgingBucketDTO {
	buckets := []dto.AgingBucketDTO{
		{Label: "0-30", Grams: decimal.Zero, Value: decimal.Zero},
		{Label: "31-90", Grams: decimal.Zero, Value: decimal.Zero},
		{Label: "91-180", Grams: decimal.Zero, Value: decimal.Zero},
		{Label: "180+", Grams: decimal.Zero, Value: decimal.Zero},
	}
	for _, lot := range lots {
		if lot.Closed() {
			continue
		}
		days := int(asOf.Sub(lot.OpenedDate).Hours() / 24)
		idx := 3
		switch {
		case days <= 30:
			idx = 0
		case days <= 90:
			idx = 1
		case days <= 180:
			idx = 2
		}
		buckets[idx].Lots++
		buckets[idx].Grams = buckets[idx].Grams.Add(lot.RemainingQuantity)
		buckets[idx].Value = buckets[idx].Value.Add(lot.RemainingQuantity.Mul(lot.UnitCost))
	}
	return buckets
}

// sortedAggregates ordena por gramos descendente y desempata por nombre para que la
// salida sea estable entre corridas.
func sortedAggregates(m map[string]*dto.PartyAggregateDTO) []dto.PartyAggregateDTO {
	out := make([]dto.PartyAggregateDTO, 0, len(m))
	for _, agg := range m {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Grams.Equal(out[j].Grams) {
			return out[i].Grams.GreaterThan(out[j].Grams)
		}
		return out[i].PartyName < out[j].PartyName
	})
	return out
}
