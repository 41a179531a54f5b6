package ledger_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, kind string, date time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:          id,
		Kind:        kind,
		Date:        date,
		PartyName:   "Joyería El Dorado",
		Quantity:    decimal.NewFromInt(10),
		RatePerUnit: decimal.NewFromInt(5000),
	}
}

func withCreatedAt(t *entity.Transaction, at time.Time) *entity.Transaction {
	t.CreatedAt = &at
	return t
}

func ids(txs []*entity.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del secuenciador
// ──────────────────────────────────────────────────────────────────────────────

// La fecha de negocio manda: días distintos se ordenan por día, sin importar ids ni marcas.
func TestSequence_OrdenaPorFechaDeNegocio(t *testing.T) {
	input := []*entity.Transaction{
		tx("z", entity.KindPurchase, day(3)),
		tx("a", entity.KindSale, day(7)),
		tx("m", entity.KindPurchase, day(1)),
	}

	got := ledger.Sequence(input)

	assert.Equal(t, []string{"m", "z", "a"}, ids(got))
}

// Mismo día: desempata la marca de creación cuando ambas transacciones la tienen.
func TestSequence_MismoDiaDesempataPorCreatedAt(t *testing.T) {
	late := withCreatedAt(tx("a", entity.KindSale, day(5)), day(5).Add(16*time.Hour))
	early := withCreatedAt(tx("z", entity.KindPurchase, day(5)), day(5).Add(9*time.Hour))

	got := ledger.Sequence([]*entity.Transaction{late, early})

	assert.Equal(t, []string{"z", "a"}, ids(got))
}

// Si a una de las dos le falta la marca, ese nivel se salta y decide el id.
func TestSequence_MarcaAusenteSaltaAlDesempatePorID(t *testing.T) {
	conMarca := withCreatedAt(tx("b", entity.KindSale, day(5)), day(5).Add(9*time.Hour))
	sinMarca := tx("a", entity.KindPurchase, day(5))

	got := ledger.Sequence([]*entity.Transaction{conMarca, sinMarca})

	// "a" < "b" lexicográficamente; la marca de "b" no participa.
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

// El orden es función del contenido: cualquier permutación de entrada produce la misma secuencia.
func TestSequence_DeterministaBajoPermutaciones(t *testing.T) {
	base := []*entity.Transaction{
		tx("t-03", entity.KindPurchase, day(1)),
		tx("t-01", entity.KindSale, day(2)),
		withCreatedAt(tx("t-05", entity.KindSale, day(2)), day(2).Add(10*time.Hour)),
		withCreatedAt(tx("t-02", entity.KindPurchase, day(2)), day(2).Add(8*time.Hour)),
		tx("t-04", entity.KindSale, day(9)),
	}

	want := ids(ledger.Sequence(base))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]*entity.Transaction(nil), base...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ids(ledger.Sequence(shuffled))
		require.Equal(t, want, got, "permutación %d debe producir el mismo orden", i)
	}
}

// Sequence trabaja sobre una copia: la colección de entrada no se reordena.
func TestSequence_NoMutaLaEntrada(t *testing.T) {
	input := []*entity.Transaction{
		tx("b", entity.KindSale, day(9)),
		tx("a", entity.KindPurchase, day(1)),
	}

	_ = ledger.Sequence(input)

	assert.Equal(t, []string{"b", "a"}, ids(input))
}

// La hora o la zona horaria en la fecha no deben afectar la comparación de día calendario.
func TestSequence_ComparaSoloDiaCalendario(t *testing.T) {
	bogota := time.FixedZone("America/Bogota", -5*3600)
	a := tx("a", entity.KindSale, time.Date(2024, time.March, 5, 23, 0, 0, 0, bogota))
	b := tx("b", entity.KindPurchase, time.Date(2024, time.March, 5, 1, 0, 0, 0, time.UTC))

	got := ledger.Sequence([]*entity.Transaction{b, a})

	// Mismo día calendario (5 de marzo): decide el id, no el instante.
	assert.Equal(t, []string{"a", "b"}, ids(got))
}
