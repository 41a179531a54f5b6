package localstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/infrastructure/localstore"
)

func sampleTx(id string) *entity.Transaction {
	at := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	return &entity.Transaction{
		ID:          id,
		Kind:        entity.KindPurchase,
		Date:        time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		CreatedAt:   &at,
		PartyName:   "Proveedor Andino",
		Quantity:    decimal.RequireFromString("12.3456"),
		RatePerUnit: decimal.RequireFromString("5123.45"),
		TaxRate:     decimal.NewFromInt(3),
	}
}

// Un caché ausente es un caché vacío, no un error.
func TestFileStore_ArchivoAusenteEsVacio(t *testing.T) {
	store := localstore.NewFileStore(filepath.Join(t.TempDir(), "no-existe.json"))

	txs, err := store.Read(context.Background())

	require.NoError(t, err)
	assert.Empty(t, txs)
}

// Round trip completo: los decimales y fechas sobreviven sin pérdida de precisión.
func TestFileStore_RoundTripSinPerdida(t *testing.T) {
	store := localstore.NewFileStore(filepath.Join(t.TempDir(), "cache.json"))
	original := sampleTx("c-1")

	require.NoError(t, store.Replace(context.Background(), []*entity.Transaction{original}))
	got, err := store.Read(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, original.ID, got[0].ID)
	assert.True(t, got[0].Quantity.Equal(decimal.RequireFromString("12.3456")), "cantidad = %s", got[0].Quantity)
	assert.True(t, got[0].RatePerUnit.Equal(decimal.RequireFromString("5123.45")))
	assert.Equal(t, original.Date, got[0].Date)
	require.NotNil(t, got[0].CreatedAt)
	assert.True(t, original.CreatedAt.Equal(*got[0].CreatedAt))
}

// Append agrega nuevas y reemplaza por id sin duplicar.
func TestFileStore_AppendReemplazaPorID(t *testing.T) {
	store := localstore.NewFileStore(filepath.Join(t.TempDir(), "cache.json"))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, sampleTx("c-1")))
	require.NoError(t, store.Append(ctx, sampleTx("c-2")))

	edited := sampleTx("c-1")
	edited.Quantity = decimal.NewFromInt(99)
	require.NoError(t, store.Append(ctx, edited))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, tx := range got {
		if tx.ID == "c-1" {
			assert.True(t, tx.Quantity.Equal(decimal.NewFromInt(99)))
		}
	}
}

// Replace con lista vacía deja un caché vacío consistente (poda total tras sincronizar).
func TestFileStore_ReplaceVacioPoda(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	store := localstore.NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, sampleTx("c-1")))
	require.NoError(t, store.Replace(ctx, nil))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	// El archivo sigue existiendo y es JSON válido.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

// Un archivo corrupto devuelve error de decodificación (el caller lo trata como vacío).
func TestFileStore_ArchivoCorrupto(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json["), 0o644))
	store := localstore.NewFileStore(path)

	_, err := store.Read(context.Background())

	assert.Error(t, err)
}
