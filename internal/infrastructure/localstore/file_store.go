// Package localstore implementa el caché local offline de transacciones sobre un archivo
// JSON. Nunca toca la red; leer un caché ausente devuelve vacío. Toda escritura reemplaza
// el archivo completo de forma atómica (archivo temporal + rename), nunca parches
// incrementales, para que un lector concurrente vea siempre una instantánea consistente.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/domain/repository"
)

var _ repository.LocalTransactionStore = (*FileStore)(nil)

// FileStore caché local de transacciones en un archivo JSON.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore construye el caché sobre la ruta dada.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// cachedTransaction es la forma persistida. Los decimales van como string JSON
// (comportamiento por defecto de shopspring/decimal): la precisión sobrevive el round trip.
type cachedTransaction struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Date          string          `json:"date"` // YYYY-MM-DD
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	PartyName     string          `json:"party_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	RatePerUnit   decimal.Decimal `json:"rate_per_unit"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Read carga el caché. Un archivo ausente es un caché vacío, no un error.
func (s *FileStore) Read(_ context.Context) ([]*entity.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Replace sustituye el contenido completo del caché de forma atómica.
func (s *FileStore) Replace(_ context.Context, txs []*entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(txs)
}

// Append agrega (o reemplaza por id) una transacción y reescribe el archivo completo.
func (s *FileStore) Append(_ context.Context, tx *entity.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.readLocked()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range txs {
		if existing.ID == tx.ID {
			txs[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		txs = append(txs, tx)
	}
	return s.writeLocked(txs)
}

func (s *FileStore) readLocked() ([]*entity.Transaction, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer caché %s: %w", s.path, err)
	}

	var records []cachedTransaction
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decodificar caché %s: %w", s.path, err)
	}

	out := make([]*entity.Transaction, 0, len(records))
	for _, rec := range records {
		date, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			return nil, fmt.Errorf("decodificar caché %s: fecha %q: %w", s.path, rec.Date, err)
		}
		out = append(out, &entity.Transaction{
			ID:            rec.ID,
			Kind:          rec.Kind,
			Date:          date,
			CreatedAt:     rec.CreatedAt,
			PartyName:     rec.PartyName,
			Quantity:      rec.Quantity,
			RatePerUnit:   rec.RatePerUnit,
			TaxRate:       rec.TaxRate,
			TaxAmount:     rec.TaxAmount,
			TaxableAmount: rec.TaxableAmount,
			TotalAmount:   rec.TotalAmount,
		})
	}
	return out, nil
}

func (s *FileStore) writeLocked(txs []*entity.Transaction) error {
	records := make([]cachedTransaction, 0, len(txs))
	for _, tx := range txs {
		records = append(records, cachedTransaction{
			ID:            tx.ID,
			Kind:          tx.Kind,
			Date:          tx.Date.Format("2006-01-02"),
			CreatedAt:     tx.CreatedAt,
			PartyName:     tx.PartyName,
			Quantity:      tx.Quantity,
			RatePerUnit:   tx.RatePerUnit,
			TaxRate:       tx.TaxRate,
			TaxAmount:     tx.TaxAmount,
			TaxableAmount: tx.TaxableAmount,
			TotalAmount:   tx.TotalAmount,
		})
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("codificar caché: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "cache-*.json")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	// rename es atómico dentro del mismo directorio
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("reemplazar caché: %w", err)
	}
	return nil
}
