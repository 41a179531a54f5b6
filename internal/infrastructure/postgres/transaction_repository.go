package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/LibroOro-api/internal/domain"
	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo es el libro mayor remoto sobre PostgreSQL. Un error de List significa
// "remoto no disponible" (distinguible de un resultado vacío con éxito), que es lo que el
// reconciliador necesita para decidir el modo degradado.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// List devuelve todas las transacciones del libro. El orden de lectura es irrelevante:
// el secuenciador impone el orden canónico aguas arriba del motor.
func (r *TransactionRepo) List(ctx context.Context) ([]*entity.Transaction, error) {
	query := `
		SELECT id, kind, date, created_at, party_name,
		       quantity, rate_per_unit, tax_rate, tax_amount, taxable_amount, total_amount
		FROM gold_transactions`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	defer rows.Close()

	var out []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(
			&t.ID, &t.Kind, &t.Date, &t.CreatedAt, &t.PartyName,
			&t.Quantity, &t.RatePerUnit, &t.TaxRate, &t.TaxAmount, &t.TaxableAmount, &t.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("scan transacción: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	return out, nil
}

// Create inserta una transacción nueva. Un id repetido devuelve ErrDuplicate:
// un id denota exactamente una transacción inmutable.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO gold_transactions
			(id, kind, date, created_at, party_name,
			 quantity, rate_per_unit, tax_rate, tax_amount, taxable_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Kind, t.Date, t.CreatedAt, t.PartyName,
		t.Quantity, t.RatePerUnit, t.TaxRate, t.TaxAmount, t.TaxableAmount, t.TotalAmount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insertar transacción: %w", err)
	}
	return nil
}
