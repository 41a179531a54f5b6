package repository

import (
	"context"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
)

// TransactionRepository es el libro mayor remoto (PostgreSQL), autoritativo mientras esté
// disponible. List distingue un fallo de acceso de un resultado vacío: error != nil significa
// "no disponible", nunca "sin transacciones".
type TransactionRepository interface {
	List(ctx context.Context) ([]*entity.Transaction, error)
	Create(ctx context.Context, tx *entity.Transaction) error
}

// LocalTransactionStore es el caché local offline de transacciones. Nunca bloquea por red.
// Replace sustituye el contenido completo de forma atómica (nunca parches incrementales).
type LocalTransactionStore interface {
	Read(ctx context.Context) ([]*entity.Transaction, error)
	Replace(ctx context.Context, txs []*entity.Transaction) error
	Append(ctx context.Context, tx *entity.Transaction) error
}
