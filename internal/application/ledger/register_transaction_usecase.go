package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/LibroOro-api/internal/application/dto"
	"github.com/jhoicas/LibroOro-api/internal/domain"
	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/domain/repository"
	"github.com/jhoicas/LibroOro-api/pkg/logger"
)

// RegisterTransactionUseCase da de alta compras y ventas. Escribe en el libro mayor remoto;
// si el remoto no responde, la transacción se guarda en el caché local para sincronizar
// después (es el productor de las entradas "pendientes" que ve el reconciliador).
type RegisterTransactionUseCase struct {
	remote repository.TransactionRepository
	local  repository.LocalTransactionStore
	log    *logger.Logger
}

// NewRegisterTransactionUseCase construye el caso de uso.
func NewRegisterTransactionUseCase(
	remote repository.TransactionRepository,
	local repository.LocalTransactionStore,
	log *logger.Logger,
) *RegisterTransactionUseCase {
	return &RegisterTransactionUseCase{remote: remote, local: local, log: log}
}

// Register valida y persiste una transacción nueva. Devuelve la entidad persistida y
// queued=true si quedó en el caché local a la espera de sincronización.
//
// Una venta nunca referencia un lote al crearse: la asignación de lotes es responsabilidad
// exclusiva del motor en el replay y no se persiste de vuelta.
func (uc *RegisterTransactionUseCase) Register(ctx context.Context, in dto.CreateTransactionRequest) (*entity.Transaction, bool, error) {
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, false, fmt.Errorf("%w: fecha %q no es YYYY-MM-DD", domain.ErrMalformedTransaction, in.Date)
	}

	tx := &entity.Transaction{
		ID:            in.ID,
		Kind:          in.Kind,
		Date:          date,
		PartyName:     in.PartyName,
		Quantity:      in.Quantity,
		RatePerUnit:   in.RatePerUnit,
		TaxRate:       in.TaxRate,
		TaxAmount:     in.TaxAmount,
		TaxableAmount: in.TaxableAmount,
		TotalAmount:   in.TotalAmount,
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	if in.CreatedAt != "" {
		at, err := time.Parse(time.RFC3339, in.CreatedAt)
		if err != nil {
			return nil, false, fmt.Errorf("%w: id=%s created_at %q no es RFC3339", domain.ErrMalformedTransaction, tx.ID, in.CreatedAt)
		}
		tx.CreatedAt = &at
	} else {
		now := time.Now().UTC()
		tx.CreatedAt = &now
	}

	if err := tx.Validate(); err != nil {
		return nil, false, err
	}
	fillDerivedAmounts(tx)

	if err := uc.remote.Create(ctx, tx); err != nil {
		if err == domain.ErrDuplicate {
			return nil, false, err
		}
		// Remoto caído: la escritura se encola localmente, nunca se pierde.
		uc.log.Warn().Err(err).Str("tx_id", tx.ID).Msg("remoto inaccesible; transacción encolada en el caché local")
		if appendErr := uc.local.Append(ctx, tx); appendErr != nil {
			return nil, false, fmt.Errorf("encolar en caché local: %w", appendErr)
		}
		return tx, true, nil
	}
	return tx, false, nil
}

// fillDerivedAmounts completa los campos financieros ausentes con la aritmética GST plana
// que aporta el caller: base gravable = cantidad × tarifa, impuesto = base × tasa / 100,
// total = base + impuesto. Los valores ya informados se respetan tal cual (pass-through).
func fillDerivedAmounts(tx *entity.Transaction) {
	if tx.TaxableAmount.IsZero() {
		tx.TaxableAmount = tx.Quantity.Mul(tx.RatePerUnit)
	}
	if tx.TaxAmount.IsZero() && tx.TaxRate.IsPositive() {
		tx.TaxAmount = tx.TaxableAmount.Mul(tx.TaxRate).Div(decimal.NewFromInt(100))
	}
	if tx.TotalAmount.IsZero() {
		tx.TotalAmount = tx.TaxableAmount.Add(tx.TaxAmount)
	}
}
