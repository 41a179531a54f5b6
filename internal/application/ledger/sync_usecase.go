package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/LibroOro-api/internal/domain"
	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/domain/repository"
	"github.com/jhoicas/LibroOro-api/pkg/logger"
)

// SyncUseCase sube al remoto las transacciones que solo existen en el caché local
// y poda del caché las que el remoto ya conoce.
type SyncUseCase struct {
	remote repository.TransactionRepository
	local  repository.LocalTransactionStore
	log    *logger.Logger
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(
	remote repository.TransactionRepository,
	local repository.LocalTransactionStore,
	log *logger.Logger,
) *SyncUseCase {
	return &SyncUseCase{remote: remote, local: local, log: log}
}

// SyncPending empuja las pendientes una a una y reemplaza el caché con lo que no se pudo
// subir. Devuelve cuántas se sincronizaron. Si el remoto no responde no hay nada que hacer:
// se devuelve el error y el caché queda intacto.
func (uc *SyncUseCase) SyncPending(ctx context.Context) (int, error) {
	remoteTxs, err := uc.remote.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrRemoteUnavailable, err)
	}
	localTxs, err := uc.local.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("leer caché local: %w", err)
	}

	known := make(map[string]struct{}, len(remoteTxs))
	for _, tx := range remoteTxs {
		known[tx.ID] = struct{}{}
	}

	synced := 0
	var remaining []*entity.Transaction
	for _, tx := range localTxs {
		if _, ok := known[tx.ID]; ok {
			continue // ya está en el remoto: solo se poda del caché
		}
		if err := uc.remote.Create(ctx, tx); err != nil {
			if err == domain.ErrDuplicate {
				continue
			}
			uc.log.Warn().Err(err).Str("tx_id", tx.ID).Msg("no se pudo subir la transacción pendiente")
			remaining = append(remaining, tx)
			continue
		}
		synced++
	}

	if err := uc.local.Replace(ctx, remaining); err != nil {
		return synced, fmt.Errorf("podar caché local: %w", err)
	}
	uc.log.Info().Int("synced", synced).Int("remaining", len(remaining)).Msg("sincronización del caché local")
	return synced, nil
}
