package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/LibroOro-api/internal/domain/entity"
	"github.com/jhoicas/LibroOro-api/internal/domain/ledger"
	"github.com/jhoicas/LibroOro-api/internal/domain/repository"
	"github.com/jhoicas/LibroOro-api/pkg/logger"
)

// ReconcileUseCase ejecuta el pipeline completo: reconciliador de fuentes → secuenciador →
// motor FIFO. El remoto es autoritativo mientras responda; el caché local entra como
// respaldo (modo degradado) o como señal de entradas aún no sincronizadas.
//
// Todo excepto una transacción malformada se absorbe y se anota: el caller siempre recibe
// un resultado reconciliado de mejor esfuerzo más las banderas de advertencia.
type ReconcileUseCase struct {
	remote repository.TransactionRepository
	local  repository.LocalTransactionStore
	engine *ledger.Engine
	log    *logger.Logger
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(
	remote repository.TransactionRepository,
	local repository.LocalTransactionStore,
	engine *ledger.Engine,
	log *logger.Logger,
) *ReconcileUseCase {
	return &ReconcileUseCase{remote: remote, local: local, engine: engine, log: log}
}

// ReconcileResult resultado del pipeline para el caller.
type ReconcileResult struct {
	Transactions []*entity.Transaction // anotadas, en el orden canónico del secuenciador
	Lots         []*entity.InventoryLot
	Degraded     bool     // el remoto no respondió: cifras solo desde el caché local
	NeedsSync    bool     // hay transacciones locales que el remoto no conoce
	PendingIDs   []string // ids pendientes de subir, ordenados
}

// Reconcile trae ambas fuentes, las fusiona, valida la ingesta y rehace el libro.
// Cada invocación trabaja sobre su propia instantánea; el resultado se entrega completo,
// nunca como parche incremental.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	remoteTxs, remoteErr := uc.remote.List(ctx)
	if remoteErr != nil {
		uc.log.Warn().Err(remoteErr).Msg("libro mayor remoto inaccesible; se usa solo el caché local")
	}

	localTxs, err := uc.local.Read(ctx)
	if err != nil {
		// El caché local es de mejor esfuerzo: un caché ilegible cuenta como vacío.
		uc.log.Warn().Err(err).Msg("caché local ilegible; se trata como vacío")
		localTxs = nil
	}

	candidate, degraded, pending := merge(remoteTxs, remoteErr, localTxs)

	// Transacción malformada: se rechaza la ingesta completa nombrando el registro.
	// Nunca se corrige ni se descarta en silencio camino al secuenciador.
	for _, tx := range candidate {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("ingesta rechazada: %w", err)
		}
	}

	res := uc.engine.Replay(candidate)

	return &ReconcileResult{
		Transactions: res.Transactions,
		Lots:         res.Lots,
		Degraded:     degraded,
		NeedsSync:    len(pending) > 0,
		PendingIDs:   pending,
	}, nil
}

// Lots devuelve solo el inventario del replay, opcionalmente filtrado por estado.
// state: "" (todos), "open" o "closed".
func (uc *ReconcileUseCase) Lots(ctx context.Context, state string) ([]*entity.InventoryLot, bool, error) {
	res, err := uc.Reconcile(ctx)
	if err != nil {
		return nil, false, err
	}
	if state == "" {
		return res.Lots, res.Degraded, nil
	}
	filtered := make([]*entity.InventoryLot, 0, len(res.Lots))
	for _, lot := range res.Lots {
		if (state == "closed") == lot.Closed() {
			filtered = append(filtered, lot)
		}
	}
	return filtered, res.Degraded, nil
}

// merge aplica las reglas del reconciliador, en orden de prioridad:
//
//  1. remoto inaccesible (distinguible de "vacío con éxito") → solo el conjunto local,
//     modo degradado;
//  2. si no, unsynced = local − remoto por id. Remoto vacío y local no vacío → el local es
//     el conjunto de trabajo (bootstrap/migración). Unsynced no vacío → unión remoto ∪
//     unsynced, señal de sincronización pendiente: una escritura local sin subir jamás se
//     descarta en silencio;
//  3. en toda unión se deduplica por id y la copia remota gana.
func merge(remote []*entity.Transaction, remoteErr error, local []*entity.Transaction) (candidate []*entity.Transaction, degraded bool, pending []string) {
	if remoteErr != nil {
		return dedupe(local), true, nil
	}

	seen := make(map[string]struct{}, len(remote))
	candidate = make([]*entity.Transaction, 0, len(remote)+len(local))
	for _, tx := range remote {
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		seen[tx.ID] = struct{}{}
		candidate = append(candidate, tx)
	}
	for _, tx := range local {
		if _, ok := seen[tx.ID]; ok {
			continue // el remoto gana: un id denota una transacción inmutable
		}
		seen[tx.ID] = struct{}{}
		candidate = append(candidate, tx)
		pending = append(pending, tx.ID)
	}
	sort.Strings(pending)
	return candidate, false, pending
}

// dedupe conserva la primera aparición de cada id (para el conjunto local en modo degradado).
func dedupe(txs []*entity.Transaction) []*entity.Transaction {
	seen := make(map[string]struct{}, len(txs))
	out := make([]*entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if _, ok := seen[tx.ID]; ok {
			continue
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}
	return out
}
