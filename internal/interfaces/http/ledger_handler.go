package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/LibroOro-api/internal/application/dto"
	appledger "github.com/jhoicas/LibroOro-api/internal/application/ledger"
	"github.com/jhoicas/LibroOro-api/internal/domain"
)

// LedgerHandler maneja transacciones, reconciliación y sincronización (protegido).
type LedgerHandler struct {
	register  *appledger.RegisterTransactionUseCase
	reconcile *appledger.ReconcileUseCase
	sync      *appledger.SyncUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(
	register *appledger.RegisterTransactionUseCase,
	reconcile *appledger.ReconcileUseCase,
	sync *appledger.SyncUseCase,
) *LedgerHandler {
	return &LedgerHandler{register: register, reconcile: reconcile, sync: sync}
}

// CreateTransaction godoc
// @Summary      Registrar compra o venta
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "kind, date, party_name, quantity, rate_per_unit, tax_rate"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	var in dto.CreateTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, queued, err := h.register.Register(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedTransaction) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe una transacción con ese id"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction": dto.FromTransaction(tx),
		"queued":      queued, // true: encolada en el caché local, pendiente de sincronizar
	})
}

// Reconcile godoc
// @Summary      Reconciliar el libro y rehacer el inventario FIFO
// @Description  Fusiona el libro remoto con el caché local, ordena de forma determinista
//
//	y rehace compras como lotes y ventas como consumo FIFO con COGS y utilidad.
//
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/reconcile [get]
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.reconcile.Reconcile(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMalformedTransaction) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := dto.ReconcileResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(res.Transactions)),
		Lots:         make([]dto.LotResponse, 0, len(res.Lots)),
		Degraded:     res.Degraded,
		NeedsSync:    res.NeedsSync,
		PendingIDs:   res.PendingIDs,
	}
	for _, tx := range res.Transactions {
		out.Transactions = append(out.Transactions, dto.FromTransaction(tx))
	}
	for _, lot := range res.Lots {
		out.Lots = append(out.Lots, dto.FromLot(lot))
	}
	return c.JSON(out)
}

// Lots godoc
// @Summary      Inventario por lotes
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        state  query  string  false  "open | closed; vacío = todos"
// @Success      200  {array}  dto.LotResponse
// @Router       /api/ledger/lots [get]
func (h *LedgerHandler) Lots(c *fiber.Ctx) error {
	state := c.Query("state")
	if state != "" && state != "open" && state != "closed" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "state debe ser open o closed"})
	}
	lots, degraded, err := h.reconcile.Lots(c.Context(), state)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedTransaction) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.LotResponse, 0, len(lots))
	for _, lot := range lots {
		out = append(out, dto.FromLot(lot))
	}
	return c.JSON(fiber.Map{
		"total":    len(out),
		"degraded": degraded,
		"lots":     out,
	})
}

// Sync godoc
// @Summary      Subir transacciones pendientes del caché local al remoto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/ledger/sync [post]
func (h *LedgerHandler) Sync(c *fiber.Ctx) error {
	synced, err := h.sync.SyncPending(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REMOTE_UNAVAILABLE", Message: "el libro mayor remoto no responde"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"synced": synced})
}
