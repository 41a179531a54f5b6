package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/LibroOro-api/internal/application/dto"
	appledger "github.com/jhoicas/LibroOro-api/internal/application/ledger"
	"github.com/jhoicas/LibroOro-api/internal/domain"
)

// ValuationPDFGenerator abstrae la generación del reporte para el handler.
type ValuationPDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, businessName string, res *appledger.ReconcileResult) ([]byte, error)
}

// ReportHandler genera reportes descargables (protegido).
type ReportHandler struct {
	reconcile    *appledger.ReconcileUseCase
	generator    ValuationPDFGenerator
	businessName string
}

// NewReportHandler construye el handler.
func NewReportHandler(reconcile *appledger.ReconcileUseCase, generator ValuationPDFGenerator, businessName string) *ReportHandler {
	return &ReportHandler{reconcile: reconcile, generator: generator, businessName: businessName}
}

// ValuationPDF godoc
// @Summary      Reporte PDF de valoración de inventario y utilidad
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) ValuationPDF(c *fiber.Ctx) error {
	res, err := h.reconcile.Reconcile(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMalformedTransaction) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	pdfBytes, err := h.generator.GenerateValuationPDF(c.Context(), h.businessName, res)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="valoracion-inventario.pdf"`)
	return c.Send(pdfBytes)
}
