package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/LibroOro-api/internal/application/analytics"
	"github.com/jhoicas/LibroOro-api/internal/application/dto"
	"github.com/jhoicas/LibroOro-api/internal/domain"
)

// AnalyticsHandler expone el tablero de cifras derivadas (protegido).
type AnalyticsHandler struct {
	uc *analytics.DashboardUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.DashboardUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Tablero: stock, antigüedad, rotación y contrapartes
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	res, err := h.uc.Dashboard(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrMalformedTransaction) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(res)
}
