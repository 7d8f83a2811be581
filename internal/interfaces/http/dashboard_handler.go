package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/rentmojo-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del panel de administración.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary devuelve los totales de pedidos para el panel de administración.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (revenue, orders, active, cancelled, closed,
// open_maintenance, scheduled_pickups). revenue suma la renta mensual de todos los pedidos.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}
