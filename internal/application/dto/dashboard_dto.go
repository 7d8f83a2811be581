package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Revenue          decimal.Decimal `json:"revenue"` // suma de renta mensual de todos los pedidos
	Orders           int             `json:"orders"`
	Active           int             `json:"active"`
	Cancelled        int             `json:"cancelled"`
	Closed           int             `json:"closed"`
	OpenMaintenance  int             `json:"open_maintenance"`
	ScheduledPickups int             `json:"scheduled_pickups"`
}
