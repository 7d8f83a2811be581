package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// RentalSummary conteos crudos para el panel de administración.
type RentalSummary struct {
	Revenue          decimal.Decimal // suma de total_monthly_rent de todos los pedidos
	Orders           int
	Active           int
	Cancelled        int
	Closed           int
	OpenMaintenance  int // requested + in-progress
	ScheduledPickups int
}

// AnalyticsRepository consultas de solo lectura para el panel de administración.
type AnalyticsRepository interface {
	RentalSummary(ctx context.Context) (RentalSummary, error)
}
