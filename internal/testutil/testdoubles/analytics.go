package testdoubles

import (
	"context"

	"github.com/jhoicas/rentmojo-api/internal/domain/lifecycle"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

// Analytics resumen del panel calculado sobre los pedidos del Store.
func (s *Store) Analytics() repository.AnalyticsRepository { return analyticsRepo{s} }

type analyticsRepo struct{ s *Store }

func (r analyticsRepo) RentalSummary(_ context.Context) (repository.RentalSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out repository.RentalSummary
	for _, rt := range r.s.rentals {
		out.Orders++
		out.Revenue = out.Revenue.Add(rt.TotalMonthlyRent)
		switch rt.State.Status {
		case lifecycle.StatusActive:
			out.Active++
		case lifecycle.StatusCancelled:
			out.Cancelled++
		case lifecycle.StatusClosed:
			out.Closed++
		}
		if rt.State.Maintenance == lifecycle.MaintenanceRequested || rt.State.Maintenance == lifecycle.MaintenanceInProgress {
			out.OpenMaintenance++
		}
		if rt.State.Pickup == lifecycle.PickupScheduled {
			out.ScheduledPickups++
		}
	}
	return out, nil
}
