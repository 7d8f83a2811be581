package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el panel de administración.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// RentalSummary agrega ingresos y conteos por estado en una sola pasada sobre rentals.
func (r *AnalyticsRepo) RentalSummary(ctx context.Context) (repository.RentalSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(total_monthly_rent), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE status = 'closed'),
			COUNT(*) FILTER (WHERE maintenance_status IN ('requested', 'in-progress')),
			COUNT(*) FILTER (WHERE pickup_status = 'scheduled')
		FROM rentals`
	var s repository.RentalSummary
	err := r.q.QueryRow(ctx, query).Scan(
		&s.Revenue, &s.Orders, &s.Active, &s.Cancelled, &s.Closed, &s.OpenMaintenance, &s.ScheduledPickups,
	)
	if err != nil {
		return repository.RentalSummary{}, fmt.Errorf("rental summary: %w", err)
	}
	return s, nil
}
