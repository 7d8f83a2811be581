// Package analytics contiene los casos de uso del panel de administración.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen de pedidos del panel de administración.
// No accede a las tablas directamente; delega en AnalyticsRepository.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary devuelve ingresos y conteos por estado (admin).
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Actor) (*dto.DashboardSummaryDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	s, err := uc.analyticsRepo.RentalSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: resumen de pedidos: %w", err)
	}
	return &dto.DashboardSummaryDTO{
		Revenue:          s.Revenue,
		Orders:           s.Orders,
		Active:           s.Active,
		Cancelled:        s.Cancelled,
		Closed:           s.Closed,
		OpenMaintenance:  s.OpenMaintenance,
		ScheduledPickups: s.ScheduledPickups,
	}, nil
}
