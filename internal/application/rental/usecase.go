// Package rental implementa el ciclo de vida de los pedidos de alquiler:
// checkout, cancelación, mantenimiento, recogida e historial.
package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/ports"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/lifecycle"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

// RentalUseCase casos de uso de pedidos de alquiler.
type RentalUseCase struct {
	rentals  repository.RentalRepository
	tx       TxRunner
	events   ports.EventPublisher
	pdf      ports.AgreementPDFGenerator
	validate *validation.Validator
	now      func() time.Time
}

// NewRentalUseCase construye el caso de uso.
func NewRentalUseCase(
	rentals repository.RentalRepository,
	tx TxRunner,
	events ports.EventPublisher,
	pdf ports.AgreementPDFGenerator,
	v *validation.Validator,
) *RentalUseCase {
	return &RentalUseCase{rentals: rentals, tx: tx, events: events, pdf: pdf, validate: v, now: time.Now}
}

// Create confirma el pedido del llamador. Precios y nombres se copian del catálogo
// en este momento y los totales se recalculan; los del cliente se ignoran.
// El alta del pedido y el vaciado del carrito son una sola transacción.
func (uc *RentalUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateRentalRequest) (*dto.RentalResponse, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	delivery := uc.now().UTC()
	if strings.TrimSpace(in.DeliveryDate) != "" {
		d, err := parseDate("deliveryDate", in.DeliveryDate)
		if err != nil {
			return nil, err
		}
		delivery = d
	}
	seen := make(map[string]bool, len(in.Products))
	ids := make([]string, 0, len(in.Products))
	for _, l := range in.Products {
		if seen[l.Product] {
			return nil, fmt.Errorf("%w: producto %s repetido en el pedido", domain.ErrInvalidInput, l.Product)
		}
		seen[l.Product] = true
		ids = append(ids, l.Product)
	}

	now := uc.now().UTC()
	r := &entity.Rental{
		ID:     uuid.New().String(),
		UserID: actor.UserID,
		UserDetails: entity.UserDetails{
			Name:    strings.TrimSpace(in.UserDetails.Name),
			Email:   strings.TrimSpace(in.UserDetails.Email),
			Phone:   strings.TrimSpace(in.UserDetails.Phone),
			Address: strings.TrimSpace(in.UserDetails.Address),
		},
		State:        lifecycle.New(),
		DeliveryDate: delivery,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := uc.tx.RunCheckout(ctx, func(products repository.ProductRepository, rentals repository.RentalRepository, carts repository.CartRepository) error {
		catalog, err := products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		items := make([]entity.RentalItem, 0, len(in.Products))
		for _, l := range in.Products {
			p, ok := catalog[l.Product]
			if !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.Product)
			}
			tenure := l.Tenure
			if tenure == 0 {
				tenure = entity.DefaultTenure
			}
			if !p.AllowsTenure(tenure) {
				return fmt.Errorf("%w: plazo de %d meses no disponible para %s", domain.ErrInvalidInput, tenure, p.Name)
			}
			items = append(items, entity.RentalItem{
				ProductID:              p.ID,
				ProductName:            p.Name,
				ProductImage:           p.Image,
				Tenure:                 tenure,
				RentAtTimeOfBooking:    p.MonthlyRent,
				DepositAtTimeOfBooking: p.SecurityDeposit,
			})
		}
		r.Items = items
		r.TotalMonthlyRent, r.TotalSecurityDeposit = entity.Totals(items)
		if err := rentals.Create(ctx, r); err != nil {
			return err
		}
		return carts.Clear(ctx, actor.UserID)
	})
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, ports.EventRentalCreated, actor, r)
	out := ToRentalResponse(r)
	return &out, nil
}

// Get devuelve un pedido del llamador (o cualquiera si es admin).
func (uc *RentalUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.RentalResponse, error) {
	r, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := ToRentalResponse(r)
	return &out, nil
}

// ListMine pedidos de userID, más recientes primero. Solo el propio usuario o un admin.
func (uc *RentalUseCase) ListMine(ctx context.Context, actor entity.Actor, userID string) ([]dto.RentalResponse, error) {
	if !actor.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.rentals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toRentalResponses(list), nil
}

// ListAll todos los pedidos con nombre y email del dueño (admin).
func (uc *RentalUseCase) ListAll(ctx context.Context, actor entity.Actor) ([]dto.RentalResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	list, err := uc.rentals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toRentalResponses(list), nil
}

// Cancel cancela el pedido y retira una recogida programada. Idempotente.
func (uc *RentalUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (*dto.RentalResponse, error) {
	return uc.transition(ctx, actor, id, ports.EventRentalCancelled, lifecycle.State.Cancel)
}

// RequestMaintenance abre una solicitud de mantenimiento.
func (uc *RentalUseCase) RequestMaintenance(ctx context.Context, actor entity.Actor, id string) (*dto.RentalResponse, error) {
	return uc.transition(ctx, actor, id, ports.EventRentalMaintenanceRequested, lifecycle.State.RequestMaintenance)
}

// SchedulePickup programa o reprograma la recogida.
func (uc *RentalUseCase) SchedulePickup(ctx context.Context, actor entity.Actor, id string, in dto.SchedulePickupRequest) (*dto.RentalResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	date, err := parseDate("pickupDate", in.PickupDate)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, actor, id, ports.EventRentalPickupScheduled, func(s lifecycle.State) (lifecycle.State, error) {
		return s.SchedulePickup(date)
	})
}

// UpdateMaintenance avanza el mantenimiento a in-progress o resolved (admin).
func (uc *RentalUseCase) UpdateMaintenance(ctx context.Context, actor entity.Actor, id string, in dto.UpdateMaintenanceRequest) (*dto.RentalResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	to, err := lifecycle.ParseMaintenance(in.Status)
	if err != nil {
		return nil, err
	}
	return uc.transition(ctx, actor, id, ports.EventRentalMaintenanceUpdated, func(s lifecycle.State) (lifecycle.State, error) {
		return s.AdvanceMaintenance(to)
	})
}

// CompletePickup registra la recogida y cierra el pedido (admin).
func (uc *RentalUseCase) CompletePickup(ctx context.Context, actor entity.Actor, id string) (*dto.RentalResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return uc.transition(ctx, actor, id, ports.EventRentalClosed, lifecycle.State.CompletePickup)
}

// DeleteHistory borra el pedido definitivamente.
func (uc *RentalUseCase) DeleteHistory(ctx context.Context, actor entity.Actor, id string) error {
	r, err := uc.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.rentals.Delete(ctx, id); err != nil {
		return err
	}
	uc.publish(ctx, ports.EventRentalDeleted, actor, r)
	return nil
}

// Agreement genera el contrato en PDF a partir de la copia guardada en el pedido.
func (uc *RentalUseCase) Agreement(ctx context.Context, actor entity.Actor, id string) ([]byte, error) {
	r, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RentalAgreementPDF(ctx, r)
}

// transitionAttempts lecturas máximas cuando otro escritor cambia el pedido entre lectura y escritura.
const transitionAttempts = 3

// transition carga el pedido, verifica acceso, aplica fn y guarda solo si el estado cambió.
// La escritura es condicional al estado leído; si perdió la carrera se relee y fn se
// evalúa otra vez sobre el estado nuevo.
func (uc *RentalUseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	id, event string,
	fn func(lifecycle.State) (lifecycle.State, error),
) (*dto.RentalResponse, error) {
	var err error
	for i := 0; i < transitionAttempts; i++ {
		var r *entity.Rental
		r, err = uc.apply(ctx, actor, id, event, fn)
		if errors.Is(err, repository.ErrStateChanged) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out := ToRentalResponse(r)
		return &out, nil
	}
	return nil, err
}

func (uc *RentalUseCase) apply(
	ctx context.Context,
	actor entity.Actor,
	id, event string,
	fn func(lifecycle.State) (lifecycle.State, error),
) (*entity.Rental, error) {
	r, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	prev := r.State
	next, err := fn(prev)
	if err != nil {
		return nil, err
	}
	if prev.Equal(next) {
		return r, nil
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	r.State = next
	r.UpdatedAt = uc.now().UTC()
	if err := uc.rentals.UpdateState(ctx, r, prev); err != nil {
		return nil, err
	}
	uc.publish(ctx, event, actor, r)
	return r, nil
}

func (uc *RentalUseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Rental, error) {
	r, err := uc.rentals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.CanAccess(r.UserID) {
		return nil, domain.ErrForbidden
	}
	return r, nil
}

// publish best-effort: el adaptador registra los fallos.
func (uc *RentalUseCase) publish(ctx context.Context, eventType string, actor entity.Actor, r *entity.Rental) {
	_ = uc.events.Publish(ctx, ports.RentalEvent{
		Type:              eventType,
		RentalID:          r.ID,
		UserID:            r.UserID,
		ActorID:           actor.UserID,
		Status:            string(r.State.Status),
		PickupStatus:      string(r.State.Pickup),
		MaintenanceStatus: string(r.State.Maintenance),
		PickupDate:        r.State.PickupDate,
		OccurredAt:        uc.now().UTC(),
	})
}

// parseDate acepta fecha ISO (2006-01-02) o RFC3339.
func parseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: %s es requerido", domain.ErrInvalidInput, field)
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s debe ser YYYY-MM-DD o RFC3339", domain.ErrInvalidInput, field)
}
