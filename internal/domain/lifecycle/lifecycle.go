// Package lifecycle modela el ciclo de vida de un alquiler.
//
// Un alquiler tiene tres ejes (estado, recogida y mantenimiento) guardados en
// columnas separadas. Todas las transiciones pasan por State para que no
// existan combinaciones inválidas, por ejemplo cancelled + pickup scheduled.
//
//	status:       active ──► cancelled (terminal)
//	              active ──► closed    (terminal, vía CompletePickup)
//	pickup:       none ──► scheduled ──► completed
//	maintenance:  none ──► requested ──► in-progress ──► resolved ──► requested ...
package lifecycle

import (
	"fmt"
	"time"

	"github.com/jhoicas/rentmojo-api/internal/domain"
)

// Status estado principal del alquiler.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusClosed    Status = "closed"
)

// PickupStatus estado de la recogida al final del alquiler.
type PickupStatus string

const (
	PickupNone      PickupStatus = "none"
	PickupScheduled PickupStatus = "scheduled"
	PickupCompleted PickupStatus = "completed"
)

// MaintenanceStatus estado de la última solicitud de mantenimiento.
type MaintenanceStatus string

const (
	MaintenanceNone       MaintenanceStatus = "none"
	MaintenanceRequested  MaintenanceStatus = "requested"
	MaintenanceInProgress MaintenanceStatus = "in-progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
)

// State los tres ejes más la fecha de recogida, que solo existe con pickup scheduled o completed.
type State struct {
	Status      Status
	Pickup      PickupStatus
	Maintenance MaintenanceStatus
	PickupDate  *time.Time
}

// New estado inicial de un alquiler recién creado.
func New() State {
	return State{Status: StatusActive, Pickup: PickupNone, Maintenance: MaintenanceNone}
}

// Equal compara los tres ejes y la fecha de recogida.
func (s State) Equal(o State) bool {
	if s.Status != o.Status || s.Pickup != o.Pickup || s.Maintenance != o.Maintenance {
		return false
	}
	if s.PickupDate == nil || o.PickupDate == nil {
		return s.PickupDate == nil && o.PickupDate == nil
	}
	return s.PickupDate.Equal(*o.PickupDate)
}

// Validate comprueba que el estado sea una combinación permitida.
func (s State) Validate() error {
	switch s.Status {
	case StatusActive, StatusCancelled, StatusClosed:
	default:
		return invalid("status desconocido %q", s.Status)
	}
	switch s.Pickup {
	case PickupNone, PickupScheduled, PickupCompleted:
	default:
		return invalid("pickup_status desconocido %q", s.Pickup)
	}
	switch s.Maintenance {
	case MaintenanceNone, MaintenanceRequested, MaintenanceInProgress, MaintenanceResolved:
	default:
		return invalid("maintenance_status desconocido %q", s.Maintenance)
	}

	switch s.Status {
	case StatusActive:
		if s.Pickup == PickupCompleted {
			return invalid("un alquiler activo no puede tener la recogida completada")
		}
	case StatusCancelled:
		if s.Pickup != PickupNone {
			return invalid("un alquiler cancelado no puede tener recogida %s", s.Pickup)
		}
	case StatusClosed:
		if s.Pickup != PickupCompleted {
			return invalid("un alquiler cerrado requiere recogida completada")
		}
	}
	if s.Pickup == PickupNone && s.PickupDate != nil {
		return invalid("pickup_date sin recogida programada")
	}
	if s.Pickup != PickupNone && s.PickupDate == nil {
		return invalid("recogida %s sin pickup_date", s.Pickup)
	}
	return nil
}

// Cancel pasa a cancelled y retira una recogida programada. Cancelar dos veces no es error.
func (s State) Cancel() (State, error) {
	switch s.Status {
	case StatusCancelled:
		return s, nil
	case StatusClosed:
		return s, conflict("no se puede cancelar un alquiler cerrado")
	}
	s.Status = StatusCancelled
	s.Pickup = PickupNone
	s.PickupDate = nil
	return s, nil
}

// RequestMaintenance abre una solicitud. Si ya hay una abierta no cambia nada.
func (s State) RequestMaintenance() (State, error) {
	if s.Status != StatusActive {
		return s, conflict("mantenimiento solo para alquileres activos (status=%s)", s.Status)
	}
	switch s.Maintenance {
	case MaintenanceRequested, MaintenanceInProgress:
		return s, nil
	}
	s.Maintenance = MaintenanceRequested
	return s, nil
}

// AdvanceMaintenance mueve la solicitud abierta a in-progress o resolved.
func (s State) AdvanceMaintenance(to MaintenanceStatus) (State, error) {
	if s.Status != StatusActive {
		return s, conflict("mantenimiento solo para alquileres activos (status=%s)", s.Status)
	}
	switch {
	case s.Maintenance == to:
		return s, nil
	case s.Maintenance == MaintenanceRequested && to == MaintenanceInProgress,
		s.Maintenance == MaintenanceRequested && to == MaintenanceResolved,
		s.Maintenance == MaintenanceInProgress && to == MaintenanceResolved:
		s.Maintenance = to
		return s, nil
	}
	return s, conflict("transición de mantenimiento %s -> %s no permitida", s.Maintenance, to)
}

// SchedulePickup programa (o reprograma) la recogida.
func (s State) SchedulePickup(date time.Time) (State, error) {
	if date.IsZero() {
		return s, fmt.Errorf("%w: pickupDate es requerido", domain.ErrInvalidInput)
	}
	if s.Status != StatusActive {
		return s, conflict("solo se programa recogida en alquileres activos (status=%s)", s.Status)
	}
	if s.Pickup == PickupCompleted {
		return s, conflict("la recogida ya fue completada")
	}
	s.Pickup = PickupScheduled
	d := date
	s.PickupDate = &d
	return s, nil
}

// CompletePickup marca la recogida como hecha y cierra el alquiler.
func (s State) CompletePickup() (State, error) {
	if s.Status != StatusActive || s.Pickup != PickupScheduled {
		return s, conflict("completar recogida requiere alquiler activo con recogida programada (status=%s, pickup=%s)", s.Status, s.Pickup)
	}
	s.Pickup = PickupCompleted
	s.Status = StatusClosed
	return s, nil
}

// ParseMaintenance convierte el valor recibido por la API.
func ParseMaintenance(v string) (MaintenanceStatus, error) {
	m := MaintenanceStatus(v)
	switch m {
	case MaintenanceNone, MaintenanceRequested, MaintenanceInProgress, MaintenanceResolved:
		return m, nil
	}
	return "", fmt.Errorf("%w: maintenance status %q no válido", domain.ErrInvalidInput, v)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrConflict}, args...)...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}
