package ports

import (
	"context"
	"time"
)

// Tipos de evento de alquiler (routing keys del exchange).
const (
	EventRentalCreated              = "rental.created"
	EventRentalCancelled            = "rental.cancelled"
	EventRentalMaintenanceRequested = "rental.maintenance_requested"
	EventRentalMaintenanceUpdated   = "rental.maintenance_updated"
	EventRentalPickupScheduled      = "rental.pickup_scheduled"
	EventRentalClosed               = "rental.closed"
	EventRentalDeleted              = "rental.deleted"
)

// RentalEvent cuerpo publicado tras una escritura exitosa sobre un alquiler.
type RentalEvent struct {
	Type              string     `json:"type"`
	RentalID          string     `json:"rentalId"`
	UserID            string     `json:"userId"`
	ActorID           string     `json:"actorId"`
	Status            string     `json:"status"`
	PickupStatus      string     `json:"pickupStatus"`
	MaintenanceStatus string     `json:"maintenanceStatus"`
	PickupDate        *time.Time `json:"pickupDate,omitempty"`
	OccurredAt        time.Time  `json:"occurredAt"`
}

// EventPublisher puerto de salida para eventos de dominio.
type EventPublisher interface {
	Publish(ctx context.Context, event RentalEvent) error
}
