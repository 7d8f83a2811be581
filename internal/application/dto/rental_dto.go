package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRentalRequest entrada de checkout. Los totales enviados por el cliente se
// ignoran: se recalculan con los precios actuales del catálogo.
type CreateRentalRequest struct {
	Products             []RentalLineRequest `json:"products" validate:"required,min=1,dive"`
	UserDetails          UserDetailsDTO      `json:"userDetails"`
	DeliveryDate         string              `json:"deliveryDate"` // vacío = fecha del pedido
	TotalMonthlyRent     *decimal.Decimal    `json:"totalMonthlyRent,omitempty"`
	TotalSecurityDeposit *decimal.Decimal    `json:"totalSecurityDeposit,omitempty"`
}

// RentalLineRequest producto + plazo elegido. Tenure 0 = plazo por defecto.
type RentalLineRequest struct {
	Product string `json:"product" validate:"required"`
	Tenure  int    `json:"tenure" validate:"min=0"`
}

// UserDetailsDTO datos de entrega del pedido.
type UserDetailsDTO struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// SchedulePickupRequest entrada de PUT /api/rentals/schedule-pickup/:id.
type SchedulePickupRequest struct {
	PickupDate string `json:"pickupDate" validate:"required"`
}

// UpdateMaintenanceRequest entrada de PUT /api/rentals/maintenance-status/:id (admin).
type UpdateMaintenanceRequest struct {
	Status string `json:"status" validate:"required,oneof=in-progress resolved"`
}

// RentalResponse salida de un pedido.
type RentalResponse struct {
	ID                   string               `json:"id"`
	User                 RentalUserResponse   `json:"user"`
	Products             []RentalItemResponse `json:"products"`
	UserDetails          UserDetailsDTO       `json:"userDetails"`
	Status               string               `json:"status"`
	PickupStatus         string               `json:"pickupStatus"`
	MaintenanceStatus    string               `json:"maintenanceStatus"`
	DeliveryDate         time.Time            `json:"deliveryDate"`
	PickupDate           *time.Time           `json:"pickupDate"`
	TotalMonthlyRent     decimal.Decimal      `json:"totalMonthlyRent"`
	TotalSecurityDeposit decimal.Decimal      `json:"totalSecurityDeposit"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// RentalUserResponse dueño del pedido. Name/Email solo en el listado de admin.
type RentalUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RentalItemResponse línea congelada del pedido.
type RentalItemResponse struct {
	Product                RentalProductResponse `json:"product"`
	Tenure                 int                   `json:"tenure"`
	RentAtTimeOfBooking    decimal.Decimal       `json:"rentAtTimeOfBooking"`
	DepositAtTimeOfBooking decimal.Decimal       `json:"depositAtTimeOfBooking"`
}

// RentalProductResponse nombre e imagen del producto al reservar.
type RentalProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CancelRentalResponse respuesta de cancelación.
type CancelRentalResponse struct {
	Message string         `json:"message"`
	Rental  RentalResponse `json:"rental"`
}
