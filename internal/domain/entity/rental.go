package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentmojo-api/internal/domain/lifecycle"
)

// Rental pedido de alquiler. Productos y datos de entrega son una copia tomada
// al crear el pedido: editar el producto o el usuario después no lo altera.
type Rental struct {
	ID                   string
	UserID               string
	Items                []RentalItem
	UserDetails          UserDetails
	State                lifecycle.State
	DeliveryDate         time.Time
	TotalMonthlyRent     decimal.Decimal
	TotalSecurityDeposit decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// Owner datos vivos del usuario (solo en listados de admin).
	Owner *RentalOwner
}

// RentalItem línea congelada al momento de la reserva.
type RentalItem struct {
	ProductID              string
	ProductName            string
	ProductImage           string
	Tenure                 int
	RentAtTimeOfBooking    decimal.Decimal
	DepositAtTimeOfBooking decimal.Decimal
}

// UserDetails datos de contacto y entrega copiados en el pedido.
type UserDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// RentalOwner nombre y email actuales del dueño del pedido.
type RentalOwner struct {
	Name  string
	Email string
}

// OwnedBy indica si el pedido pertenece al usuario.
func (r *Rental) OwnedBy(userID string) bool {
	return r != nil && r.UserID == userID
}

// Totals suma renta mensual y depósito de las líneas.
func Totals(items []RentalItem) (rent, deposit decimal.Decimal) {
	rent, deposit = decimal.Zero, decimal.Zero
	for _, it := range items {
		rent = rent.Add(it.RentAtTimeOfBooking)
		deposit = deposit.Add(it.DepositAtTimeOfBooking)
	}
	return rent, deposit
}
