package rental

import (
	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
)

// ToRentalResponse convierte la entidad a DTO. User.Name/Email solo si Owner está cargado.
func ToRentalResponse(r *entity.Rental) dto.RentalResponse {
	items := make([]dto.RentalItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RentalItemResponse{
			Product:                dto.RentalProductResponse{ID: it.ProductID, Name: it.ProductName, Image: it.ProductImage},
			Tenure:                 it.Tenure,
			RentAtTimeOfBooking:    it.RentAtTimeOfBooking,
			DepositAtTimeOfBooking: it.DepositAtTimeOfBooking,
		})
	}
	user := dto.RentalUserResponse{ID: r.UserID}
	if r.Owner != nil {
		user.Name = r.Owner.Name
		user.Email = r.Owner.Email
	}
	return dto.RentalResponse{
		ID:       r.ID,
		User:     user,
		Products: items,
		UserDetails: dto.UserDetailsDTO{
			Name:    r.UserDetails.Name,
			Email:   r.UserDetails.Email,
			Phone:   r.UserDetails.Phone,
			Address: r.UserDetails.Address,
		},
		Status:               string(r.State.Status),
		PickupStatus:         string(r.State.Pickup),
		MaintenanceStatus:    string(r.State.Maintenance),
		DeliveryDate:         r.DeliveryDate,
		PickupDate:           r.State.PickupDate,
		TotalMonthlyRent:     r.TotalMonthlyRent,
		TotalSecurityDeposit: r.TotalSecurityDeposit,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func toRentalResponses(list []*entity.Rental) []dto.RentalResponse {
	out := make([]dto.RentalResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToRentalResponse(r))
	}
	return out
}
