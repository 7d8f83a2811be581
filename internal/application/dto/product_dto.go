package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (admin).
type CreateProductRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Category        string          `json:"category" validate:"required,oneof=Furniture Appliances"`
	SubCategory     string          `json:"subCategory" validate:"omitempty,max=100"`
	Description     string          `json:"description"`
	Image           string          `json:"image" validate:"required"`
	MonthlyRent     decimal.Decimal `json:"monthlyRent"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	TenureOptions   []int           `json:"tenureOptions" validate:"dive,gt=0"`
	Stock           int             `json:"stock" validate:"min=0"`
	IsAvailable     *bool           `json:"isAvailable"` // nil = true
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes.
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category        *string          `json:"category" validate:"omitempty,oneof=Furniture Appliances"`
	SubCategory     *string          `json:"subCategory" validate:"omitempty,max=100"`
	Description     *string          `json:"description"`
	Image           *string          `json:"image" validate:"omitempty,min=1"`
	MonthlyRent     *decimal.Decimal `json:"monthlyRent"`
	SecurityDeposit *decimal.Decimal `json:"securityDeposit"`
	TenureOptions   []int            `json:"tenureOptions" validate:"omitempty,dive,gt=0"`
	Stock           *int             `json:"stock" validate:"omitempty,min=0"`
	IsAvailable     *bool            `json:"isAvailable"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	SubCategory     string          `json:"subCategory"`
	Description     string          `json:"description"`
	Image           string          `json:"image"`
	MonthlyRent     decimal.Decimal `json:"monthlyRent"`
	SecurityDeposit decimal.Decimal `json:"securityDeposit"`
	TenureOptions   []int           `json:"tenureOptions"`
	Stock           int             `json:"stock"`
	IsAvailable     bool            `json:"isAvailable"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
