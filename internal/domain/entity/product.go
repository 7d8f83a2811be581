package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Categorías del catálogo.
const (
	CategoryFurniture  = "Furniture"
	CategoryAppliances = "Appliances"
)

// DefaultTenure plazo (meses) usado cuando el cliente no elige uno.
const DefaultTenure = 3

// Product representa un artículo alquilable del catálogo.
// Stock es informativo: un alquiler no lo descuenta.
type Product struct {
	ID              string
	Name            string
	Category        string // Furniture | Appliances
	SubCategory     string // ej. Sofa, Fridge
	Description     string
	Image           string
	MonthlyRent     decimal.Decimal
	SecurityDeposit decimal.Decimal
	TenureOptions   []int // meses permitidos, ej. [3, 6, 12]
	Stock           int
	IsAvailable     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidCategory indica si la categoría pertenece al catálogo.
func ValidCategory(c string) bool {
	return c == CategoryFurniture || c == CategoryAppliances
}

// AllowsTenure indica si el plazo está entre las opciones del producto.
// Un producto sin opciones acepta cualquier plazo positivo.
func (p *Product) AllowsTenure(months int) bool {
	if months <= 0 {
		return false
	}
	if len(p.TenureOptions) == 0 {
		return true
	}
	return slices.Contains(p.TenureOptions, months)
}
