package dto

import "time"

// AddToCartRequest entrada de POST /api/cart/add. Tenure 0 = plazo por defecto.
type AddToCartRequest struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Tenure    int    `json:"tenure" validate:"min=0"`
}

// CartResponse carrito con productos resueltos. Items nunca es null.
type CartResponse struct {
	UserID string             `json:"userId,omitempty"`
	Items  []CartItemResponse `json:"items"`
}

// CartItemResponse línea del carrito. Product es null si el producto fue borrado.
type CartItemResponse struct {
	Product *ProductResponse `json:"product"`
	Tenure  int              `json:"tenure"`
	AddedAt time.Time        `json:"addedAt"`
}
