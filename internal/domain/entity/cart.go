package entity

import "time"

// Cart carrito de un usuario (uno por usuario). Se crea en el primer AddItem
// y se vacía (no se borra) al confirmar un alquiler.
type Cart struct {
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem línea del carrito con el producto resuelto (join) para mostrar.
type CartItem struct {
	ProductID string
	Tenure    int
	AddedAt   time.Time
	Product   *Product // nil si el producto ya no existe
}

// Len número de líneas.
func (c *Cart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}
