package repository

import (
	"context"

	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
)

// CartRepository define el puerto de persistencia del carrito.
type CartRepository interface {
	// AddItem crea el carrito si no existe e inserta la línea en una sola escritura
	// condicional. Devuelve domain.ErrDuplicateItem si el producto ya estaba.
	AddItem(ctx context.Context, userID, productID string, tenure int) error
	// RemoveItem devuelve domain.ErrNotFound si el usuario no tiene carrito.
	RemoveItem(ctx context.Context, userID, productID string) error
	// Get devuelve el carrito con los productos resueltos, o (nil, nil) si no existe.
	Get(ctx context.Context, userID string) (*entity.Cart, error)
	// Clear elimina las líneas y conserva el carrito.
	Clear(ctx context.Context, userID string) error
}
