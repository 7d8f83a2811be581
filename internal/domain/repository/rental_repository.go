package repository

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/lifecycle"
)

// ErrStateChanged el pedido cambió entre la lectura y la escritura. Envuelve domain.ErrConflict.
var ErrStateChanged = fmt.Errorf("%w: el pedido cambió desde la lectura", domain.ErrConflict)

// RentalRepository define el puerto de persistencia de pedidos de alquiler.
type RentalRepository interface {
	// Create persiste el pedido con sus líneas.
	Create(ctx context.Context, rental *entity.Rental) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Rental, error)
	// UpdateState guarda los tres ejes del ciclo de vida y pickup_date solo si el
	// estado guardado sigue siendo prev. Devuelve ErrStateChanged si otro escritor
	// lo cambió y domain.ErrNotFound si el pedido ya no existe.
	UpdateState(ctx context.Context, rental *entity.Rental, prev lifecycle.State) error
	// ListByUser pedidos de un usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]*entity.Rental, error)
	// ListAll todos los pedidos con Owner cargado, más recientes primero.
	ListAll(ctx context.Context) ([]*entity.Rental, error)
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
