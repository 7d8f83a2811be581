package rental

import (
	"context"

	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

// TxRunner ejecuta el checkout en una transacción: los repos que recibe fn
// están atados a ella. Si fn devuelve error se hace rollback.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		products repository.ProductRepository,
		rentals repository.RentalRepository,
		carts repository.CartRepository,
	) error) error
}
