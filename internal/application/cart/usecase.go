// Package cart implementa el carrito de un usuario: una línea por producto,
// en orden de inserción, con el producto resuelto al leer.
package cart

import (
	"context"
	"fmt"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/usecase"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

// CartUseCase casos de uso del carrito.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	validate *validation.Validator
}

// NewCartUseCase construye el caso de uso.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository, v *validation.Validator) *CartUseCase {
	return &CartUseCase{carts: carts, products: products, validate: v}
}

// Get devuelve el carrito del usuario; {"items": []} si todavía no tiene uno.
func (uc *CartUseCase) Get(ctx context.Context, actor entity.Actor, userID string) (*dto.CartResponse, error) {
	if !actor.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	return uc.load(ctx, userID)
}

// AddItem agrega un producto con el plazo elegido (3 meses si no se indica).
// Devuelve ErrDuplicateItem si el producto ya está en el carrito.
func (uc *CartUseCase) AddItem(ctx context.Context, actor entity.Actor, in dto.AddToCartRequest) (*dto.CartResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	if !actor.CanAccess(in.UserID) {
		return nil, domain.ErrForbidden
	}
	tenure := in.Tenure
	if tenure == 0 {
		tenure = entity.DefaultTenure
	}
	p, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !p.AllowsTenure(tenure) {
		return nil, fmt.Errorf("%w: plazo de %d meses no disponible para %s", domain.ErrInvalidInput, tenure, p.Name)
	}
	if err := uc.carts.AddItem(ctx, in.UserID, in.ProductID, tenure); err != nil {
		return nil, err
	}
	return uc.load(ctx, in.UserID)
}

// RemoveItem quita el producto del carrito. Quitar un producto ausente no es error;
// un usuario sin carrito sí (ErrNotFound).
func (uc *CartUseCase) RemoveItem(ctx context.Context, actor entity.Actor, userID, productID string) (*dto.CartResponse, error) {
	if !actor.CanAccess(userID) {
		return nil, domain.ErrForbidden
	}
	if err := uc.carts.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return uc.load(ctx, userID)
}

func (uc *CartUseCase) load(ctx context.Context, userID string) (*dto.CartResponse, error) {
	c, err := uc.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(userID, c), nil
}

// ToCartResponse convierte el carrito; un carrito nil produce items vacío, nunca null.
func ToCartResponse(userID string, c *entity.Cart) *dto.CartResponse {
	out := &dto.CartResponse{UserID: userID, Items: []dto.CartItemResponse{}}
	if c == nil {
		return out
	}
	for _, it := range c.Items {
		item := dto.CartItemResponse{Tenure: it.Tenure, AddedAt: it.AddedAt}
		if it.Product != nil {
			p := usecase.ToProductResponse(it.Product)
			item.Product = &p
		}
		out.Items = append(out.Items, item)
	}
	return out
}
