package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo carritos en las tablas carts + cart_items. La PK (user_id, product_id)
// de cart_items garantiza una línea por producto.
type CartRepo struct {
	q Querier
}

// NewCartRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// AddItem crea el carrito si falta e inserta la línea con ON CONFLICT DO NOTHING:
// de dos altas concurrentes del mismo producto solo una inserta.
func (r *CartRepo) AddItem(ctx context.Context, userID, productID string, tenure int) error {
	if !validID(userID) || !validID(productID) {
		return domain.ErrNotFound
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
		}
		return fmt.Errorf("ensure cart: %w", err)
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, tenure) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO NOTHING`, userID, productID, tenure)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicateItem
	}
	return r.touch(ctx, userID)
}

// RemoveItem quita la línea. ErrNotFound si el usuario no tiene carrito.
func (r *CartRepo) RemoveItem(ctx context.Context, userID, productID string) error {
	ok, err := r.exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	if validID(productID) {
		if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
	}
	return r.touch(ctx, userID)
}

// Get devuelve el carrito con los productos en orden de inserción.
func (r *CartRepo) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	if !validID(userID) {
		return nil, nil
	}
	var c entity.Cart
	err := r.q.QueryRow(ctx, `SELECT user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	query := `
		SELECT ci.tenure, ci.added_at,
			p.id, p.name, p.category, p.sub_category, p.description, p.image, p.monthly_rent,
			p.security_deposit, p.tenure_options, p.stock, p.is_available, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.position`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()
	c.Items = make([]entity.CartItem, 0)
	for rows.Next() {
		var it entity.CartItem
		var p entity.Product
		if err := rows.Scan(
			&it.Tenure, &it.AddedAt,
			&p.ID, &p.Name, &p.Category, &p.SubCategory, &p.Description, &p.Image, &p.MonthlyRent,
			&p.SecurityDeposit, &p.TenureOptions, &p.Stock, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.ProductID = p.ID
		it.Product = &p
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Clear vacía el carrito y conserva la fila de carts.
func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	if !validID(userID) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return r.touch(ctx, userID)
}

func (r *CartRepo) exists(ctx context.Context, userID string) (bool, error) {
	if !validID(userID) {
		return false, nil
	}
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM carts WHERE user_id = $1)`, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("cart exists: %w", err)
	}
	return ok, nil
}

func (r *CartRepo) touch(ctx context.Context, userID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
