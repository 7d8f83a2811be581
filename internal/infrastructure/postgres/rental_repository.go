package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/lifecycle"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

var _ repository.RentalRepository = (*RentalRepo)(nil)

const rentalColumns = `r.id, r.user_id, r.status, r.pickup_status, r.maintenance_status, r.delivery_date,
	r.pickup_date, r.user_name, r.user_email, r.user_phone, r.user_address, r.total_monthly_rent,
	r.total_security_deposit, r.created_at, r.updated_at`

// RentalRepo pedidos en rentals + rental_items (copia de cada línea al reservar).
type RentalRepo struct {
	q Querier
}

// NewRentalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRentalRepository(q Querier) *RentalRepo {
	return &RentalRepo{q: q}
}

// Create inserta el pedido y sus líneas. Debe ejecutarse dentro de una transacción
// (TxRunner.RunCheckout) para que pedido y líneas queden juntos.
func (r *RentalRepo) Create(ctx context.Context, rental *entity.Rental) error {
	query := `
		INSERT INTO rentals (id, user_id, status, pickup_status, maintenance_status, delivery_date, pickup_date,
			user_name, user_email, user_phone, user_address, total_monthly_rent, total_security_deposit,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	s := rental.State
	_, err := r.q.Exec(ctx, query,
		rental.ID, rental.UserID, s.Status, s.Pickup, s.Maintenance, rental.DeliveryDate, s.PickupDate,
		rental.UserDetails.Name, rental.UserDetails.Email, rental.UserDetails.Phone, rental.UserDetails.Address,
		rental.TotalMonthlyRent, rental.TotalSecurityDeposit, rental.CreatedAt, rental.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: usuario %s", domain.ErrNotFound, rental.UserID)
		}
		return fmt.Errorf("insert rental: %w", err)
	}
	itemQuery := `
		INSERT INTO rental_items (rental_id, position, product_id, product_name, product_image, tenure,
			rent_at_booking, deposit_at_booking)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, it := range rental.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			rental.ID, i, it.ProductID, it.ProductName, it.ProductImage, it.Tenure,
			it.RentAtTimeOfBooking, it.DepositAtTimeOfBooking,
		); err != nil {
			return fmt.Errorf("insert rental item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus líneas.
func (r *RentalRepo) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.id = $1`
	rental, err := scanRental(r.q.QueryRow(ctx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rental: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Rental{rental}); err != nil {
		return nil, err
	}
	return rental, nil
}

// UpdateState guarda los tres ejes del ciclo de vida y pickup_date como compare-and-set:
// el WHERE exige que la fila siga en prev.
func (r *RentalRepo) UpdateState(ctx context.Context, rental *entity.Rental, prev lifecycle.State) error {
	s := rental.State
	tag, err := r.q.Exec(ctx, `
		UPDATE rentals SET status = $2, pickup_status = $3, maintenance_status = $4, pickup_date = $5,
			updated_at = $6
		WHERE id = $1
			AND status = $7 AND pickup_status = $8 AND maintenance_status = $9
			AND pickup_date IS NOT DISTINCT FROM $10::timestamptz`,
		rental.ID, s.Status, s.Pickup, s.Maintenance, s.PickupDate, rental.UpdatedAt,
		prev.Status, prev.Pickup, prev.Maintenance, prev.PickupDate,
	)
	if err != nil {
		return fmt.Errorf("update rental state: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rentals WHERE id = $1)`, rental.ID).Scan(&exists); err != nil {
		return fmt.Errorf("rental exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return repository.ErrStateChanged
}

// ListByUser pedidos del usuario, más recientes primero.
func (r *RentalRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Rental, error) {
	if !validID(userID) {
		return []*entity.Rental{}, nil
	}
	query := `SELECT ` + rentalColumns + ` FROM rentals r WHERE r.user_id = $1 ORDER BY r.created_at DESC, r.id`
	return r.list(ctx, query, false, userID)
}

// ListAll todos los pedidos con nombre y email actuales del dueño.
func (r *RentalRepo) ListAll(ctx context.Context) ([]*entity.Rental, error) {
	query := `
		SELECT ` + rentalColumns + `, u.name, u.email
		FROM rentals r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC, r.id`
	return r.list(ctx, query, true)
}

// Delete borra el pedido; las líneas caen en cascada.
func (r *RentalRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete rental: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RentalRepo) list(ctx context.Context, query string, withOwner bool, args ...any) ([]*entity.Rental, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	list := make([]*entity.Rental, 0)
	for rows.Next() {
		rental, err := scanRental(rows, withOwner)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		list = append(list, rental)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga las líneas de todos los pedidos en una sola consulta.
func (r *RentalRepo) loadItems(ctx context.Context, list []*entity.Rental) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	byID := make(map[string]*entity.Rental, len(list))
	for _, rental := range list {
		ids = append(ids, rental.ID)
		byID[rental.ID] = rental
		rental.Items = make([]entity.RentalItem, 0)
	}
	rows, err := r.q.Query(ctx, `
		SELECT rental_id, product_id, product_name, product_image, tenure, rent_at_booking, deposit_at_booking
		FROM rental_items
		WHERE rental_id = ANY($1)
		ORDER BY rental_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list rental items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rentalID string
		var it entity.RentalItem
		if err := rows.Scan(&rentalID, &it.ProductID, &it.ProductName, &it.ProductImage, &it.Tenure,
			&it.RentAtTimeOfBooking, &it.DepositAtTimeOfBooking); err != nil {
			return fmt.Errorf("scan rental item: %w", err)
		}
		if rental, ok := byID[rentalID]; ok {
			rental.Items = append(rental.Items, it)
		}
	}
	return rows.Err()
}

func scanRental(row pgx.Row, withOwner bool) (*entity.Rental, error) {
	var (
		rental                      entity.Rental
		status, pickup, maintenance string
		ownerName, ownerEmail       string
	)
	dest := []any{
		&rental.ID, &rental.UserID, &status, &pickup, &maintenance, &rental.DeliveryDate,
		&rental.State.PickupDate, &rental.UserDetails.Name, &rental.UserDetails.Email,
		&rental.UserDetails.Phone, &rental.UserDetails.Address, &rental.TotalMonthlyRent,
		&rental.TotalSecurityDeposit, &rental.CreatedAt, &rental.UpdatedAt,
	}
	if withOwner {
		dest = append(dest, &ownerName, &ownerEmail)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	rental.State.Status = lifecycle.Status(status)
	rental.State.Pickup = lifecycle.PickupStatus(pickup)
	rental.State.Maintenance = lifecycle.MaintenanceStatus(maintenance)
	if withOwner {
		rental.Owner = &entity.RentalOwner{Name: ownerName, Email: ownerEmail}
	}
	return &rental, nil
}
