package testdoubles

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/lifecycle"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

// Store estado en memoria compartido por los repositorios.
type Store struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	products map[string]*entity.Product
	carts    map[string]*entity.Cart
	rentals  map[string]*entity.Rental
	now      func() time.Time
}

// NewStore crea un Store vacío. El reloj avanza un segundo en cada lectura
// para que created_at/added_at sean estrictamente crecientes.
func NewStore() *Store {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	return &Store{
		users:    map[string]*entity.User{},
		products: map[string]*entity.Product{},
		carts:    map[string]*entity.Cart{},
		rentals:  map[string]*entity.Rental{},
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

// Users repositorio de usuarios sobre el Store.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Products repositorio de productos sobre el Store.
func (s *Store) Products() repository.ProductRepository { return productRepo{s} }

// Carts repositorio de carritos sobre el Store.
func (s *Store) Carts() repository.CartRepository { return cartRepo{s} }

// Rentals repositorio de pedidos sobre el Store.
func (s *Store) Rentals() repository.RentalRepository { return rentalRepo{s} }

// PutProduct inserta o reemplaza un producto (atajo para preparar pruebas).
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.TenureOptions = slices.Clone(p.TenureOptions)
	s.products[p.ID] = &cp
}

// PutUser inserta o reemplaza un usuario.
func (s *Store) PutUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// RentalCount número de pedidos guardados.
func (s *Store) RentalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rentals)
}

type snapshot struct {
	users    map[string]*entity.User
	products map[string]*entity.Product
	carts    map[string]*entity.Cart
	rentals  map[string]*entity.Rental
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	carts := make(map[string]*entity.Cart, len(s.carts))
	for k, c := range s.carts {
		cp := *c
		cp.Items = slices.Clone(c.Items)
		carts[k] = &cp
	}
	rentals := make(map[string]*entity.Rental, len(s.rentals))
	for k, r := range s.rentals {
		rentals[k] = cloneRental(r)
	}
	return snapshot{
		users:    maps.Clone(s.users),
		products: maps.Clone(s.products),
		carts:    carts,
		rentals:  rentals,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.products, s.carts, s.rentals = snap.users, snap.products, snap.carts, snap.rentals
}

// TxRunner ejecuta fn sobre el Store y deshace los cambios si fn falla.
type TxRunner struct {
	Store *Store
}

// RunCheckout implementa rental.TxRunner.
func (t TxRunner) RunCheckout(ctx context.Context, fn func(
	products repository.ProductRepository,
	rentals repository.RentalRepository,
	carts repository.CartRepository,
) error) error {
	snap := t.Store.snapshot()
	if err := fn(t.Store.Products(), t.Store.Rentals(), t.Store.Carts()); err != nil {
		t.Store.restore(snap)
		return err
	}
	return nil
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.PutProduct(p)
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		cp := *p
		cp.TenureOptions = slices.Clone(p.TenureOptions)
		return &cp, nil
	}
	return nil, nil
}

func (r productRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out[id] = &cp
		}
	}
	return out, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	_, ok := r.s.products[p.ID]
	r.s.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	r.s.PutProduct(p)
	return nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *entity.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	for _, c := range r.s.carts {
		c.Items = slices.DeleteFunc(c.Items, func(it entity.CartItem) bool { return it.ProductID == id })
	}
	return nil
}

type cartRepo struct{ s *Store }

func (r cartRepo) AddItem(_ context.Context, userID, productID string, tenure int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	c, ok := r.s.carts[userID]
	if !ok {
		c = &entity.Cart{UserID: userID, CreatedAt: now}
		r.s.carts[userID] = c
	}
	for _, it := range c.Items {
		if it.ProductID == productID {
			return domain.ErrDuplicateItem
		}
	}
	c.Items = append(c.Items, entity.CartItem{ProductID: productID, Tenure: tenure, AddedAt: now})
	c.UpdatedAt = now
	return nil
}

func (r cartRepo) RemoveItem(_ context.Context, userID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[userID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Items = slices.DeleteFunc(c.Items, func(it entity.CartItem) bool { return it.ProductID == productID })
	return nil
}

func (r cartRepo) Get(_ context.Context, userID string) (*entity.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.carts[userID]
	if !ok {
		return nil, nil
	}
	out := *c
	out.Items = make([]entity.CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if p, ok := r.s.products[it.ProductID]; ok {
			cp := *p
			it.Product = &cp
		}
		out.Items = append(out.Items, it)
	}
	return &out, nil
}

func (r cartRepo) Clear(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.carts[userID]; ok {
		c.Items = nil
	}
	return nil
}

type rentalRepo struct{ s *Store }

func (r rentalRepo) Create(_ context.Context, rental *entity.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rentals[rental.ID] = cloneRental(rental)
	return nil
}

func (r rentalRepo) GetByID(_ context.Context, id string) (*entity.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rental, ok := r.s.rentals[id]; ok {
		return cloneRental(rental), nil
	}
	return nil, nil
}

func (r rentalRepo) UpdateState(_ context.Context, rental *entity.Rental, prev lifecycle.State) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.rentals[rental.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if !stored.State.Equal(prev) {
		return repository.ErrStateChanged
	}
	stored.State = rental.State
	if rental.State.PickupDate != nil {
		d := *rental.State.PickupDate
		stored.State.PickupDate = &d
	}
	stored.UpdatedAt = rental.UpdatedAt
	return nil
}

func (r rentalRepo) ListByUser(_ context.Context, userID string) ([]*entity.Rental, error) {
	return r.list(func(x *entity.Rental) bool { return x.UserID == userID }, false), nil
}

func (r rentalRepo) ListAll(_ context.Context) ([]*entity.Rental, error) {
	return r.list(func(*entity.Rental) bool { return true }, true), nil
}

func (r rentalRepo) list(keep func(*entity.Rental) bool, withOwner bool) []*entity.Rental {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Rental, 0, len(r.s.rentals))
	for _, x := range r.s.rentals {
		if !keep(x) {
			continue
		}
		cp := cloneRental(x)
		if withOwner {
			if u, ok := r.s.users[x.UserID]; ok {
				cp.Owner = &entity.RentalOwner{Name: u.Name, Email: u.Email}
			}
		}
		out = append(out, cp)
	}
	slices.SortFunc(out, func(a, b *entity.Rental) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (r rentalRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rentals[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.rentals, id)
	return nil
}

func cloneRental(r *entity.Rental) *entity.Rental {
	cp := *r
	cp.Items = slices.Clone(r.Items)
	if r.State.PickupDate != nil {
		d := *r.State.PickupDate
		cp.State.PickupDate = &d
	}
	if r.Owner != nil {
		o := *r.Owner
		cp.Owner = &o
	}
	return &cp
}
