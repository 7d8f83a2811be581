package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/ports"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
)

const (
	productListKeyPrefix = "catalog:products:list:"
	productItemKeyPrefix = "catalog:products:item:"
)

// ProductUseCase casos de uso del catálogo. Lecturas pasan por la caché; escrituras la invalidan.
type ProductUseCase struct {
	repo     repository.ProductRepository
	cache    ports.Cache
	ttl      time.Duration
	validate *validation.Validator
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso. cache puede ser un adaptador no-op.
func NewProductUseCase(repo repository.ProductRepository, cache ports.Cache, ttl time.Duration, v *validation.Validator) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache, ttl: ttl, validate: v, now: time.Now}
}

// List lista el catálogo, opcionalmente filtrado por categoría.
func (uc *ProductUseCase) List(ctx context.Context, category string) ([]dto.ProductResponse, error) {
	if category != "" && !entity.ValidCategory(category) {
		return nil, fmt.Errorf("%w: categoría desconocida %q", domain.ErrInvalidInput, category)
	}
	key := productListKeyPrefix + category
	var cached []dto.ProductResponse
	if ok, _ := uc.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	list, err := uc.repo.List(ctx, repository.ProductFilter{Category: category})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToProductResponse(p))
	}
	_ = uc.cache.Set(ctx, key, items, uc.ttl)
	return items, nil
}

// GetByID obtiene un producto. Devuelve ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	key := productItemKeyPrefix + id
	var cached dto.ProductResponse
	if ok, _ := uc.cache.Get(ctx, key, &cached); ok {
		return &cached, nil
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := ToProductResponse(p)
	_ = uc.cache.Set(ctx, key, out, uc.ttl)
	return &out, nil
}

// Create crea un producto (admin).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	if !in.MonthlyRent.IsPositive() {
		return nil, fmt.Errorf("%w: monthlyRent debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if in.SecurityDeposit.IsNegative() {
		return nil, fmt.Errorf("%w: securityDeposit no puede ser negativo", domain.ErrInvalidInput)
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	now := uc.now().UTC()
	p := &entity.Product{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Category:        in.Category,
		SubCategory:     in.SubCategory,
		Description:     in.Description,
		Image:           in.Image,
		MonthlyRent:     in.MonthlyRent,
		SecurityDeposit: in.SecurityDeposit,
		TenureOptions:   normalizeTenures(in.TenureOptions),
		Stock:           in.Stock,
		IsAvailable:     available,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.ID)
	out := ToProductResponse(p)
	return &out, nil
}

// Update aplica una actualización parcial (admin). Los alquileres existentes no cambian:
// guardan su propia copia del precio.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.SubCategory != nil {
		p.SubCategory = *in.SubCategory
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.MonthlyRent != nil {
		if !in.MonthlyRent.IsPositive() {
			return nil, fmt.Errorf("%w: monthlyRent debe ser mayor que 0", domain.ErrInvalidInput)
		}
		p.MonthlyRent = *in.MonthlyRent
	}
	if in.SecurityDeposit != nil {
		if in.SecurityDeposit.IsNegative() {
			return nil, fmt.Errorf("%w: securityDeposit no puede ser negativo", domain.ErrInvalidInput)
		}
		p.SecurityDeposit = *in.SecurityDeposit
	}
	if in.TenureOptions != nil {
		p.TenureOptions = normalizeTenures(in.TenureOptions)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	p.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.ID)
	out := ToProductResponse(p)
	return &out, nil
}

// Delete elimina un producto (admin). Devuelve ErrNotFound si no existe.
// Las líneas de carrito que lo referencian se eliminan en cascada; los alquileres conservan su copia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, id string) {
	_ = uc.cache.Invalidate(ctx,
		productItemKeyPrefix+id,
		productListKeyPrefix,
		productListKeyPrefix+entity.CategoryFurniture,
		productListKeyPrefix+entity.CategoryAppliances,
	)
}

// normalizeTenures ordena y quita duplicados.
func normalizeTenures(in []int) []int {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

// ToProductResponse convierte la entidad a DTO.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	tenures := p.TenureOptions
	if tenures == nil {
		tenures = []int{}
	}
	return dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Category:        p.Category,
		SubCategory:     p.SubCategory,
		Description:     p.Description,
		Image:           p.Image,
		MonthlyRent:     p.MonthlyRent,
		SecurityDeposit: p.SecurityDeposit,
		TenureOptions:   tenures,
		Stock:           p.Stock,
		IsAvailable:     p.IsAvailable,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
