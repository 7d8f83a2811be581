package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	"github.com/jhoicas/rentmojo-api/internal/domain"
)

func TestStruct_Valid(t *testing.T) {
	v := validation.New()
	err := v.Struct(dto.LoginRequest{Email: "a@b.com", Password: "x"})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	v := validation.New()
	err := v.Struct(dto.RegisterRequest{Name: "Ana", Email: "no-es-email", Password: "secret1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "field email must be a valid email")
	assert.Contains(t, err.Error(), "field phone is a required field")
	assert.Contains(t, err.Error(), "field address is a required field")
}

func TestStruct_NestedPath(t *testing.T) {
	v := validation.New()
	err := v.Struct(dto.CreateRentalRequest{
		Products:     []dto.RentalLineRequest{{Product: "p1"}},
		UserDetails:  dto.UserDetailsDTO{Email: "a@b.com", Phone: "1", Address: "x"},
		DeliveryDate: "2026-01-01",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "userDetails.name")
}

func TestStruct_EmptyProducts(t *testing.T) {
	v := validation.New()
	err := v.Struct(dto.CreateRentalRequest{
		UserDetails:  dto.UserDetailsDTO{Name: "A", Email: "a@b.com", Phone: "1", Address: "x"},
		DeliveryDate: "2026-01-01",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "products")
}
