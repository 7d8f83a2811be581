package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	"github.com/jhoicas/rentmojo-api/internal/domain"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	"github.com/jhoicas/rentmojo-api/internal/domain/repository"
	"github.com/jhoicas/rentmojo-api/pkg/jwt"
)

const testSecret = "test-secret"

// memUserRepo repositorio en memoria, indexado por email.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// mockUserRepo para caminos de error de infraestructura.
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func newUC(repo repository.UserRepository) *AuthUseCase {
	return NewAuthUseCase(repo, JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"}, validation.New())
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "s3cret!",
		Phone:    "9999999999",
		Address:  "12 MG Road",
	}
}

func TestRegisterThenLogin_SameUser(t *testing.T) {
	ctx := context.Background()
	uc := newUC(newMemUserRepo())

	reg, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, entity.RoleUser, reg.User.Role)
	assert.Equal(t, "asha@example.com", reg.User.Email)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "asha@example.com", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.Equal(t, entity.RoleUser, login.User.Role)

	userID, role, err := jwt.Parse(testSecret, login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userID)
	assert.Equal(t, entity.RoleUser, role)
}

func TestRegister_StoresBcryptHash(t *testing.T) {
	repo := newMemUserRepo()
	uc := newUC(repo)
	_, err := uc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	u, _ := repo.GetByEmail(context.Background(), "asha@example.com")
	require.NotNil(t, u)
	assert.NotEqual(t, "s3cret!", u.PasswordHash)
	assert.Contains(t, u.PasswordHash, "$2a$")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc := newUC(newMemUserRepo())
	_, err := uc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	in := validRegister()
	in.Email = "  ASHA@example.com "
	_, err = uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_MissingField(t *testing.T) {
	uc := newUC(newMemUserRepo())
	in := validRegister()
	in.Phone = ""
	_, err := uc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_WrongPasswordAndUnknownEmail(t *testing.T) {
	ctx := context.Background()
	uc := newUC(newMemUserRepo())
	_, err := uc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "asha@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "s3cret!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := new(mockUserRepo)
	boom := errors.New("db down")
	repo.On("GetByEmail", mock.Anything, "asha@example.com").Return(nil, boom).Once()

	_, err := newUC(repo).Login(context.Background(), dto.LoginRequest{Email: "asha@example.com", Password: "x"})
	assert.ErrorIs(t, err, boom)
	repo.AssertExpectations(t)
}
