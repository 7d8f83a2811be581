package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/rentmojo-api/internal/application/analytics"
	"github.com/jhoicas/rentmojo-api/internal/application/auth"
	"github.com/jhoicas/rentmojo-api/internal/application/cart"
	"github.com/jhoicas/rentmojo-api/internal/application/dto"
	"github.com/jhoicas/rentmojo-api/internal/application/rental"
	"github.com/jhoicas/rentmojo-api/internal/application/usecase"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
	apphttp "github.com/jhoicas/rentmojo-api/internal/interfaces/http"
	"github.com/jhoicas/rentmojo-api/internal/testutil/testdoubles"
	pkgjwt "github.com/jhoicas/rentmojo-api/pkg/jwt"
)

const adminID = "00000000-0000-0000-0000-0000000000ad"

type apiFixture struct {
	app        *fiber.App
	store      *testdoubles.Store
	events     *testdoubles.EventSpy
	adminToken string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := testdoubles.NewStore()
	store.PutUser(&entity.User{ID: adminID, Name: "Admin", Email: "admin@rentmojo.test", Role: entity.RoleAdmin})
	store.PutProduct(&entity.Product{
		ID: "p-sofa", Name: "Sofa 3 puestos", Category: entity.CategoryFurniture, Image: "sofa.jpg",
		MonthlyRent: decimal.NewFromInt(499), SecurityDeposit: decimal.NewFromInt(1000),
		TenureOptions: []int{3, 6, 12}, IsAvailable: true,
	})
	store.PutProduct(&entity.Product{
		ID: "p-fridge", Name: "Nevera", Category: entity.CategoryAppliances, Image: "fridge.jpg",
		MonthlyRent: decimal.NewFromInt(799), SecurityDeposit: decimal.NewFromInt(2000),
		TenureOptions: []int{6, 12}, IsAvailable: true,
	})

	v := validation.New()
	events := &testdoubles.EventSpy{}
	log := zerolog.Nop()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}, v),
		ProductUC:   usecase.NewProductUseCase(store.Products(), testdoubles.NewMemCache(), time.Minute, v),
		CartUC:      cart.NewCartUseCase(store.Carts(), store.Products(), v),
		RentalUC:    rental.NewRentalUseCase(store.Rentals(), testdoubles.TxRunner{Store: store}, events, testdoubles.StubPDF{}, v),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Analytics()),
		JWTSecret:   testJWTSecret,
		Log:         log,
	})

	adminToken, err := pkgjwt.Generate(testJWTSecret, adminID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	return &apiFixture{app: app, store: store, events: events, adminToken: adminToken}
}

// call hace la petición con x-auth-token (si token != "") y decodifica el JSON en out (si out != nil).
func (f *apiFixture) call(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, path)
	}
	return resp.StatusCode
}

func (f *apiFixture) register(t *testing.T, name, email string) dto.AuthResponse {
	t.Helper()
	var out dto.AuthResponse
	status := f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: name, Email: email, Password: "secreto123", Phone: "3001234567", Address: "Calle 1 # 2-3",
	}, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}

func checkoutBody(productID string, tenure int) dto.CreateRentalRequest {
	return dto.CreateRentalRequest{
		Products: []dto.RentalLineRequest{{Product: productID, Tenure: tenure}},
		UserDetails: dto.UserDetailsDTO{
			Name: "Asha", Email: "asha@example.com", Phone: "3001234567", Address: "Calle 1 # 2-3",
		},
		DeliveryDate: "2026-04-01",
	}
}

func TestAPI_RegistroYLogin(t *testing.T) {
	f := newAPI(t)
	reg := f.register(t, "Asha", "Asha@Example.com")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "user", reg.User.Role)
	assert.Equal(t, "asha@example.com", reg.User.Email)

	var login dto.AuthResponse
	status := f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "asha@example.com", Password: "secreto123"}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.Equal(t, "user", login.User.Role)

	var e dto.ErrorResponse
	status = f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Otra", Email: "asha@example.com", Password: "secreto123", Phone: "1", Address: "x",
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "USER_EXISTS", e.Code)

	status = f.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "asha@example.com", Password: "incorrecta"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_CREDENTIALS", e.Code)

	status = f.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "x@example.com", Password: "secreto123"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestAPI_CuerpoInvalido(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{no es json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_BODY")
}

func TestAPI_CatalogoPublicoYEscrituraAdmin(t *testing.T) {
	f := newAPI(t)
	user := f.register(t, "Asha", "asha@example.com")

	var list []dto.ProductResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/products", "", nil, &list))
	assert.Len(t, list, 2)

	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/products?category=Appliances", "", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "p-fridge", list[0].ID)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/products/no-existe", "", nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	newProduct := dto.CreateProductRequest{
		Name: "Lavadora", Category: "Appliances", Image: "washer.jpg",
		MonthlyRent: decimal.NewFromInt(650), SecurityDeposit: decimal.NewFromInt(1500),
		TenureOptions: []int{12, 6},
	}
	assert.Equal(t, http.StatusUnauthorized, f.call(t, http.MethodPost, "/api/products", "", newProduct, nil))
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodPost, "/api/products", user.Token, newProduct, nil))

	var created dto.ProductResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/products", f.adminToken, newProduct, &created))
	assert.Equal(t, []int{6, 12}, created.TenureOptions)
	assert.True(t, created.IsAvailable)

	rent := decimal.NewFromInt(700)
	var updated dto.ProductResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/products/"+created.ID, f.adminToken, dto.UpdateProductRequest{MonthlyRent: &rent}, &updated))
	assert.True(t, rent.Equal(updated.MonthlyRent))

	var msg dto.MessageResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodDelete, "/api/products/"+created.ID, f.adminToken, nil, &msg))
	assert.Equal(t, "Product removed", msg.Message)
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodDelete, "/api/products/"+created.ID, f.adminToken, nil, nil))
}

func TestAPI_CarritoDuplicadoYDueno(t *testing.T) {
	f := newAPI(t)
	asha := f.register(t, "Asha", "asha@example.com")
	ravi := f.register(t, "Ravi", "ravi@example.com")

	var empty dto.CartResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/cart/"+asha.User.ID, asha.Token, nil, &empty))
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	add := dto.AddToCartRequest{UserID: asha.User.ID, ProductID: "p-sofa", Tenure: 6}
	var c dto.CartResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/cart/add", asha.Token, add, &c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 6, c.Items[0].Tenure)
	assert.Equal(t, "Sofa 3 puestos", c.Items[0].Product.Name)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/cart/add", asha.Token, add, &e))
	assert.Equal(t, "DUPLICATE_ITEM", e.Code)

	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/cart/"+asha.User.ID, asha.Token, nil, &c))
	assert.Len(t, c.Items, 1, "el duplicado no cambia el carrito")

	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, "/api/cart/"+asha.User.ID, ravi.Token, nil, nil))
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodPost, "/api/cart/add", ravi.Token, add, nil))
	assert.Equal(t, http.StatusUnauthorized, f.call(t, http.MethodGet, "/api/cart/"+asha.User.ID, "", nil, nil))

	require.Equal(t, http.StatusOK, f.call(t, http.MethodDelete, "/api/cart/remove/"+asha.User.ID+"/p-sofa", asha.Token, nil, &c))
	assert.Empty(t, c.Items)
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodDelete, "/api/cart/remove/"+ravi.User.ID+"/p-sofa", ravi.Token, nil, nil))
}

func TestAPI_CheckoutYCicloDeVida(t *testing.T) {
	f := newAPI(t)
	asha := f.register(t, "Asha", "asha@example.com")
	ravi := f.register(t, "Ravi", "ravi@example.com")

	require.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/api/cart/add", asha.Token,
		dto.AddToCartRequest{UserID: asha.User.ID, ProductID: "p-sofa", Tenure: 6}, nil))

	var r dto.RentalResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/rentals", asha.Token, checkoutBody("p-sofa", 6), &r))
	assert.Equal(t, "active", r.Status)
	assert.Equal(t, "none", r.PickupStatus)
	assert.Equal(t, "none", r.MaintenanceStatus)
	assert.True(t, decimal.NewFromInt(499).Equal(r.TotalMonthlyRent))
	assert.True(t, decimal.NewFromInt(1000).Equal(r.TotalSecurityDeposit))

	var c dto.CartResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/cart/"+asha.User.ID, asha.Token, nil, &c))
	assert.Empty(t, c.Items, "el checkout vacía el carrito")

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/api/rentals", asha.Token, checkoutBody("p-fridge", 3), &e))
	assert.Equal(t, "VALIDATION", e.Code, "plazo no ofrecido por el producto")
	assert.Equal(t, http.StatusUnauthorized, f.call(t, http.MethodPost, "/api/rentals", "", checkoutBody("p-sofa", 6), nil))

	// Mantenimiento y recogida
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodPut, "/api/rentals/maintenance/"+r.ID, ravi.Token, nil, nil))
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/rentals/maintenance/"+r.ID, asha.Token, nil, &r))
	assert.Equal(t, "requested", r.MaintenanceStatus)

	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodPut, "/api/rentals/maintenance-status/"+r.ID, asha.Token,
		dto.UpdateMaintenanceRequest{Status: "resolved"}, nil))
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/rentals/maintenance-status/"+r.ID, f.adminToken,
		dto.UpdateMaintenanceRequest{Status: "resolved"}, &r))
	assert.Equal(t, "resolved", r.MaintenanceStatus)

	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPut, "/api/rentals/schedule-pickup/"+r.ID, asha.Token,
		dto.SchedulePickupRequest{}, nil))
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/rentals/schedule-pickup/"+r.ID, asha.Token,
		dto.SchedulePickupRequest{PickupDate: "2026-09-01"}, &r))
	assert.Equal(t, "scheduled", r.PickupStatus)
	require.NotNil(t, r.PickupDate)

	// Cancelación idempotente; retira la recogida
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodPut, "/api/rentals/cancel/"+r.ID, ravi.Token, nil, nil))
	var cancelled dto.CancelRentalResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/rentals/cancel/"+r.ID, asha.Token, nil, &cancelled))
	assert.Equal(t, "Order cancelled successfully", cancelled.Message)
	assert.Equal(t, "cancelled", cancelled.Rental.Status)
	assert.Equal(t, "none", cancelled.Rental.PickupStatus)
	assert.Nil(t, cancelled.Rental.PickupDate)
	require.Equal(t, http.StatusOK, f.call(t, http.MethodPut, "/api/rentals/cancel/"+r.ID, asha.Token, nil, &cancelled))
	assert.Equal(t, "cancelled", cancelled.Rental.Status)

	assert.Equal(t, http.StatusConflict, f.call(t, http.MethodPut, "/api/rentals/maintenance/"+r.ID, asha.Token, nil, &e))
	assert.Equal(t, "INVALID_TRANSITION", e.Code)

	assert.Equal(t, []string{"rental.created", "rental.maintenance_requested", "rental.maintenance_updated", "rental.pickup_scheduled", "rental.cancelled"},
		f.events.Types())
}

func TestAPI_ListadosContratoYBorrado(t *testing.T) {
	f := newAPI(t)
	asha := f.register(t, "Asha", "asha@example.com")
	ravi := f.register(t, "Ravi", "ravi@example.com")

	var first, second dto.RentalResponse
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/rentals", asha.Token, checkoutBody("p-sofa", 3), &first))
	require.Equal(t, http.StatusCreated, f.call(t, http.MethodPost, "/api/rentals", asha.Token, checkoutBody("p-fridge", 12), &second))

	var mine []dto.RentalResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/rentals/my-orders/"+asha.User.ID, asha.Token, nil, &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "más reciente primero")
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, "/api/rentals/my-orders/"+asha.User.ID, ravi.Token, nil, nil))

	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, "/api/rentals/all", asha.Token, nil, nil))
	var all []dto.RentalResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/rentals/all", f.adminToken, nil, &all))
	require.Len(t, all, 2)
	assert.Equal(t, "Asha", all[0].User.Name)
	assert.Equal(t, "asha@example.com", all[0].User.Email)
	assert.Equal(t, "Nevera", all[0].Products[0].Product.Name)
	assert.Equal(t, "fridge.jpg", all[0].Products[0].Product.Image)

	var one dto.RentalResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/rentals/"+first.ID, f.adminToken, nil, &one))
	assert.Equal(t, first.ID, one.ID)

	req := httptest.NewRequest(http.MethodGet, "/api/rentals/"+first.ID+"/agreement", nil)
	req.Header.Set("x-auth-token", asha.Token)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.True(t, strings.HasPrefix(bodyString(t, resp), "%PDF"))
	resp.Body.Close()

	var summary dto.DashboardSummaryDTO
	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodGet, "/api/dashboard/summary", asha.Token, nil, nil))
	require.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/api/dashboard/summary", f.adminToken, nil, &summary))
	assert.Equal(t, 2, summary.Orders)
	assert.Equal(t, 2, summary.Active)
	assert.True(t, decimal.NewFromInt(499+799).Equal(summary.Revenue))

	assert.Equal(t, http.StatusForbidden, f.call(t, http.MethodDelete, "/api/rentals/"+first.ID, ravi.Token, nil, nil))
	var msg dto.MessageResponse
	require.Equal(t, http.StatusOK, f.call(t, http.MethodDelete, "/api/rentals/"+first.ID, asha.Token, nil, &msg))
	assert.Equal(t, "Order removed from history", msg.Message)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/rentals/"+first.ID, asha.Token, nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestAPI_RutaInexistente(t *testing.T) {
	f := newAPI(t)
	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/api/no-existe", "", nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)
}
