package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/rentmojo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/rentmojo-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "rentmojo-test"
	testExpMin    = 60
)

// buildGuardApp construye una aplicación Fiber mínima con:
//   - RequireAuthenticated para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildGuardApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.RequireAuthenticated(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// doGuarded lanza GET /protected con los headers indicados.
func doGuarded(t *testing.T, app *fiber.App, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole / RequireAdmin
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildGuardApp("admin")
	resp := doGuarded(t, app, map[string]string{"Authorization": "Bearer " + tokenForRole(t, "admin")})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildGuardApp("admin", "user")
	resp := doGuarded(t, app, map[string]string{"Authorization": "Bearer " + tokenForRole(t, "user")})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildGuardApp("admin")
	resp := doGuarded(t, app, map[string]string{"Authorization": "Bearer " + tokenForRole(t, "user")})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildGuardApp("admin")
	resp := doGuarded(t, app, map[string]string{"Authorization": "Bearer " + tokenForRole(t, "")})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_ROLE")
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", apphttp.RequireAuthenticated(testJWTSecret), apphttp.RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	for role, want := range map[string]int{"admin": http.StatusNoContent, "user": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("x-auth-token", tokenForRole(t, role))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, role)
		resp.Body.Close()
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireAuthenticated
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAuthenticated_SinToken_Retorna401(t *testing.T) {
	app := buildGuardApp("admin")
	resp := doGuarded(t, app, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestRequireAuthenticated_FormatoBearerIncorrecto_Retorna401(t *testing.T) {
	app := buildGuardApp("admin")
	resp := doGuarded(t, app, map[string]string{"Authorization": "Token abc"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestRequireAuthenticated_TokenInvalido_Retorna401(t *testing.T) {
	app := buildGuardApp("admin")
	resp := doGuarded(t, app, map[string]string{"x-auth-token": "token.invalido.aqui"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestRequireAuthenticated_TokenExpirado_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", testIssuer, -1)
	require.NoError(t, err)

	app := buildGuardApp("admin")
	resp := doGuarded(t, app, map[string]string{"x-auth-token": tok})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestRequireAuthenticated_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.RequireAuthenticated(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role":    apphttp.GetRole(c),
		})
	})

	for _, header := range []string{"x-auth-token", "Authorization"} {
		t.Run(header, func(t *testing.T) {
			tok := tokenForRole(t, "user")
			if header == "Authorization" {
				tok = "Bearer " + tok
			}
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set(header, tok)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, testUserID, body["user_id"])
			assert.Equal(t, "user", body["role"])
		})
	}
}
