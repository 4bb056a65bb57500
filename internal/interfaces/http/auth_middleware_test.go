package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-inventario/internal/domain/entity"
	httpx "github.com/jhoicas/erp-inventario/internal/interfaces/http"
	"github.com/jhoicas/erp-inventario/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

// buildTestApp monta rutas protegidas mínimas con el middleware real.
func buildTestApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/api", httpx.AuthMiddleware(testSecret))

	protected.Get("/perfil", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": httpx.GetUserID(c), "role": httpx.GetRole(c)})
	})
	protected.Post("/admin", httpx.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	protected.Post("/bodega", httpx.RequireRole(entity.RoleAdmin, entity.RoleBodeguero), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", role, "erp-inventario", 15)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinTokenRechaza(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, "/api/perfil", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalidoRechaza(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, "/api/perfil", "no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaIncorrectaRechaza(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate("otro-secreto", "user-1", entity.RoleAdmin, "erp-inventario", 15)
	require.NoError(t, err)
	resp := doRequest(t, app, http.MethodGet, "/api/perfil", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpiradoRechaza(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate(testSecret, "user-1", entity.RoleAdmin, "erp-inventario", -5)
	require.NoError(t, err)
	resp := doRequest(t, app, http.MethodGet, "/api/perfil", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValidoPasa(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodGet, "/api/perfil", tokenForRole(t, entity.RoleVendedor))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodPost, "/api/admin", tokenForRole(t, entity.RoleAdmin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorNoAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodPost, "/api/admin", tokenForRole(t, entity.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_BodegueroAccedeRutaBodega(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodPost, "/api/bodega", tokenForRole(t, entity.RoleBodeguero))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorNoAccedeRutaBodega(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, http.MethodPost, "/api/bodega", tokenForRole(t, entity.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
