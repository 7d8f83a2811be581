package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/rentmojo-api/internal/application/analytics"
	"github.com/jhoicas/rentmojo-api/internal/application/auth"
	"github.com/jhoicas/rentmojo-api/internal/application/cart"
	"github.com/jhoicas/rentmojo-api/internal/application/rental"
	"github.com/jhoicas/rentmojo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	ProductUC   *usecase.ProductUseCase
	CartUC      *cart.CartUseCase
	RentalUC    *rental.RentalUseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	AuthLimiter fiber.Handler // nil = sin límite
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := RequireAuthenticated(deps.JWTSecret)

	// Auth (público, limitado por IP)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter)
	}
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Products: lectura pública, escritura admin
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, RequireAdmin(), productHandler.Create)
	products.Put("/:id", requireAuth, RequireAdmin(), productHandler.Update)
	products.Delete("/:id", requireAuth, RequireAdmin(), productHandler.Delete)

	// Cart (dueño o admin; lo verifica el caso de uso)
	carts := api.Group("/cart", requireAuth)
	cartHandler := NewCartHandler(deps.CartUC, deps.Log)
	carts.Post("/add", cartHandler.Add)
	carts.Delete("/remove/:userId/:productId", cartHandler.Remove)
	carts.Get("/:userId", cartHandler.Get)

	// Rentals: las rutas estáticas van antes de /:id
	rentals := api.Group("/rentals", requireAuth)
	rentalHandler := NewRentalHandler(deps.RentalUC, deps.Log)
	rentals.Post("/", rentalHandler.Create)
	rentals.Get("/all", RequireAdmin(), rentalHandler.ListAll)
	rentals.Get("/my-orders/:userId", rentalHandler.ListMine)
	rentals.Put("/maintenance/:id", rentalHandler.RequestMaintenance)
	rentals.Put("/maintenance-status/:id", RequireAdmin(), rentalHandler.UpdateMaintenance)
	rentals.Put("/schedule-pickup/:id", rentalHandler.SchedulePickup)
	rentals.Put("/complete-pickup/:id", RequireAdmin(), rentalHandler.CompletePickup)
	rentals.Put("/cancel/:id", rentalHandler.Cancel)
	rentals.Get("/:id/agreement", rentalHandler.Agreement)
	rentals.Get("/:id", rentalHandler.Get)
	rentals.Delete("/:id", rentalHandler.Delete)

	// Dashboard (admin)
	dashboard := api.Group("/dashboard", requireAuth, RequireAdmin())
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Log)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
