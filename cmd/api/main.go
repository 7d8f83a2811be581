package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/rentmojo-api/internal/application/analytics"
	"github.com/jhoicas/rentmojo-api/internal/application/auth"
	"github.com/jhoicas/rentmojo-api/internal/application/cart"
	"github.com/jhoicas/rentmojo-api/internal/application/ports"
	"github.com/jhoicas/rentmojo-api/internal/application/rental"
	"github.com/jhoicas/rentmojo-api/internal/application/usecase"
	"github.com/jhoicas/rentmojo-api/internal/application/validation"
	infracache "github.com/jhoicas/rentmojo-api/internal/infrastructure/cache"
	infraevents "github.com/jhoicas/rentmojo-api/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/rentmojo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/rentmojo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/rentmojo-api/internal/interfaces/http"
	"github.com/jhoicas/rentmojo-api/pkg/config"
	"github.com/jhoicas/rentmojo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	zl := log.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(pool, cfg.App.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}

	// Caché del catálogo: opcional
	var catalogCache ports.Cache = infracache.Nop{}
	if cfg.Redis.Enabled() {
		rc, err := infracache.NewRedis(ctx, cfg.Redis, zl)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, catálogo sin caché")
		} else {
			defer rc.Close()
			catalogCache = rc
		}
	}

	// Eventos de pedidos: opcional
	var publisher ports.EventPublisher = infraevents.Nop{}
	if cfg.AMQP.Enabled() {
		pub, err := infraevents.Connect(cfg.AMQP.URL, cfg.AMQP.Exchange, 5, 2*time.Second, zl)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos desactivados")
		} else {
			defer pub.Close()
			publisher = pub
		}
	}

	v := validation.New()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	rentalRepo := postgres.NewRentalRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, v)
	productUC := usecase.NewProductUseCase(productRepo, catalogCache, cfg.Redis.TTL, v)
	cartUC := cart.NewCartUseCase(cartRepo, productRepo, v)
	rentalUC := rental.NewRentalUseCase(rentalRepo, txRunner, publisher, infrapdf.NewMarotoPDFGenerator("RentMojo"), v)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	metrics := httpRouter.NewMetrics("rentmojo")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(zl),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(zl))
	app.Use(metrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "RentMojo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", metrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ProductUC:   productUC,
		CartUC:      cartUC,
		RentalUC:    rentalUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		AuthLimiter: httpRouter.AuthRateLimit(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
		Log:         zl,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
