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

	_ "github.com/jhoicas/returns-api/docs"
	"github.com/jhoicas/returns-api/internal/application/auth"
	"github.com/jhoicas/returns-api/internal/application/returns"
	"github.com/jhoicas/returns-api/internal/domain/repository"
	"github.com/jhoicas/returns-api/internal/infrastructure/cache"
	"github.com/jhoicas/returns-api/internal/infrastructure/memory"
	"github.com/jhoicas/returns-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/returns-api/internal/interfaces/http"
	"github.com/jhoicas/returns-api/pkg/config"
	"github.com/jhoicas/returns-api/pkg/logger"
)

// stores repositorios y tx runner del driver elegido.
type stores struct {
	txRunner        returns.TxRunner
	purchases       repository.PurchaseRepository
	purchaseReturns repository.PurchaseReturnRepository
	sales           repository.SaleRepository
	saleReturns     repository.SaleReturnRepository
	users           repository.UserRepository
	close           func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer st.close()

	// Idempotencia de envíos: Redis si está configurado, si no en proceso.
	var idem cache.IdempotencyStore = cache.NewInMemoryIdempotencyStore()
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisStore.Close()
		idem = redisStore
	}

	purchaseReturnUC := returns.NewPurchaseReturnUseCase(st.txRunner, st.purchases, st.purchaseReturns, log)
	saleReturnUC := returns.NewSaleReturnUseCase(st.txRunner, st.sales, st.saleReturns, log)
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Returns API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		PurchaseReturns: purchaseReturnUC,
		SaleReturns:     saleReturnUC,
		Idempotency:     idem,
		IdempotencyTTL:  cfg.Redis.IdempotencyTTL,
		RateLimiter:     httpRouter.NewSubmissionRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Log:             log,
		JWTSecret:       cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		mem, err := memory.NewSeeded(cfg.Store.SeedPassword)
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &stores{
			txRunner:        mem,
			purchases:       mem.Purchases(),
			purchaseReturns: mem.PurchaseReturns(),
			sales:           mem.Sales(),
			saleReturns:     mem.SaleReturns(),
			users:           mem.Users(),
			close:           func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &stores{
		txRunner:        postgres.NewTxRunner(pool),
		purchases:       postgres.NewPurchaseRepository(pool),
		purchaseReturns: postgres.NewPurchaseReturnRepository(pool),
		sales:           postgres.NewSaleRepository(pool),
		saleReturns:     postgres.NewSaleReturnRepository(pool),
		users:           postgres.NewUserRepository(pool),
		close:           pool.Close,
	}, nil
}
