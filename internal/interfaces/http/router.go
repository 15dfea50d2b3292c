package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/returns-api/internal/application/auth"
	"github.com/jhoicas/returns-api/internal/application/returns"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/infrastructure/cache"
	"github.com/jhoicas/returns-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	PurchaseReturns *returns.PurchaseReturnUseCase
	SaleReturns     *returns.SaleReturnUseCase
	Idempotency     cache.IdempotencyStore
	IdempotencyTTL  time.Duration
	RateLimiter     *SubmissionRateLimiter
	Log             *logger.Logger
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	requireAuth := AuthMiddleware(deps.JWTSecret)
	idempotent := Idempotency(IdempotencyConfig{Store: deps.Idempotency, TTL: deps.IdempotencyTTL, Log: deps.Log})
	limited := deps.RateLimiter.Middleware()

	// Devoluciones a proveedor (bodega)
	purchaseHandler := NewPurchaseReturnHandler(deps.PurchaseReturns, deps.Log)
	warehouseRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	purchaseReturns := api.Group("/purchase-returns", requireAuth, warehouseRoles)
	purchaseReturns.Post("/validate", purchaseHandler.Validate)
	purchaseReturns.Post("/", idempotent, limited, purchaseHandler.Process)
	purchaseReturns.Get("/", purchaseHandler.List)
	purchaseReturns.Get("/summary", purchaseHandler.Summary)

	purchases := api.Group("/purchases", requireAuth, warehouseRoles)
	purchases.Get("/:id/remaining", purchaseHandler.Remaining)

	// Devoluciones de clientes (caja)
	saleHandler := NewSaleReturnHandler(deps.SaleReturns, deps.Log)
	cashierRoles := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	saleReturns := api.Group("/sale-returns", requireAuth, cashierRoles)
	saleReturns.Post("/validate", saleHandler.Validate)
	saleReturns.Post("/", idempotent, limited, saleHandler.Process)
	saleReturns.Get("/", saleHandler.List)
	saleReturns.Get("/summary", saleHandler.Summary)

	sales := api.Group("/sales", requireAuth, cashierRoles)
	sales.Get("/", saleHandler.ListSales)
	sales.Get("/summary", saleHandler.SalesSummary)
	sales.Get("/:id", saleHandler.GetSale)
}
