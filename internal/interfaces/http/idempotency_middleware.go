package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/infrastructure/cache"
	"github.com/jhoicas/returns-api/pkg/logger"
)

const (
	// IdempotencyKeyHeader cabecera con la clave elegida por el cliente para un envío.
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marca una respuesta servida desde el almacén.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
)

// IdempotencyConfig dependencias del middleware de idempotencia.
type IdempotencyConfig struct {
	Store cache.IdempotencyStore
	TTL   time.Duration
	Log   *logger.Logger
}

// Idempotency repite la respuesta de un POST ya procesado con la misma Idempotency-Key
// (por usuario y ruta) en lugar de registrar otra devolución. Sin cabecera no hace nada.
// Respuestas 5xx y 429 no se guardan: el cliente puede reintentar con la misma clave.
// Debe usarse DESPUÉS de AuthMiddleware.
func Idempotency(cfg IdempotencyConfig) fiber.Handler {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(IdempotencyKeyHeader))
		if c.Method() != fiber.MethodPost || key == "" || cfg.Store == nil {
			return c.Next()
		}
		ctx := c.UserContext()
		scoped := GetUserID(c) + ":" + c.Path() + ":" + key

		reserved, err := cfg.Store.Reserve(ctx, scoped, ttl)
		if err != nil {
			// Sin almacén de claves se procesa normalmente; la revalidación en la transacción sigue protegiendo el remanente.
			cfg.Log.Warn().Err(err).Str("path", c.Path()).Msg("idempotencia no disponible")
			return c.Next()
		}
		if !reserved {
			cached, err := cfg.Store.Load(ctx, scoped)
			if err != nil {
				cfg.Log.Warn().Err(err).Str("path", c.Path()).Msg("leer respuesta idempotente")
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_UNAVAILABLE", Message: "no se pudo verificar la Idempotency-Key, intente de nuevo"})
			}
			if cached == nil || cached.InFlight {
				return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_FLIGHT", Message: "ya hay un envío en curso con esta Idempotency-Key"})
			}
			c.Set(IdempotencyReplayedHeader, "true")
			if cached.ContentType != "" {
				c.Set(fiber.HeaderContentType, cached.ContentType)
			}
			return c.Status(cached.Status).Send(cached.Body)
		}

		if err := c.Next(); err != nil {
			_ = cfg.Store.Release(ctx, scoped)
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError || status == fiber.StatusTooManyRequests {
			if err := cfg.Store.Release(ctx, scoped); err != nil {
				cfg.Log.Warn().Err(err).Msg("liberar Idempotency-Key")
			}
			return nil
		}
		resp := cache.CachedResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err := cfg.Store.Save(ctx, scoped, resp, ttl); err != nil {
			cfg.Log.Warn().Err(err).Msg("guardar respuesta idempotente")
		}
		return nil
	}
}
