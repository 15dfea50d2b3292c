package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/jhoicas/returns-api/internal/application/dto"
)

// SubmissionRateLimiter limita los envíos de devoluciones por usuario (token bucket).
type SubmissionRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	entryTTL time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSubmissionRateLimiter rps <= 0 desactiva el límite.
func NewSubmissionRateLimiter(rps float64, burst int) *SubmissionRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &SubmissionRateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(rps),
		burst:    burst,
		entryTTL: 10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *SubmissionRateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	// Barrido perezoso de entradas sin uso.
	if now.Sub(rl.lastGC) > rl.entryTTL {
		cutoff := now.Add(-rl.entryTTL)
		for k, e := range rl.limiters {
			if e.lastSeen.Before(cutoff) {
				delete(rl.limiters, k)
			}
		}
		rl.lastGC = now
	}
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Middleware responde 429 cuando el usuario supera el límite. Sin usuario autenticado usa la IP.
func (rl *SubmissionRateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl == nil || rl.rate <= 0 {
			return c.Next()
		}
		key := GetUserID(c)
		if key == "" {
			key = "ip:" + c.IP()
		}
		limiter := rl.limiterFor(key)
		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		if !limiter.AllowN(rl.now(), 1) {
			c.Set("X-RateLimit-Remaining", "0")
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiados envíos, intente en un momento"})
		}
		c.Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.TokensAt(rl.now()))))
		return c.Next()
	}
}
