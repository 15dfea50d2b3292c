// Package cache almacenes de respuestas para repetir envíos con la misma Idempotency-Key.
package cache

import (
	"context"
	"sync"
	"time"
)

// CachedResponse respuesta guardada para una clave. InFlight indica que la primera
// solicitud todavía se está procesando.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	InFlight    bool   `json:"in_flight,omitempty"`
}

// IdempotencyStore reserva claves y guarda la respuesta final asociada.
type IdempotencyStore interface {
	// Reserve marca la clave como en curso; false si ya existía (en curso o terminada).
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Load devuelve la respuesta guardada o nil si la clave no existe.
	Load(ctx context.Context, key string) (*CachedResponse, error)
	Save(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error
	// Release libera una reserva para que el cliente pueda reintentar.
	Release(ctx context.Context, key string) error
}

// NoopIdempotencyStore no guarda nada: cada envío se procesa (REDIS_ADDR vacío).
type NoopIdempotencyStore struct{}

func (NoopIdempotencyStore) Reserve(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

func (NoopIdempotencyStore) Load(context.Context, string) (*CachedResponse, error) { return nil, nil }

func (NoopIdempotencyStore) Save(context.Context, string, CachedResponse, time.Duration) error {
	return nil
}

func (NoopIdempotencyStore) Release(context.Context, string) error { return nil }

// InMemoryIdempotencyStore implementación en proceso con expiración; para una sola instancia y tests.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	resp      CachedResponse
	expiresAt time.Time
}

// NewInMemoryIdempotencyStore crea el almacén vacío.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *InMemoryIdempotencyStore) live(key string) (memoryEntry, bool) {
	e, ok := s.entries[key]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return memoryEntry{}, false
	}
	return e, ok
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.entries[key] = memoryEntry{resp: CachedResponse{InFlight: true}, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *InMemoryIdempotencyStore) Load(_ context.Context, key string) (*CachedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return nil, nil
	}
	resp := e.resp
	return &resp, nil
}

func (s *InMemoryIdempotencyStore) Save(_ context.Context, key string, resp CachedResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{resp: resp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

var (
	_ IdempotencyStore = NoopIdempotencyStore{}
	_ IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
	_ IdempotencyStore = (*RedisIdempotencyStore)(nil)
)
