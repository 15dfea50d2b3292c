package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "returns:idempotency:"

// RedisIdempotencyStore IdempotencyStore sobre Redis: compartido entre instancias de la API.
type RedisIdempotencyStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisIdempotencyStore conecta y verifica con PING.
func NewRedisIdempotencyStore(ctx context.Context, addr, password string, db int) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar redis: %w", err)
	}
	return NewRedisIdempotencyStoreWithClient(client, ""), nil
}

// NewRedisIdempotencyStoreWithClient usa un cliente existente. keyPrefix vacío usa el prefijo por defecto.
func NewRedisIdempotencyStoreWithClient(client redis.UniversalClient, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// Reserve SETNX con TTL: atómico entre instancias.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(CachedResponse{InFlight: true})
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, payload, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reservar clave de idempotencia: %w", err)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Load(ctx context.Context, key string) (*CachedResponse, error) {
	val, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer clave de idempotencia: %w", err)
	}
	var resp CachedResponse
	if err := json.Unmarshal(val, &resp); err != nil {
		return nil, fmt.Errorf("decodificar respuesta guardada: %w", err)
	}
	return &resp, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("guardar respuesta de idempotencia: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("liberar clave de idempotencia: %w", err)
	}
	return nil
}

// Close cierra el cliente.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}
