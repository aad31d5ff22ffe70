package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/backsoul/quizform/pkg/models"
	"github.com/backsoul/quizform/pkg/session"
)

const sessionKeyPrefix = "quiz:session:"

// RedisClient estructura para manejar conexiones con Redis
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient crea el cliente y verifica la conexión
func NewRedisClient(ctx context.Context, addr, password string, db int) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("error conectando a Redis en %s: %w", addr, err)
	}

	return &RedisClient{client: rdb}, nil
}

// NewSessionStore expone el cliente como almacén de sesiones con caducidad ttl
func (r *RedisClient) NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{redis: r, ttl: ttl}
}

// Close cierra la conexión con Redis
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// HealthCheck verifica que Redis esté funcionando
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// SessionStore guarda los exámenes preparados como JSON bajo quiz:session:<id>
type SessionStore struct {
	redis *RedisClient
	ttl   time.Duration
}

var _ session.Store = (*SessionStore)(nil)

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, quiz []models.PreparedQuestion) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("error serializando examen: %w", err)
	}
	if err := s.redis.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("error guardando examen de la sesión %s: %w", sessionID, err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) ([]models.PreparedQuestion, error) {
	data, err := s.redis.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("error obteniendo examen de la sesión %s: %w", sessionID, err)
	}

	var quiz []models.PreparedQuestion
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, fmt.Errorf("error parsing examen de la sesión %s: %w", sessionID, err)
	}
	return quiz, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.redis.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("error eliminando examen de la sesión %s: %w", sessionID, err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.redis.HealthCheck(ctx)
}
