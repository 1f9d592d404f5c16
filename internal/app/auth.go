package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

const (
	timeFormat    = "2006-01-02 15:04:05"
	sessionKeyTpl = "session:%s" // session:${token}
	tokenPrefix   = "sk-fest-"
)

// Sessions issues bearer tokens and resolves them back into a caller identity.
type Sessions interface {
	Issue(ctx context.Context, session models.Session) (string, error)
	Resolve(ctx context.Context, token string) (*models.Session, error)
	Revoke(ctx context.Context, token string) error
	Close() error
}

func generateToken() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return tokenPrefix + hex.EncodeToString(randomBytes), nil
}

// RedisSessions keeps one hash per token that expires after the configured TTL.
type RedisSessions struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisSessions(redisURL string, ttl time.Duration) (*RedisSessions, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSessions{redis: client, ttl: ttl}, nil
}

func (s *RedisSessions) Issue(ctx context.Context, session models.Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf(sessionKeyTpl, token)

	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"username":         session.Username,
		"role":             string(session.Role),
		"team":             string(session.Team),
		"created_dttm_utc": time.Now().UTC().Format(timeFormat),
	})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return token, nil
}

func (s *RedisSessions) Resolve(ctx context.Context, token string) (*models.Session, error) {
	key := fmt.Sprintf(sessionKeyTpl, token)

	fields, err := s.redis.HGetAll(ctx, key).Result()
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return nil, fmt.Errorf("redis error: %w", err)
	}
	if len(fields) == 0 {
		logger.Debug.Printf("Session not found for key: %s", key)
		return nil, ErrUnauthorized
	}

	return &models.Session{
		Username: fields["username"],
		Role:     models.Role(fields["role"]),
		Team:     models.Team(fields["team"]),
	}, nil
}

func (s *RedisSessions) Revoke(ctx context.Context, token string) error {
	return s.redis.Del(ctx, fmt.Sprintf(sessionKeyTpl, token)).Err()
}

func (s *RedisSessions) Close() error {
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}

// StaticSessions is used when auth is disabled: every caller is an admin.
type StaticSessions struct{}

const staticToken = "auth-disabled"

func (StaticSessions) Issue(context.Context, models.Session) (string, error) {
	return staticToken, nil
}

func (StaticSessions) Resolve(context.Context, string) (*models.Session, error) {
	return &models.Session{Username: "admin", Role: models.RoleAdmin}, nil
}

func (StaticSessions) Revoke(context.Context, string) error { return nil }

func (StaticSessions) Close() error { return nil }
