package app

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/shrimpsizemoose/festboard/internal/rules"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

const (
	chestNoDigits   = 4
	chestNoAttempts = 10
)

type Service struct {
	Config   *Config
	Store    store.FestStore
	Sessions Sessions
	Rules    *rules.RuleSet
	Grader   *scoring.Grader

	now      func() time.Time
	newID    func() string
	newChest func() (string, error)
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	var sessions Sessions = StaticSessions{}
	if config.Server.EnableAuth {
		ttl := time.Duration(config.Auth.TokenTTLHours) * time.Hour
		sessions, err = NewRedisSessions(config.Auth.RedisURL, ttl)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to init auth: %w", err)
		}
	}

	return New(config, store, sessions), nil
}

// New wires a service from already constructed parts.
func New(config *Config, st store.FestStore, sessions Sessions) *Service {
	return &Service{
		Config:   config,
		Store:    st,
		Sessions: sessions,
		Rules:    &config.Rules,
		Grader:   &config.Scoring,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
		newChest: randomChestNo,
	}
}

// randomChestNo draws a zero-padded number with chestNoDigits digits.
func randomChestNo() (string, error) {
	limit := big.NewInt(1)
	for range chestNoDigits {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to draw chest number: %w", err)
	}
	return fmt.Sprintf("%0*d", chestNoDigits, n.Int64()), nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
