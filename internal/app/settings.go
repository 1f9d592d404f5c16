package app

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	return s.Store.GetSettings(ctx)
}

// SetRegistrationGate opens or closes registration changes for team leaders.
func (s *Service) SetRegistrationGate(ctx context.Context, sess models.Session, open bool) (*models.Settings, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.Store.SetRegistrationOpen(ctx, open); err != nil {
		return nil, err
	}
	logger.Info.Printf("Registration gate set to open=%t by %s", open, sess.Username)
	return s.Store.GetSettings(ctx)
}
