package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

type EventRequest struct {
	Name       string           `json:"name" validate:"required,max=160"`
	Category   models.Category  `json:"category" validate:"required,oneof=Alpha Beta Gamma General-A General-B"`
	Type       models.EventType `json:"type" validate:"required,oneof=Stage Non-Stage"`
	GroupEvent bool             `json:"groupEvent"`
	TeamLimit  *int             `json:"teamLimit" validate:"omitempty,min=1"`
}

// ListEvents returns the catalog. A non-empty visibleTo keeps only the events a student
// of that category may register for.
func (s *Service) ListEvents(ctx context.Context, filter store.EventFilter, visibleTo models.Category) ([]models.Event, error) {
	events, err := s.Store.ListEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	if visibleTo != "" {
		events = s.Rules.VisibleEvents(visibleTo, events)
	}
	return events, nil
}

func (s *Service) CreateEvents(ctx context.Context, sess models.Session, reqs []EventRequest) ([]models.Event, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	if len(reqs) == 0 {
		return nil, invalid("no events given")
	}

	now := s.now()
	events := make([]models.Event, 0, len(reqs))
	for i, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		if err := validate.Struct(req); err != nil {
			verr := fromValidator(err)
			verr.Reason = fmt.Sprintf("event %d: %s", i+1, verr.Reason)
			return nil, verr
		}
		events = append(events, models.Event{
			ID:         s.newID(),
			Name:       req.Name,
			Category:   req.Category,
			Type:       req.Type,
			GroupEvent: req.GroupEvent,
			TeamLimit:  req.TeamLimit,
			Status:     models.EventUpcoming,
			CreatedAt:  now,
		})
	}

	if err := s.Store.CreateEvents(ctx, events); err != nil {
		return nil, err
	}
	logger.Info.Printf("Created %d events", len(events))
	return events, nil
}

// DeleteEvent removes the event with its result and every registration for it.
func (s *Service) DeleteEvent(ctx context.Context, sess models.Session, id string) error {
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Store.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("event", id)
		}
		return err
	}
	logger.Info.Printf("Deleted event %s", id)
	return nil
}

func (s *Service) ResetEvents(ctx context.Context, sess models.Session) error {
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	if err := s.Store.DeleteAllEvents(ctx); err != nil {
		return err
	}
	logger.Info.Printf("Event catalog reset by %s", sess.Username)
	return nil
}
