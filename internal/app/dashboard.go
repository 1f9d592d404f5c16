package app

import (
	"context"
	"time"

	"github.com/shrimpsizemoose/festboard/internal/metrics"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

// Dashboard recomputes standings from the stored state on every call.
func (s *Service) Dashboard(ctx context.Context) (*scoring.Standings, error) {
	students, err := s.Store.ListStudents(ctx, store.StudentFilter{})
	if err != nil {
		return nil, err
	}
	events, err := s.Store.ListEvents(ctx, store.EventFilter{})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	standings := scoring.Aggregate(s.Grader, s.Rules, students, events)
	metrics.AggregationDuration.Observe(time.Since(start).Seconds())

	return &standings, nil
}
