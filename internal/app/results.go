package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/metrics"
	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

type PlacementInput struct {
	StudentID string `json:"studentId"`
	Grade     string `json:"grade"`
}

type ResultRequest struct {
	First  *PlacementInput  `json:"first"`
	Second *PlacementInput  `json:"second"`
	Third  *PlacementInput  `json:"third"`
	Others []PlacementInput `json:"others"`
}

func (r ResultRequest) placements() []models.Placement {
	var out []models.Placement
	add := func(pos models.Position, in *PlacementInput) {
		if in == nil || strings.TrimSpace(in.StudentID) == "" {
			return
		}
		out = append(out, models.Placement{
			Position:  pos,
			StudentID: strings.TrimSpace(in.StudentID),
			Grade:     models.NormalizeGrade(in.Grade),
		})
	}
	add(models.PositionFirst, r.First)
	add(models.PositionSecond, r.Second)
	add(models.PositionThird, r.Third)
	for i := range r.Others {
		add(models.PositionOther, &r.Others[i])
	}
	return out
}

// PublishResult records the placements of an event and marks it completed.
// A published result is frozen until DeleteResult is called.
func (s *Service) PublishResult(ctx context.Context, sess models.Session, eventID string, req ResultRequest) (*models.Event, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}

	event, err := s.Store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, notFound("event", eventID)
	}
	if event.IsCompleted() {
		return nil, &ValidationError{
			Rule:   "result_frozen",
			Reason: "result for " + event.Name + " is already published, delete it before publishing again",
		}
	}

	if req.First == nil || strings.TrimSpace(req.First.StudentID) == "" {
		return nil, invalid("first place is required")
	}

	placements := req.placements()
	if err := s.checkPlacements(ctx, *event, placements); err != nil {
		return nil, err
	}

	if err := s.Store.SaveResult(ctx, eventID, models.EventCompleted, placements); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("event", eventID)
		}
		return nil, err
	}

	metrics.ResultsPublishedTotal.WithLabelValues(string(event.Category), string(event.Type)).Inc()
	for _, p := range placements {
		metrics.PlacementPoints.WithLabelValues(string(p.Position)).Observe(float64(s.Grader.Points(p.Grade, *event, p.Position)))
	}
	logger.Info.Printf("Published result for %s (%s) with %d placements", event.Name, event.Category, len(placements))

	event.Status = models.EventCompleted
	event.Result = models.ResultFromPlacements(placements)
	return event, nil
}

func (s *Service) checkPlacements(ctx context.Context, event models.Event, placements []models.Placement) error {
	students, err := s.Store.ListStudents(ctx, store.StudentFilter{})
	if err != nil {
		return err
	}
	byID := make(map[string]*models.Student, len(students))
	for i := range students {
		byID[students[i].ID] = &students[i]
	}

	seen := make(map[string]bool, len(placements))
	for _, p := range placements {
		if p.Grade != "" && !p.Grade.Valid() {
			return invalid("grade %q is not one of A+, A, B, C", p.Grade)
		}
		if seen[p.StudentID] {
			return invalid("student %s is placed more than once", p.StudentID)
		}
		seen[p.StudentID] = true

		st, ok := byID[p.StudentID]
		if !ok {
			return invalid("student %s does not exist", p.StudentID)
		}
		if !st.HasEvent(event.ID) {
			return invalid("%s (%s) is not registered for %s", st.Name, st.ChestNo, event.Name)
		}
	}
	return nil
}

// DeleteResult clears the placements and returns the event, now upcoming again.
func (s *Service) DeleteResult(ctx context.Context, sess models.Session, eventID string) (*models.Event, error) {
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.Store.SaveResult(ctx, eventID, models.EventUpcoming, nil); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("event", eventID)
		}
		return nil, err
	}

	event, err := s.Store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, notFound("event", eventID)
	}
	logger.Info.Printf("Deleted result for %s (%s)", event.Name, event.Category)
	return event, nil
}

const rulePlaced = "placed"

// placedIn returns the published events whose result places the student.
func (s *Service) placedIn(ctx context.Context, studentID string) ([]models.Event, error) {
	events, err := s.Store.ListEvents(ctx, store.EventFilter{Status: models.EventCompleted})
	if err != nil {
		return nil, err
	}
	var out []models.Event
	for _, e := range events {
		for _, p := range e.Result.Placements() {
			if p.StudentID == studentID {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// checkPlacementsKept refuses to drop a registration that a published result still places.
func (s *Service) checkPlacementsKept(ctx context.Context, student models.Student, kept []models.EventRegistration) error {
	placed, err := s.placedIn(ctx, student.ID)
	if err != nil {
		return err
	}
	keptIDs := make(map[string]bool, len(kept))
	for _, reg := range kept {
		keptIDs[reg.EventID] = true
	}
	for _, e := range placed {
		if !keptIDs[e.ID] {
			return &ValidationError{
				Rule:   rulePlaced,
				Reason: fmt.Sprintf("%s (%s) is placed in the result of %s, delete the result first", student.Name, student.ChestNo, e.Name),
			}
		}
	}
	return nil
}
