package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/metrics"
	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/rules"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

const ruleChestNo = "chest_no"

var validate = validator.New()

type Selection struct {
	EventID string `json:"eventId" validate:"required"`
	IsStar  bool   `json:"isStar"`
}

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,max=120"`
	ChestNo  string          `json:"chestNo" validate:"omitempty,max=16"`
	Team     models.Team     `json:"team" validate:"required,oneof=Auris Libras"`
	Category models.Category `json:"category" validate:"required,oneof=Alpha Beta Gamma General-A General-B"`
	Events   []Selection     `json:"events" validate:"dive"`
}

// UpdateRequest replaces a student's details and selections. The chest number cannot be changed.
type UpdateRequest struct {
	Name     string          `json:"name" validate:"required,max=120"`
	Team     models.Team     `json:"team" validate:"required,oneof=Auris Libras"`
	Category models.Category `json:"category" validate:"required,oneof=Alpha Beta Gamma General-A General-B"`
	Events   []Selection     `json:"events" validate:"dive"`
}

// checkGate refuses non-admin registration changes while the gate is closed.
func (s *Service) checkGate(ctx context.Context, sess models.Session) error {
	if sess.IsAdmin() {
		return nil
	}
	settings, err := s.Store.GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.RegistrationOpen {
		return ErrRegistrationClosed
	}
	return nil
}

func (s *Service) ListStudents(ctx context.Context, filter store.StudentFilter) ([]models.Student, error) {
	return s.Store.ListStudents(ctx, filter)
}

func (s *Service) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	st, err := s.Store.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notFound("student", id)
	}
	return st, nil
}

func (s *Service) RegisterStudent(ctx context.Context, sess models.Session, req RegisterRequest) (*models.Student, error) {
	if err := s.checkGate(ctx, sess); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.ChestNo = strings.TrimSpace(req.ChestNo)
	if err := validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}
	if !sess.CanManage(req.Team) {
		return nil, ErrForbidden
	}

	chestNo, err := s.assignChestNo(ctx, req.ChestNo)
	if err != nil {
		return nil, err
	}

	student := models.Student{
		ID:        s.newID(),
		Name:      req.Name,
		ChestNo:   chestNo,
		Team:      req.Team,
		Category:  req.Category,
		CreatedAt: s.now(),
	}

	student.Registrations, err = s.buildSelections(ctx, student, req.Events, nil)
	if err != nil {
		return nil, err
	}

	if err := s.Store.CreateStudent(ctx, &student); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &ValidationError{Rule: ruleChestNo, Reason: fmt.Sprintf("chest number %s is already taken", chestNo)}
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(student.Team), string(student.Category)).Add(float64(len(student.Registrations)))
	logger.Info.Printf("Registered student %s (%s) for %s/%s with %d events",
		student.Name, student.ChestNo, student.Team, student.Category, len(student.Registrations))

	return &student, nil
}

func (s *Service) UpdateStudent(ctx context.Context, sess models.Session, id string, req UpdateRequest) (*models.Student, error) {
	if err := s.checkGate(ctx, sess); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return nil, fromValidator(err)
	}

	existing, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanManage(existing.Team) || !sess.CanManage(req.Team) {
		return nil, ErrForbidden
	}

	student := *existing
	student.Name = req.Name
	student.Team = req.Team
	student.Category = req.Category

	student.Registrations, err = s.buildSelections(ctx, student, req.Events, existing.Registrations)
	if err != nil {
		return nil, err
	}
	if err := s.checkPlacementsKept(ctx, *existing, student.Registrations); err != nil {
		return nil, err
	}

	if err := s.Store.UpdateStudent(ctx, &student); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("student", id)
		}
		return nil, err
	}

	logger.Info.Printf("Updated student %s (%s): %d events", student.Name, student.ChestNo, len(student.Registrations))
	return &student, nil
}

func (s *Service) DeleteStudent(ctx context.Context, sess models.Session, id string) error {
	if err := s.checkGate(ctx, sess); err != nil {
		return err
	}
	existing, err := s.GetStudent(ctx, id)
	if err != nil {
		return err
	}
	if !sess.CanManage(existing.Team) {
		return ErrForbidden
	}
	if err := s.checkPlacementsKept(ctx, *existing, nil); err != nil {
		return err
	}
	if err := s.Store.DeleteStudent(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound("student", id)
		}
		return err
	}
	logger.Info.Printf("Deleted student %s (%s)", existing.Name, existing.ChestNo)
	return nil
}

// ToggleStar flips one persisted star. Stage and general pool events are left as they are.
func (s *Service) ToggleStar(ctx context.Context, sess models.Session, studentID, eventID string) (*models.Student, error) {
	if err := s.checkGate(ctx, sess); err != nil {
		return nil, err
	}
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !sess.CanManage(student.Team) {
		return nil, ErrForbidden
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	next, d := s.Rules.ToggleStar(student.Category, student.Registrations, eventID, catalog)
	if !d.Allowed {
		return nil, rejected(d)
	}

	for i := range next {
		if next[i].EventID != eventID || next[i].IsStar == student.Registrations[i].IsStar {
			continue
		}
		next[i].StudentID = student.ID
		if err := s.Store.UpdateRegistration(ctx, next[i]); err != nil {
			return nil, err
		}
		logger.Debug.Printf("Student %s star on %s set to %t", student.ChestNo, next[i].EventName, next[i].IsStar)
	}

	student.Registrations = next
	return student, nil
}

// UpdateRegistrationStatus moves one registration along registered, sent, reported, completed.
func (s *Service) UpdateRegistrationStatus(ctx context.Context, sess models.Session, studentID, eventID string, status models.RegistrationStatus) (*models.Student, error) {
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !sess.CanManage(student.Team) {
		return nil, ErrForbidden
	}

	reg, ok := student.Registration(eventID)
	if !ok {
		return nil, notFound("registration", eventID)
	}
	if !reg.Status.CanAdvanceTo(status) {
		return nil, &ValidationError{
			Rule:   "status",
			Reason: fmt.Sprintf("registration for %s cannot move from %s to %s", reg.EventName, reg.Status, status),
		}
	}

	reg.Status = status
	reg.StudentID = student.ID
	if err := s.Store.UpdateRegistration(ctx, *reg); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("registration", eventID)
		}
		return nil, err
	}
	return student, nil
}

func (s *Service) catalog(ctx context.Context) (rules.Catalog, error) {
	events, err := s.Store.ListEvents(ctx, store.EventFilter{})
	if err != nil {
		return nil, err
	}
	return rules.NewCatalog(events), nil
}

// buildSelections folds the requested events through the eligibility rules in order,
// then applies the requested stars. Registrations kept from previous keep their status.
func (s *Service) buildSelections(
	ctx context.Context,
	student models.Student,
	requested []Selection,
	previous []models.EventRegistration,
) ([]models.EventRegistration, error) {
	selections := []models.EventRegistration{}
	if len(requested) == 0 {
		return selections, nil
	}

	catalog, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	roster, err := s.Store.ListStudents(ctx, store.StudentFilter{Team: student.Team, Category: student.Category})
	if err != nil {
		return nil, err
	}

	prevStatus := make(map[string]models.RegistrationStatus, len(previous))
	for _, p := range previous {
		prevStatus[p.EventID] = p.Status
	}

	for _, sel := range requested {
		e, ok := catalog[sel.EventID]
		if !ok {
			return nil, rejected(rules.Decision{
				Rule:   rules.RuleUnknownEvent,
				Reason: fmt.Sprintf("event %s does not exist", sel.EventID),
			})
		}
		if d := s.Rules.CanRegister(student, e, roster, selections, catalog); !d.Allowed {
			return nil, rejected(d)
		}

		status, ok := prevStatus[e.ID]
		if !ok {
			status = models.StatusRegistered
		}
		selections = append(selections, models.EventRegistration{
			StudentID: student.ID,
			EventID:   e.ID,
			EventName: e.Name,
			EventType: e.Type,
			Status:    status,
		})
	}

	for _, sel := range requested {
		if !sel.IsStar {
			continue
		}
		next, d := s.Rules.ToggleStar(student.Category, selections, sel.EventID, catalog)
		if !d.Allowed {
			return nil, rejected(d)
		}
		selections = next
	}

	return selections, nil
}

// assignChestNo checks a supplied chest number or draws a free one.
func (s *Service) assignChestNo(ctx context.Context, supplied string) (string, error) {
	if supplied != "" {
		taken, err := s.Store.ChestNoExists(ctx, supplied)
		if err != nil {
			return "", err
		}
		if taken {
			return "", &ValidationError{Rule: ruleChestNo, Reason: fmt.Sprintf("chest number %s is already taken", supplied)}
		}
		return supplied, nil
	}

	for range chestNoAttempts {
		candidate, err := s.newChest()
		if err != nil {
			return "", err
		}
		taken, err := s.Store.ChestNoExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		logger.Debug.Printf("Chest number %s is taken, drawing another", candidate)
	}
	return "", fmt.Errorf("no free chest number after %d attempts", chestNoAttempts)
}
