package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/store/migrations"
)

type FestStore interface {
	Close() error
	ApplyMigrations() error

	CreateStudent(ctx context.Context, s *models.Student) error
	UpdateStudent(ctx context.Context, s *models.Student) error
	DeleteStudent(ctx context.Context, id string) error
	GetStudent(ctx context.Context, id string) (*models.Student, error)
	ListStudents(ctx context.Context, f StudentFilter) ([]models.Student, error)
	ChestNoExists(ctx context.Context, chestNo string) (bool, error)
	UpdateRegistration(ctx context.Context, reg models.EventRegistration) error

	CreateEvents(ctx context.Context, events []models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	DeleteAllEvents(ctx context.Context) error
	SaveResult(ctx context.Context, eventID string, status models.EventStatus, placements []models.Placement) error

	GetSettings(ctx context.Context) (*models.Settings, error)
	SetRegistrationOpen(ctx context.Context, open bool) error

	UpsertUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
	// Dialect is the goose dialect name used for migrations.
	Dialect string
	// UniqueViolation reports whether err is the driver's unique constraint error.
	UniqueViolation func(error) bool
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations runs the embedded goose migrations up to the latest version.
func (s *BaseStore) ApplyMigrations() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(s.Dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(s.DB.DB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (s *BaseStore) wrapWrite(what string, err error) error {
	if err == nil {
		return nil
	}
	if s.UniqueViolation != nil && s.UniqueViolation(err) {
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}

func (s *BaseStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error.Printf("rollback failed: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (s *BaseStore) CreateStudent(ctx context.Context, st *models.Student) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("invalid student: %w", err)
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, s.Converter(`
			INSERT INTO students (id, name, chest_no, team, category, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), st.ID, st.Name, st.ChestNo, st.Team, st.Category, st.CreatedAt)
		if err != nil {
			return err
		}
		return s.insertRegistrations(ctx, tx, st.ID, st.Registrations)
	})
	return s.wrapWrite("create student", err)
}

// UpdateStudent rewrites the student's row and replaces its registration list.
// The chest number is never touched.
func (s *BaseStore) UpdateStudent(ctx context.Context, st *models.Student) error {
	if err := st.Validate(); err != nil {
		return fmt.Errorf("invalid student: %w", err)
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, s.Converter(`
			UPDATE students SET name = ?, team = ?, category = ?
			WHERE id = ?
		`), st.Name, st.Team, st.Category, st.ID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM registrations WHERE student_id = ?`), st.ID); err != nil {
			return err
		}
		return s.insertRegistrations(ctx, tx, st.ID, st.Registrations)
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return s.wrapWrite("update student", err)
}

func (s *BaseStore) insertRegistrations(ctx context.Context, tx *sqlx.Tx, studentID string, regs []models.EventRegistration) error {
	for i, r := range regs {
		status := r.Status
		if status == "" {
			status = models.StatusRegistered
		}
		_, err := tx.ExecContext(ctx, s.Converter(`
			INSERT INTO registrations (student_id, event_id, seq, is_star, status)
			VALUES (?, ?, ?, ?, ?)
		`), studentID, r.EventID, i, r.IsStar, status)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BaseStore) DeleteStudent(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM registrations WHERE student_id = ?`), id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM students WHERE id = ?`), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return err
}

func (s *BaseStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	err := s.DB.GetContext(ctx, &st, s.Converter(`
		SELECT id, name, chest_no, team, category, created_at
		FROM students
		WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	students := []models.Student{st}
	if err := s.attachRegistrations(ctx, students); err != nil {
		return nil, err
	}
	return &students[0], nil
}

func (s *BaseStore) ListStudents(ctx context.Context, f StudentFilter) ([]models.Student, error) {
	var (
		where []string
		args  []any
	)
	if f.Team != "" {
		where = append(where, "team = ?")
		args = append(args, f.Team)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}

	query := `SELECT id, name, chest_no, team, category, created_at FROM students`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"

	students := []models.Student{}
	if err := s.DB.SelectContext(ctx, &students, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if err := s.attachRegistrations(ctx, students); err != nil {
		return nil, err
	}
	return students, nil
}

// attachRegistrations loads the registrations of all given students in one query,
// preserving the order they were selected in.
func (s *BaseStore) attachRegistrations(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}
	ids := make([]string, len(students))
	index := make(map[string]int, len(students))
	for i, st := range students {
		ids[i] = st.ID
		index[st.ID] = i
		students[i].Registrations = []models.EventRegistration{}
	}

	query, args, err := sqlx.In(`
		SELECT r.student_id, r.event_id, e.name AS event_name, e.type AS event_type, r.is_star, r.status
		FROM registrations r
		JOIN events e ON e.id = r.event_id
		WHERE r.student_id IN (?)
		ORDER BY r.student_id, r.seq
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build registrations query: %w", err)
	}

	var regs []models.EventRegistration
	if err := s.DB.SelectContext(ctx, &regs, s.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list registrations: %w", err)
	}
	for _, r := range regs {
		i := index[r.StudentID]
		students[i].Registrations = append(students[i].Registrations, r)
	}
	return nil
}

func (s *BaseStore) ChestNoExists(ctx context.Context, chestNo string) (bool, error) {
	var n int
	err := s.DB.GetContext(ctx, &n, s.Converter(`SELECT COUNT(*) FROM students WHERE chest_no = ?`), chestNo)
	if err != nil {
		return false, fmt.Errorf("failed to check chest number: %w", err)
	}
	return n > 0, nil
}

// UpdateRegistration stores the star flag and status of one existing registration.
func (s *BaseStore) UpdateRegistration(ctx context.Context, reg models.EventRegistration) error {
	res, err := s.DB.ExecContext(ctx, s.Converter(`
		UPDATE registrations SET is_star = ?, status = ?
		WHERE student_id = ? AND event_id = ?
	`), reg.IsStar, reg.Status, reg.StudentID, reg.EventID)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BaseStore) CreateEvents(ctx context.Context, events []models.Event) error {
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return fmt.Errorf("invalid event %q: %w", events[i].Name, err)
		}
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range events {
			status := e.Status
			if status == "" {
				status = models.EventUpcoming
			}
			_, err := tx.ExecContext(ctx, s.Converter(`
				INSERT INTO events (id, name, category, type, group_event, team_limit, status, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`), e.ID, e.Name, e.Category, e.Type, e.GroupEvent, e.TeamLimit, status, e.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return s.wrapWrite("create events", err)
}

func (s *BaseStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.DB.GetContext(ctx, &e, s.Converter(`
		SELECT id, name, category, type, group_event, team_limit, status, created_at
		FROM events
		WHERE id = ?
	`), id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	events := []models.Event{e}
	if err := s.attachPlacements(ctx, events); err != nil {
		return nil, err
	}
	return &events[0], nil
}

func (s *BaseStore) ListEvents(ctx context.Context, f EventFilter) ([]models.Event, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	query := `SELECT id, name, category, type, group_event, team_limit, status, created_at FROM events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category, name, id"

	events := []models.Event{}
	if err := s.DB.SelectContext(ctx, &events, s.Converter(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if err := s.attachPlacements(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *BaseStore) attachPlacements(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	index := make(map[string]int, len(events))
	for i, e := range events {
		ids[i] = e.ID
		index[e.ID] = i
	}

	query, args, err := sqlx.In(`
		SELECT event_id, position, rank, student_id, grade
		FROM placements
		WHERE event_id IN (?)
		ORDER BY event_id, rank
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to build placements query: %w", err)
	}

	var rows []models.Placement
	if err := s.DB.SelectContext(ctx, &rows, s.DB.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to list placements: %w", err)
	}

	grouped := make(map[string][]models.Placement, len(events))
	for _, p := range rows {
		grouped[p.EventID] = append(grouped[p.EventID], p)
	}
	for id, ps := range grouped {
		events[index[id]].Result = models.ResultFromPlacements(ps)
	}
	return nil
}

func (s *BaseStore) DeleteEvent(ctx context.Context, id string) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, q := range []string{
			`DELETE FROM registrations WHERE event_id = ?`,
			`DELETE FROM placements WHERE event_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, s.Converter(q), id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM events WHERE id = ?`), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return err
}

// DeleteAllEvents drops the whole catalog together with every registration and result.
func (s *BaseStore) DeleteAllEvents(ctx context.Context) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, q := range []string{
			`DELETE FROM registrations`,
			`DELETE FROM placements`,
			`DELETE FROM events`,
		} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reset events: %w", err)
	}
	return nil
}

// SaveResult replaces the event's placements and sets its status in one transaction.
// Podium rows are stored with rank 0, other places with their 1-based order.
func (s *BaseStore) SaveResult(ctx context.Context, eventID string, status models.EventStatus, placements []models.Placement) error {
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, s.Converter(`UPDATE events SET status = ? WHERE id = ?`), status, eventID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, s.Converter(`DELETE FROM placements WHERE event_id = ?`), eventID); err != nil {
			return err
		}
		others := 0
		for _, p := range placements {
			rank := 0
			if p.Position == models.PositionOther {
				others++
				rank = others
			}
			_, err := tx.ExecContext(ctx, s.Converter(`
				INSERT INTO placements (event_id, position, rank, student_id, grade)
				VALUES (?, ?, ?, ?, ?)
			`), eventID, p.Position, rank, p.StudentID, p.Grade)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return s.wrapWrite("save result", err)
}

// GetSettings returns the singleton settings row, creating it open on first read.
func (s *BaseStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.DB.GetContext(ctx, &settings, `SELECT id, registration_open FROM settings WHERE id = 1`)
	if err == sql.ErrNoRows {
		if err := s.SetRegistrationOpen(ctx, true); err != nil {
			return nil, err
		}
		return &models.Settings{ID: 1, RegistrationOpen: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (s *BaseStore) SetRegistrationOpen(ctx context.Context, open bool) error {
	_, err := s.DB.ExecContext(ctx, s.Converter(`
		INSERT INTO settings (id, registration_open)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET registration_open = excluded.registration_open
	`), open)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *BaseStore) UpsertUser(ctx context.Context, u *models.User) error {
	_, err := s.DB.NamedExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, team)
		VALUES (:username, :password_hash, :role, :team)
		ON CONFLICT(username) DO UPDATE SET
		password_hash = excluded.password_hash,
		role = excluded.role,
		team = excluded.team
	`, u)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (s *BaseStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.DB.GetContext(ctx, &u, s.Converter(`
		SELECT username, password_hash, role, team
		FROM users
		WHERE username = ?
	`), username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
