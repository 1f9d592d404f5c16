package store

import (
	"errors"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)

type DBConfig struct {
	DSN  string
	Type DatabaseType
}

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// StudentFilter narrows ListStudents; zero values match everything.
type StudentFilter struct {
	Team     models.Team
	Category models.Category
}

type EventFilter struct {
	Category models.Category
	Type     models.EventType
	Status   models.EventStatus
}
