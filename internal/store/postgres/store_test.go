//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/store"
)

func setupTestDB(t *testing.T) (*PostgresStore, func()) {
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("festboard"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewPostgresStore(dsn)
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		s.Close()
		container.Terminate(ctx)
	}

	return s, cleanup
}

func TestPostgresStore(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	limit := 1
	require.NoError(t, s.CreateEvents(ctx, []models.Event{
		{ID: "ev-solo", Name: "Solo Song", Category: models.CategoryGamma, Type: models.EventStage, CreatedAt: now},
		{ID: "ev-poem", Name: "Poem Writing", Category: models.CategoryGamma, Type: models.EventNonStage, TeamLimit: &limit, CreatedAt: now},
	}))

	st := models.Student{
		ID: "st-1", Name: "Rahim", ChestNo: "3001", Team: models.TeamLibras, Category: models.CategoryGamma, CreatedAt: now,
		Registrations: []models.EventRegistration{{EventID: "ev-poem", IsStar: true}, {EventID: "ev-solo"}},
	}

	t.Run("students", func(t *testing.T) {
		require.NoError(t, s.CreateStudent(ctx, &st))

		dup := st
		dup.ID = "st-2"
		dup.Registrations = nil
		assert.ErrorIs(t, s.CreateStudent(ctx, &dup), store.ErrDuplicate)

		got, err := s.GetStudent(ctx, "st-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Registrations, 2)
		assert.Equal(t, "ev-poem", got.Registrations[0].EventID)
		assert.True(t, got.Registrations[0].IsStar)

		list, err := s.ListStudents(ctx, store.StudentFilter{Team: models.TeamLibras})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("results", func(t *testing.T) {
		require.NoError(t, s.SaveResult(ctx, "ev-solo", models.EventCompleted, []models.Placement{
			{Position: models.PositionFirst, StudentID: "st-1", Grade: models.GradeA},
		}))
		got, err := s.GetEvent(ctx, "ev-solo")
		require.NoError(t, err)
		assert.Equal(t, models.EventCompleted, got.Status)
		require.NotNil(t, got.Result.First)
		assert.Equal(t, "st-1", got.Result.First.StudentID)
	})

	t.Run("settings", func(t *testing.T) {
		settings, err := s.GetSettings(ctx)
		require.NoError(t, err)
		assert.True(t, settings.RegistrationOpen)

		require.NoError(t, s.SetRegistrationOpen(ctx, false))
		settings, err = s.GetSettings(ctx)
		require.NoError(t, err)
		assert.False(t, settings.RegistrationOpen)
	})

	t.Run("delete event", func(t *testing.T) {
		require.NoError(t, s.DeleteEvent(ctx, "ev-poem"))
		got, err := s.GetStudent(ctx, "st-1")
		require.NoError(t, err)
		require.Len(t, got.Registrations, 1)
	})
}
