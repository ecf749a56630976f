package repository_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/usageboard/pkg/domain/interfaces"
	"github.com/secmon-lab/usageboard/pkg/domain/model"
	"github.com/secmon-lab/usageboard/pkg/domain/types"
	"github.com/secmon-lab/usageboard/pkg/repository"
)

func testRepository(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Run("PutViewSession", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC().Truncate(time.Millisecond)
		session := model.NewViewSession(types.NewSessionID(), now, time.Hour)
		session.SetRange(model.Presets()[1].Range(now), now, time.Hour)

		gt.NoError(t, repo.PutViewSession(ctx, session)).Required()

		retrieved, err := repo.GetViewSession(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.Equal(t, retrieved.ID, session.ID)
		gt.True(t, retrieved.Range.Equal(session.Range))
		// Timestamp comparison with tolerance for storage precision
		gt.True(t, session.ExpiresAt.Sub(retrieved.ExpiresAt).Abs() < time.Second)
	})

	t.Run("PutViewSession_Overwrite", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC()
		session := model.NewViewSession(types.NewSessionID(), now, time.Hour)
		gt.NoError(t, repo.PutViewSession(ctx, session)).Required()

		updated := model.Presets()[3].Range(now)
		session.SetRange(updated, now, time.Hour)
		gt.NoError(t, repo.PutViewSession(ctx, session)).Required()

		retrieved, err := repo.GetViewSession(ctx, session.ID)
		gt.NoError(t, err).Required()
		gt.True(t, retrieved.Range.Equal(updated))
	})

	t.Run("GetViewSession_NotFound", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		_, err := repo.GetViewSession(context.Background(), types.NewSessionID())
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrSessionNotFound))
	})

	t.Run("Invalid input", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		_, err := repo.GetViewSession(ctx, "")
		gt.Error(t, err)
		gt.Error(t, repo.PutViewSession(ctx, nil))
		gt.Error(t, repo.PutViewSession(ctx, &model.ViewSession{}))
	})

	t.Run("DeleteExpiredViewSessions", func(t *testing.T) {
		repo := newRepo(t)
		defer repo.Close()

		ctx := context.Background()
		now := time.Now().UTC()

		expired := model.NewViewSession(types.NewSessionID(), now.Add(-2*time.Hour), time.Hour)
		live := model.NewViewSession(types.NewSessionID(), now, time.Hour)
		gt.NoError(t, repo.PutViewSession(ctx, expired)).Required()
		gt.NoError(t, repo.PutViewSession(ctx, live)).Required()

		deleted, err := repo.DeleteExpiredViewSessions(ctx, now)
		gt.NoError(t, err).Required()
		gt.True(t, deleted >= 1)

		_, err = repo.GetViewSession(ctx, expired.ID)
		gt.True(t, errors.Is(err, model.ErrSessionNotFound))

		_, err = repo.GetViewSession(ctx, live.ID)
		gt.NoError(t, err)
	})
}

func TestMemoryRepository(t *testing.T) {
	testRepository(t, func(t *testing.T) interfaces.Repository {
		return repository.NewMemory()
	})
}

func TestMemoryRepository_CopiesSessions(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	now := time.Now().UTC()

	session := model.NewViewSession(types.NewSessionID(), now, time.Hour)
	gt.NoError(t, repo.PutViewSession(ctx, session)).Required()

	// mutating the caller's value does not change the stored one
	session.SetRange(model.Presets()[5].Range(now), now, time.Hour)
	retrieved, err := repo.GetViewSession(ctx, session.ID)
	gt.NoError(t, err).Required()
	gt.True(t, retrieved.Range.Equal(model.DefaultDateRange(now)))
}

func TestFirestoreRepository(t *testing.T) {
	// Skip test if Firestore test environment variables are not set
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	if projectID == "" || databaseID == "" {
		t.Skip("Skipping Firestore test: TEST_FIRESTORE_PROJECT and TEST_FIRESTORE_DATABASE must be set")
	}

	testRepository(t, func(t *testing.T) interfaces.Repository {
		ctx := context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
		ctx = ctxlog.With(ctx, logger)

		repo, err := repository.NewFirestore(ctx, projectID, databaseID)
		gt.NoError(t, err)
		return repo
	})
}
