package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, int64(10), user.ChatID)
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.SetState(entity.StateProcessing)

	fresh, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, fresh.State, "state changes only after Save")

	require.NoError(t, repo.Save(ctx, user))
	fresh, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, fresh.State)
}

func TestMemoryUserRepository_UpdateState(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.Error(t, repo.UpdateState(ctx, 7, entity.StateAwaitingPhoto))

	_, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateState(ctx, 7, entity.StateAwaitingPhoto))

	user, err := repo.Get(ctx, 7, 70)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)
}

func TestMemoryUserRepository_ChatChange(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	user, err := repo.Get(ctx, 1, 11)
	require.NoError(t, err)
	require.Equal(t, int64(11), user.ChatID)
}
