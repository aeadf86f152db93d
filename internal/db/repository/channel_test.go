package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idea-gen/youtube-idea-generator-go/internal/db"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/models"
	"github.com/idea-gen/youtube-idea-generator-go/internal/db/testutil"
)

func TestChannelRepository_Create(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewChannelRepository(td.Pool)
	ctx := context.Background()

	t.Run("creates channel", func(t *testing.T) {
		td.TruncateTables(t)

		channel := models.NewChannel("user-1", "Tech")
		err := repo.Create(ctx, channel)
		require.NoError(t, err)

		channels, err := repo.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, channels, 1)
		assert.Equal(t, "Tech", channels[0].Name)
		assert.Empty(t, channels[0].ExternalID)
	})

	t.Run("rejects duplicate name for same owner", func(t *testing.T) {
		td.TruncateTables(t)

		require.NoError(t, repo.Create(ctx, models.NewChannel("user-1", "Tech")))

		err := repo.Create(ctx, models.NewChannel("user-1", "Tech"))
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKey(err))
	})

	t.Run("same name is fine across owners", func(t *testing.T) {
		td.TruncateTables(t)

		require.NoError(t, repo.Create(ctx, models.NewChannel("user-1", "Tech")))
		require.NoError(t, repo.Create(ctx, models.NewChannel("user-2", "Tech")))
	})
}

func TestChannelRepository_DeleteOwned(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewChannelRepository(td.Pool)
	ctx := context.Background()

	t.Run("deletes own channel", func(t *testing.T) {
		td.TruncateTables(t)

		channel := models.NewChannel("user-1", "Tech")
		require.NoError(t, repo.Create(ctx, channel))

		require.NoError(t, repo.DeleteOwned(ctx, "user-1", channel.ID))

		channels, err := repo.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, channels)
	})

	t.Run("never deletes another owner's channel", func(t *testing.T) {
		td.TruncateTables(t)

		channel := models.NewChannel("user-1", "Tech")
		require.NoError(t, repo.Create(ctx, channel))

		err := repo.DeleteOwned(ctx, "user-2", channel.ID)
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))

		channels, err := repo.ListByOwner(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, channels, 1)
	})

	t.Run("not found for unknown id", func(t *testing.T) {
		td.TruncateTables(t)

		err := repo.DeleteOwned(ctx, "user-1", uuid.New())
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestChannelRepository_SetExternalID(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	repo := NewChannelRepository(td.Pool)
	ctx := context.Background()
	td.TruncateTables(t)

	channel := models.NewChannel("user-1", "Tech")
	require.NoError(t, repo.Create(ctx, channel))

	require.NoError(t, repo.SetExternalID(ctx, channel.ID, "UCtech"))

	channels, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "UCtech", channels[0].ExternalID)
}
