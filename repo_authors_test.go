package catalog_test

import (
	"context"
	"testing"

	catalog "github.com/goliatone/go-catalog"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) catalog.RepositoryManager {
	t.Helper()

	db, err := catalog.OpenDB("file::memory:")
	require.NoError(t, err)
	// One connection keeps the in-memory database alive across queries.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, catalog.RunMigrations(context.Background(), db))

	repo := catalog.NewRepositoryManager(db)
	require.NoError(t, repo.Validate())

	return repo
}

func TestAuthorsRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	hash, err := catalog.HashPassword("superSecret1!")
	require.NoError(t, err)

	created, err := repo.Authors().Register(ctx, &catalog.Author{
		Name:         "Juan",
		Email:        "Juan@Mail.com",
		PasswordHash: hash,
		Country:      "SPAIN",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "juan@mail.com", created.Email)

	t.Run("password hash is only read with includeSecret", func(t *testing.T) {
		public, err := repo.Authors().GetByEmail(ctx, "juan@mail.com", false)
		require.NoError(t, err)
		assert.Empty(t, public.PasswordHash)

		secret, err := repo.Authors().GetByEmail(ctx, "juan@mail.com", true)
		require.NoError(t, err)
		assert.NoError(t, catalog.ComparePasswordAndHash("superSecret1!", secret.PasswordHash))
	})

	t.Run("update without a hash keeps the stored credential", func(t *testing.T) {
		record, err := repo.Authors().GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.Empty(t, record.PasswordHash)

		record.Name = "Juan Actualizado"
		updated, err := repo.Authors().Update(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Juan Actualizado", updated.Name)

		secret, err := repo.Authors().GetByEmail(ctx, "juan@mail.com", true)
		require.NoError(t, err)
		assert.NoError(t, catalog.ComparePasswordAndHash("superSecret1!", secret.PasswordHash))
	})

	t.Run("live email is unique", func(t *testing.T) {
		_, err := repo.Authors().Register(ctx, &catalog.Author{
			Name:         "Otro Juan",
			Email:        "juan@mail.com",
			PasswordHash: hash,
		})
		require.Error(t, err)
		assert.True(t, catalog.IsDuplicateKeyError(err))
	})

	t.Run("delete frees the email for a new registration", func(t *testing.T) {
		deleted, err := repo.Authors().DeleteByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, deleted.ID)

		_, err = repo.Authors().GetByID(ctx, created.ID)
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))

		total, err := repo.Authors().CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, total)

		again, err := repo.Authors().Register(ctx, &catalog.Author{
			Name:         "Juan",
			Email:        "juan@mail.com",
			PasswordHash: hash,
			Country:      "SPAIN",
		})
		require.NoError(t, err)
		assert.NotEqual(t, created.ID, again.ID)
		assert.Equal(t, "juan@mail.com", again.Email)
	})
}
