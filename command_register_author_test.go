package catalog_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	catalog "github.com/goliatone/go-catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAuthorHandler(t *testing.T) {
	t.Run("hashes the password and creates the record", func(t *testing.T) {
		repo := newFakeRepo()
		handler := catalog.NewRegisterAuthorHandler(repo)

		var created *catalog.Author
		err := handler.Execute(context.Background(), catalog.RegisterAuthorMessage{
			Name:     "Juan",
			Email:    "Juan@Mail.com",
			Password: "superSecret1!",
			Country:  "SPAIN",
			OnCreated: func(a *catalog.Author) {
				created = a
			},
		})
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, "juan@mail.com", created.Email)
		assert.NotEmpty(t, created.PasswordHash)
		assert.NotEqual(t, "superSecret1!", created.PasswordHash)
		assert.NoError(t, catalog.ComparePasswordAndHash("superSecret1!", created.PasswordHash))
	})

	t.Run("rejects empty passwords", func(t *testing.T) {
		repo := newFakeRepo()
		handler := catalog.NewRegisterAuthorHandler(repo)

		err := handler.Execute(context.Background(), catalog.RegisterAuthorMessage{
			Name:  "Juan",
			Email: "juan@mail.com",
		})
		assert.Error(t, err)
	})

	t.Run("duplicate email surfaces as conflict", func(t *testing.T) {
		repo := newFakeRepo()
		handler := catalog.NewRegisterAuthorHandler(repo)

		msg := catalog.RegisterAuthorMessage{
			Name:     "Juan",
			Email:    "juan@mail.com",
			Password: "superSecret1!",
		}

		require.NoError(t, handler.Execute(context.Background(), msg))

		err := handler.Execute(context.Background(), msg)
		assert.Error(t, err)

		var rich *goerrors.Error
		require.True(t, goerrors.As(err, &rich))
		assert.Equal(t, catalog.TextCodeDuplicateEmail, rich.TextCode)
	})

	t.Run("hashid derives a deterministic id from the email", func(t *testing.T) {
		var first, second *catalog.Author

		repoA := newFakeRepo()
		require.NoError(t, catalog.NewRegisterAuthorHandler(repoA).Execute(context.Background(), catalog.RegisterAuthorMessage{
			Name: "Juan", Email: "juan@mail.com", Password: "superSecret1!",
			UseHashid: true,
			OnCreated: func(a *catalog.Author) { first = a },
		}))

		repoB := newFakeRepo()
		require.NoError(t, catalog.NewRegisterAuthorHandler(repoB).Execute(context.Background(), catalog.RegisterAuthorMessage{
			Name: "Juan", Email: "juan@mail.com", Password: "superSecret1!",
			UseHashid: true,
			OnCreated: func(a *catalog.Author) { second = a },
		}))

		require.NotNil(t, first)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		repo := newFakeRepo()
		handler := catalog.NewRegisterAuthorHandler(repo)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := handler.Execute(ctx, catalog.RegisterAuthorMessage{
			Name: "Juan", Email: "juan@mail.com", Password: "superSecret1!",
		})
		assert.Error(t, err)
	})
}
