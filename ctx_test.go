package catalog_test

import (
	"context"
	"testing"

	catalog "github.com/goliatone/go-catalog"
	"github.com/stretchr/testify/assert"
)

func TestAuthorContextRoundtrip(t *testing.T) {
	author := &catalog.Author{Name: "Juan", Email: "juan@mail.com"}

	ctx := catalog.WithAuthor(context.Background(), author)
	got, ok := catalog.AuthorFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, author, got)

	_, ok = catalog.AuthorFromContext(context.Background())
	assert.False(t, ok)
}
