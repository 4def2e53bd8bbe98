package catalog

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AuthorStore is the read surface the auth core needs from the authors
// repository.
type AuthorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Author, error)
	GetByEmail(ctx context.Context, email string, includeSecret bool) (*Author, error)
}

// AuthorProvider resolves identities against the authors store.
type AuthorProvider struct {
	store  AuthorStore
	logger Logger
}

// NewAuthorProvider will create a new AuthorProvider
func NewAuthorProvider(store AuthorStore) *AuthorProvider {
	return &AuthorProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *AuthorProvider) WithLogger(l Logger) *AuthorProvider {
	u.logger = l
	return u
}

// VerifyIdentity will find the author, compare the password, and return the
// identity. Unknown email and wrong password produce the same error value so
// the login surface cannot be used to enumerate accounts.
func (u AuthorProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	author, err := u.store.GetByEmail(ctx, identifier, true)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve author during verification")
	}

	if author == nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := ComparePasswordAndHash(password, author.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return NewIdentityFromAuthor(author), nil
}

// FindIdentityByIdentifier resolves an id or email into a live identity.
func (u AuthorProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	var author *Author
	var err error

	if id, uuidErr := uuid.Parse(identifier); uuidErr == nil {
		author, err = u.store.GetByID(ctx, id)
	} else {
		author, err = u.store.GetByEmail(ctx, identifier, false)
	}

	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	if author == nil {
		return nil, ErrIdentityNotFound
	}

	return NewIdentityFromAuthor(author), nil
}

var _ IdentityProvider = (*AuthorProvider)(nil)
