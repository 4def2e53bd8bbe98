package catalog

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterAuthorMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Country   string `json:"country"`
	UseHashid bool

	// OnCreated receives the persisted record inside the transaction.
	OnCreated func(*Author)
}

func (e RegisterAuthorMessage) Type() string { return "author.register" }

type RegisterAuthorHandler struct {
	repo RepositoryManager
}

func NewRegisterAuthorHandler(repo RepositoryManager) *RegisterAuthorHandler {
	return &RegisterAuthorHandler{repo: repo}
}

func (h *RegisterAuthorHandler) Execute(ctx context.Context, event RegisterAuthorMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during author registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAuthorHandler) execute(ctx context.Context, event RegisterAuthorMessage) error {
	author := &Author{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		author.PasswordHash = hash
		author.Name = event.Name
		author.Email = event.Email
		author.Country = event.Country
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				author.ID = id
			}
		}

		if author, err = h.repo.Authors().RegisterTx(ctx, tx, author); err != nil {
			if IsDuplicateKeyError(err) {
				return ErrDuplicateEmail.Clone().WithMetadata(map[string]any{
					"email": author.Email,
				})
			}
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create author")
		}

		if event.OnCreated != nil {
			event.OnCreated(author)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "author registration transaction failed")
	}

	return nil
}
