package catalog

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Authors is the store behind both the catalog endpoints and the auth core.
type Authors interface {
	Register(ctx context.Context, author *Author) (*Author, error)
	RegisterTx(ctx context.Context, tx bun.IDB, author *Author) (*Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Author, error)
	GetByEmail(ctx context.Context, email string, includeSecret bool) (*Author, error)
	SearchByName(ctx context.Context, name string) ([]*Author, error)
	List(ctx context.Context, req PageRequest) ([]*Author, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, record *Author) (*Author, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*Author, error)
}

type authors struct {
	repository.Repository[*Author]
	db *bun.DB
}

var _ Authors = (*authors)(nil)

func NewAuthorsRepository(db *bun.DB) Authors {
	repo := repository.NewRepository[*Author](db, repository.ModelHandlers[*Author]{
		NewRecord: func() *Author { return &Author{} },
		GetID: func(a *Author) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Author, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &authors{
		Repository: repo,
		db:         db,
	}
}

func (a *authors) Register(ctx context.Context, author *Author) (*Author, error) {
	return a.RegisterTx(ctx, a.db, author)
}

func (a *authors) RegisterTx(ctx context.Context, tx bun.IDB, author *Author) (*Author, error) {
	prepareAuthorDefaults(author)
	return a.Repository.CreateTx(ctx, tx, author)
}

func (a *authors) GetByID(ctx context.Context, id uuid.UUID) (*Author, error) {
	record := &Author{}
	err := a.db.NewSelect().
		Model(record).
		ExcludeColumn("password_hash").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

// GetByEmail fetches an author by the normalized email. The password hash is
// only selected when includeSecret is set, mirroring the write-only contract
// of the credential.
func (a *authors) GetByEmail(ctx context.Context, email string, includeSecret bool) (*Author, error) {
	record := &Author{}
	q := a.db.NewSelect().Model(record)

	if !includeSecret {
		q.ExcludeColumn("password_hash")
	}

	err := q.
		Where("?TableAlias.email = ?", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}

func (a *authors) SearchByName(ctx context.Context, name string) ([]*Author, error) {
	records := make([]*Author, 0)
	err := a.db.NewSelect().
		Model(&records).
		ExcludeColumn("password_hash").
		Where("lower(?TableAlias.name) LIKE ?", strings.ToLower(name)+"%").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *authors) List(ctx context.Context, req PageRequest) ([]*Author, error) {
	records := make([]*Author, 0, req.Limit)
	err := a.db.NewSelect().
		Model(&records).
		ExcludeColumn("password_hash").
		Order("created_at ASC").
		Limit(req.Limit).
		Offset(req.Offset()).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

// CountAll counts the unfiltered set. Count and fetch are two separate
// reads; listings are not point-in-time consistent.
func (a *authors) CountAll(ctx context.Context) (int, error) {
	return a.db.NewSelect().Model((*Author)(nil)).Count(ctx)
}

func (a *authors) Update(ctx context.Context, record *Author) (*Author, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, repository.NewRecordNotFound()
	}
	return a.Repository.UpdateTx(ctx, a.db, record, repository.UpdateByID(record.ID.String()))
}

// DeleteByID soft-deletes the author and returns the record as it was, so
// the handler can echo the deleted entity.
func (a *authors) DeleteByID(ctx context.Context, id uuid.UUID) (*Author, error) {
	record, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := a.db.NewDelete().
		Model((*Author)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func prepareAuthorDefaults(record *Author) {
	if record == nil {
		return
	}

	record.NormalizeEmail()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
