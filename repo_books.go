package catalog

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Books is the catalog item store. Every read loads the author relation the
// way callers expect the populated envelope.
type Books interface {
	Create(ctx context.Context, book *Book) (*Book, error)
	CreateTx(ctx context.Context, tx bun.IDB, book *Book) (*Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	SearchByTitle(ctx context.Context, title string) ([]*Book, error)
	List(ctx context.Context, req PageRequest) ([]*Book, error)
	CountAll(ctx context.Context) (int, error)
	Update(ctx context.Context, record *Book) (*Book, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*Book, error)
}

type books struct {
	repository.Repository[*Book]
	db *bun.DB
}

var _ Books = (*books)(nil)

func NewBooksRepository(db *bun.DB) Books {
	repo := repository.NewRepository[*Book](db, repository.ModelHandlers[*Book]{
		NewRecord: func() *Book { return &Book{} },
		GetID: func(b *Book) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Book, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
	})

	return &books{
		Repository: repo,
		db:         db,
	}
}

func (b *books) Create(ctx context.Context, book *Book) (*Book, error) {
	return b.CreateTx(ctx, b.db, book)
}

func (b *books) CreateTx(ctx context.Context, tx bun.IDB, book *Book) (*Book, error) {
	prepareBookDefaults(book)
	return b.Repository.CreateTx(ctx, tx, book)
}

func (b *books) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	record := &Book{}
	err := b.db.NewSelect().
		Model(record).
		Relation("Author").
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

func (b *books) SearchByTitle(ctx context.Context, title string) ([]*Book, error) {
	records := make([]*Book, 0)
	err := b.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("lower(?TableAlias.title) LIKE ?", strings.ToLower(title)+"%").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (b *books) List(ctx context.Context, req PageRequest) ([]*Book, error) {
	records := make([]*Book, 0, req.Limit)
	err := b.db.NewSelect().
		Model(&records).
		Relation("Author").
		Order("created_at ASC").
		Limit(req.Limit).
		Offset(req.Offset()).
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (b *books) CountAll(ctx context.Context) (int, error) {
	return b.db.NewSelect().Model((*Book)(nil)).Count(ctx)
}

func (b *books) Update(ctx context.Context, record *Book) (*Book, error) {
	if record == nil || record.ID == uuid.Nil {
		return nil, repository.NewRecordNotFound()
	}

	if _, err := b.Repository.UpdateTx(ctx, b.db, record, repository.UpdateByID(record.ID.String())); err != nil {
		return nil, err
	}

	// Re-read so the response carries the author relation.
	return b.GetByID(ctx, record.ID)
}

func (b *books) DeleteByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	record, err := b.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := b.db.NewDelete().
		Model((*Book)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func prepareBookDefaults(record *Book) {
	if record == nil {
		return
	}

	record.Publisher.Country = strings.ToUpper(strings.TrimSpace(record.Publisher.Country))

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
