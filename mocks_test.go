package catalog_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	catalog "github.com/goliatone/go-catalog"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type testConfig struct {
	adminEmail      string
	tokenExpiration int
}

func newTestConfig() testConfig {
	return testConfig{
		adminEmail:      "admin@gmail.com",
		tokenExpiration: 1,
	}
}

func (c testConfig) GetSigningKey() string    { return "test-signing-key" }
func (c testConfig) GetSigningMethod() string { return "HS256" }
func (c testConfig) GetContextKey() string    { return "user" }
func (c testConfig) GetTokenExpiration() int  { return c.tokenExpiration }
func (c testConfig) GetTokenLookup() string   { return "header:Authorization" }
func (c testConfig) GetAuthScheme() string    { return "Bearer" }
func (c testConfig) GetIssuer() string        { return "test-issuer" }
func (c testConfig) GetAudience() []string    { return []string{} }
func (c testConfig) GetAdminEmail() string    { return c.adminEmail }

// fakeAuthors is an in-memory Authors store preserving insertion order.
type fakeAuthors struct {
	mu      sync.Mutex
	records []*catalog.Author
}

var _ catalog.Authors = (*fakeAuthors)(nil)

func copyAuthor(a *catalog.Author) *catalog.Author {
	cp := *a
	return &cp
}

func (f *fakeAuthors) Register(ctx context.Context, author *catalog.Author) (*catalog.Author, error) {
	return f.RegisterTx(ctx, nil, author)
}

func (f *fakeAuthors) RegisterTx(ctx context.Context, tx bun.IDB, author *catalog.Author) (*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	author.NormalizeEmail()
	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}

	for _, r := range f.records {
		if r.Email == author.Email {
			return nil, errDuplicate{}
		}
	}

	f.records = append(f.records, copyAuthor(author))
	return copyAuthor(author), nil
}

func (f *fakeAuthors) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.ID == id {
			out := copyAuthor(r)
			out.PasswordHash = ""
			return out, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeAuthors) GetByEmail(ctx context.Context, email string, includeSecret bool) (*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, r := range f.records {
		if r.Email == email {
			out := copyAuthor(r)
			if !includeSecret {
				out.PasswordHash = ""
			}
			return out, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeAuthors) SearchByName(ctx context.Context, name string) ([]*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*catalog.Author{}
	for _, r := range f.records {
		if strings.HasPrefix(strings.ToLower(r.Name), strings.ToLower(name)) {
			cp := copyAuthor(r)
			cp.PasswordHash = ""
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeAuthors) List(ctx context.Context, req catalog.PageRequest) ([]*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*catalog.Author{}
	start := req.Offset()
	for i := start; i < len(f.records) && i < start+req.Limit; i++ {
		cp := copyAuthor(f.records[i])
		cp.PasswordHash = ""
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeAuthors) CountAll(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

func (f *fakeAuthors) Update(ctx context.Context, record *catalog.Author) (*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.records {
		if r.ID == record.ID {
			cp := copyAuthor(record)
			if cp.PasswordHash == "" {
				cp.PasswordHash = r.PasswordHash
			}
			f.records[i] = cp
			return copyAuthor(cp), nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeAuthors) DeleteByID(ctx context.Context, id uuid.UUID) (*catalog.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			out := copyAuthor(r)
			out.PasswordHash = ""
			return out, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

// errDuplicate mimics the driver-level unique violation text.
type errDuplicate struct{}

func (errDuplicate) Error() string { return "UNIQUE constraint failed: authors.email" }

// fakeBooks is the in-memory Books store.
type fakeBooks struct {
	mu      sync.Mutex
	records []*catalog.Book
}

var _ catalog.Books = (*fakeBooks)(nil)

func copyBook(b *catalog.Book) *catalog.Book {
	cp := *b
	return &cp
}

func (f *fakeBooks) Create(ctx context.Context, book *catalog.Book) (*catalog.Book, error) {
	return f.CreateTx(ctx, nil, book)
}

func (f *fakeBooks) CreateTx(ctx context.Context, tx bun.IDB, book *catalog.Book) (*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	f.records = append(f.records, copyBook(book))
	return copyBook(book), nil
}

func (f *fakeBooks) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.ID == id {
			return copyBook(r), nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeBooks) SearchByTitle(ctx context.Context, title string) ([]*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*catalog.Book{}
	for _, r := range f.records {
		if strings.HasPrefix(strings.ToLower(r.Title), strings.ToLower(title)) {
			out = append(out, copyBook(r))
		}
	}
	return out, nil
}

func (f *fakeBooks) List(ctx context.Context, req catalog.PageRequest) ([]*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []*catalog.Book{}
	start := req.Offset()
	for i := start; i < len(f.records) && i < start+req.Limit; i++ {
		out = append(out, copyBook(f.records[i]))
	}
	return out, nil
}

func (f *fakeBooks) CountAll(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records), nil
}

func (f *fakeBooks) Update(ctx context.Context, record *catalog.Book) (*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.records {
		if r.ID == record.ID {
			f.records[i] = copyBook(record)
			return copyBook(record), nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeBooks) DeleteByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return copyBook(r), nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

// fakeRepo wires the fakes behind the RepositoryManager interface.
type fakeRepo struct {
	authors *fakeAuthors
	books   *fakeBooks
}

var _ catalog.RepositoryManager = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		authors: &fakeAuthors{},
		books:   &fakeBooks{},
	}
}

func (f *fakeRepo) Validate() error { return nil }
func (f *fakeRepo) MustValidate()   {}

func (f *fakeRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

func (f *fakeRepo) Authors() catalog.Authors { return f.authors }
func (f *fakeRepo) Books() catalog.Books     { return f.books }
