package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AllowedCountries is the closed list shared by author records and book
// publishers.
var AllowedCountries = []string{"SPAIN", "ITALY", "USA", "GERMANY", "JAPAN", "FRANCE"}

// IsAllowedCountry reports whether the (upper-cased) country is on the list.
func IsAllowedCountry(country string) bool {
	country = strings.ToUpper(strings.TrimSpace(country))
	for _, c := range AllowedCountries {
		if c == country {
			return true
		}
	}
	return false
}

// allowedCountriesAny adapts the list for ozzo In rules.
func allowedCountriesAny() []any {
	out := make([]any, 0, len(AllowedCountries))
	for _, c := range AllowedCountries {
		out = append(out, c)
	}
	return out
}

// Author is both a catalog record and the account that authenticates and
// owns resources. The password hash never leaves the process: it is
// excluded from every outward representation.
type Author struct {
	bun.BaseModel `bun:"table:authors,alias:aut"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Country       string     `bun:"country" json:"country,omitempty"`
	ProfileImage  string     `bun:"profile_image" json:"profileImage,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// NormalizeEmail lower-cases and trims the email so uniqueness is
// case-insensitive at the store level.
func (a *Author) NormalizeEmail() {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
}

// Publisher is the embedded publisher block of a book.
type Publisher struct {
	Name    string `bun:"name" json:"name,omitempty"`
	Country string `bun:"country" json:"country,omitempty"`
}

// Book is a catalog item. Ownership is the author_id reference: a weak
// relation used for lookups and the ownership check, never a cascade.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:bok"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Pages         int        `bun:"pages" json:"pages,omitempty"`
	Publisher     Publisher  `bun:"embed:publisher_" json:"publisher,omitempty"`
	AuthorID      uuid.UUID  `bun:"author_id,nullzero,type:uuid" json:"author_id,omitempty"`
	Author        *Author    `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
