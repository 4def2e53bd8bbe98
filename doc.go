// Package catalog implements a small catalog API (authors and their books)
// with self-service accounts on top of stateless JWT sessions.
//
// Authors double as accounts: they register with an email and password,
// log in for a signed bearer token, and own the books that reference them.
// Mutations pass through two layers: the authentication gate, which
// validates the token and re-resolves the author against the store, and the
// ownership rule, which allows the record owner or the configured admin
// identity. Every failure in either layer reads the same from outside.
//
// Storage is bun over sqlite with embedded migrations; validation is ozzo;
// errors carry category and code through goliatone/go-errors so the HTTP
// boundary can translate them uniformly.
package catalog
