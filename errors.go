package catalog

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingToken       = "auth_missing_token"
	TextCodeTokenMalformed     = "auth_token_malformed"
	TextCodeTokenSignature     = "auth_token_signature_invalid"
	TextCodeTokenExpired       = "auth_token_expired"
	TextCodeIdentityNotFound   = "auth_identity_not_found"
	TextCodeCredentialMismatch = "auth_credential_mismatch"
	TextCodeOwnershipDenied    = "auth_ownership_denied"
	TextCodeInvalidDigest      = "auth_invalid_digest"
	TextCodeInvalidPagination  = "pagination_invalid_params"
	TextCodeDuplicateEmail     = "author_duplicate_email"
)

// MsgUnauthorized is the single user-facing message for every gate and
// ownership failure. The internal error kind differs, the external message
// does not. Kept verbatim for API compatibility.
const MsgUnauthorized = "No tienes autorización para realizar esta operación"

// MsgBadCredentials is returned for unknown emails and wrong passwords alike.
const MsgBadCredentials = "Email y/o contraseña incorrectos"

// MsgMissingCredentials is returned when the login body lacks email or password.
const MsgMissingCredentials = "Se deben especificar los campos email y password"

// MsgInvalidPagination is the book-listing rejection for bad page/limit params.
const MsgInvalidPagination = "Params page or limit are not valid"

// ErrMissingToken is returned when the Authorization header carries no bearer token.
var ErrMissingToken = errors.New("missing bearer token", errors.CategoryAuth).
	WithTextCode(TextCodeMissingToken).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenSignatureInvalid is returned when the signature does not match the
// process signing key, which covers tampering and key rotation mismatches.
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the embedded expiry has passed.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when a valid token references an author
// that no longer exists, e.g. a deleted account holding a live token.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword covers unknown emails and wrong passwords with
// a single value so callers cannot tell the two apart.
var ErrMismatchedHashAndPassword = errors.New("credentials do not match", errors.CategoryAuth).
	WithTextCode(TextCodeCredentialMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrOwnershipDenied is returned when an authenticated identity tries to
// mutate a resource it does not own. Surfaces as the same 401 as the gate.
var ErrOwnershipDenied = errors.New("identity does not own the target resource", errors.CategoryAuthz).
	WithTextCode(TextCodeOwnershipDenied).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidDigest is returned when a stored password digest is structurally
// corrupt, as opposed to a plain mismatch.
var ErrInvalidDigest = errors.New("stored password digest is corrupt", errors.CategoryInternal).
	WithTextCode(TextCodeInvalidDigest).
	WithCode(errors.CodeInternal)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrInvalidPagination is the strict lister rejection.
var ErrInvalidPagination = errors.New(MsgInvalidPagination, errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidPagination).
	WithCode(errors.CodeBadRequest)

// ErrDuplicateEmail surfaces the unique email constraint as a 400, matching
// the store-level behavior callers already depend on.
var ErrDuplicateEmail = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) || strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsDuplicateKeyError detects unique constraint violations across the sqlite
// and postgres drivers bun can sit on.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key")
}
