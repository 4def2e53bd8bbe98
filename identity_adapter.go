package catalog

// AuthorIdentity adapts an Author into the Identity interface for token
// generation.
type AuthorIdentity struct {
	author *Author
}

// NewIdentityFromAuthor returns an Identity adapter for the provided author.
func NewIdentityFromAuthor(author *Author) Identity {
	if author == nil {
		return nil
	}
	return AuthorIdentity{author: author}
}

// ID returns the author's ID as a string.
func (u AuthorIdentity) ID() string {
	if u.author == nil {
		return ""
	}
	return u.author.ID.String()
}

// Name returns the author's display name.
func (u AuthorIdentity) Name() string {
	if u.author == nil {
		return ""
	}
	return u.author.Name
}

// Email returns the author's email address.
func (u AuthorIdentity) Email() string {
	if u.author == nil {
		return ""
	}
	return u.author.Email
}
