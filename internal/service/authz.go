// Package service contains the application's orchestration layer: the author
// guard, the visibility-aware fetch algorithms, and the feed compositions.
package service

import "inkwell/internal/models"

// Authored is implemented by content owned by a single author that lives on a
// post's detail page.
type Authored interface {
	AuthoredBy() uint
	OwningPostID() uint
}

// RequireAuthor gates mutating operations to the content's author. Identity is
// compared by primary key only; the guard knows nothing about publication
// state. On failure it returns a NotAuthorError carrying the owning post's ID
// so the caller is bounced to a page it can legitimately view instead of
// being shown an authorization error.
func RequireAuthor(actorID uint, target Authored) error {
	if target.AuthoredBy() == actorID {
		return nil
	}
	return &models.NotAuthorError{PostID: target.OwningPostID()}
}
