package auth

import (
	"errors"

	"github.com/mcoot/mythcatalog/internal/model"
)

var ErrForbidden = errors.New("access denied")

// Authorize allows a mutation only when the caller created the resource.
// Existence must already have been checked by the caller.
func Authorize(subject, createdBy model.UserID) error {
	if subject == "" || subject != createdBy {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwned is Authorize for any resource that records its creator
func AuthorizeOwned(claims *Claims, resource model.Owned) error {
	if claims == nil {
		return ErrForbidden
	}
	return Authorize(claims.SubjectID, resource.OwnerID())
}
