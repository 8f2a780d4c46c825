package catalog

import (
	"errors"
	"log/slog"

	"github.com/mcoot/mythcatalog/internal/dependencies/clock"
	"github.com/mcoot/mythcatalog/internal/dependencies/random"
	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// ErrMissingFields is returned when a create request omits a required field
var ErrMissingFields = errors.New("missing required fields")

// Service manages creatures, categories and quiz questions.
// Every mutation is attributed to the caller's verified claims; updates and
// deletes go through the ownership check once the target is known to exist.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new catalog Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// creatorFor returns the creator to record on a new resource.
// A claimed creator that differs from the token subject is refused.
func creatorFor(claims *auth.Claims, claimed model.UserID) (model.UserID, error) {
	if claims == nil || claims.SubjectID == "" {
		return "", auth.ErrForbidden
	}
	if claimed != "" && claimed != claims.SubjectID {
		return "", auth.ErrForbidden
	}
	return claims.SubjectID, nil
}

// checkOwner authorizes a mutation of an existing resource.
// A patch may name the creator but never change it.
func checkOwner(claims *auth.Claims, resource model.Owned, claimed *model.UserID) error {
	if err := auth.AuthorizeOwned(claims, resource); err != nil {
		return err
	}
	if claimed != nil && *claimed != resource.OwnerID() {
		return auth.ErrForbidden
	}
	return nil
}
