package catalog

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
)

// CategoryInput holds the fields of a category
type CategoryInput struct {
	Name      string
	CreatedBy model.UserID
}

func validateCategory(c *model.Category) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(3, 255)),
	)
}

// CreateCategory adds a category owned by the caller
func (s *Service) CreateCategory(ctx context.Context, claims *auth.Claims, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, ErrMissingFields
	}
	createdBy, err := creatorFor(claims, in.CreatedBy)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	category := &model.Category{
		ID:        model.CategoryID(s.random.NewID()),
		Name:      in.Name,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	if err := s.storage.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory returns a single category
func (s *Service) GetCategory(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	return s.storage.GetCategory(ctx, id)
}

// ListCategories returns every category, oldest first
func (s *Service) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.storage.ListCategories(ctx)
}

// UpdateCategory renames a category on behalf of its owner
func (s *Service) UpdateCategory(ctx context.Context, claims *auth.Claims, id model.CategoryID, in CategoryInput) (*model.Category, error) {
	category, err := s.storage.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	var claimed *model.UserID
	if in.CreatedBy != "" {
		claimed = &in.CreatedBy
	}
	if err := checkOwner(claims, category, claimed); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, ErrMissingFields
	}

	category.Name = in.Name
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	category.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category on behalf of its owner and returns it
func (s *Service) DeleteCategory(ctx context.Context, claims *auth.Claims, id model.CategoryID) (*model.Category, error) {
	category, err := s.storage.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwned(claims, category); err != nil {
		return nil, err
	}

	if err := s.storage.DeleteCategory(ctx, id); err != nil {
		return nil, err
	}
	return category, nil
}
