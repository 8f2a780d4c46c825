package catalog

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
)

// CreatureInput holds the fields of a new creature
type CreatureInput struct {
	Name        string
	Translation string
	Description string
	PowerLevel  int
	Strengths   string
	Weaknesses  string
	FunFact     string
	ImageURL    string
	Category    model.CategoryID
	CreatedBy   model.UserID
}

func (in CreatureInput) missingFields() bool {
	return in.Name == "" || in.Translation == "" || in.Description == "" || in.PowerLevel == 0 ||
		in.Strengths == "" || in.Weaknesses == "" || in.FunFact == "" || in.ImageURL == ""
}

// CreaturePatch holds the fields of a partial creature update. Nil fields are left unchanged.
type CreaturePatch struct {
	Name        *string
	Translation *string
	Description *string
	PowerLevel  *int
	Strengths   *string
	Weaknesses  *string
	FunFact     *string
	ImageURL    *string
	Category    *model.CategoryID
	CreatedBy   *model.UserID
}

func (p CreaturePatch) apply(c *model.Creature) {
	setIf(&c.Name, p.Name)
	setIf(&c.Translation, p.Translation)
	setIf(&c.Description, p.Description)
	setIf(&c.PowerLevel, p.PowerLevel)
	setIf(&c.Strengths, p.Strengths)
	setIf(&c.Weaknesses, p.Weaknesses)
	setIf(&c.FunFact, p.FunFact)
	setIf(&c.ImageURL, p.ImageURL)
	setIf(&c.Category, p.Category)
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func validateCreature(c *model.Creature) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(3, 255)),
		validation.Field(&c.Translation, validation.Required, validation.Length(3, 255)),
		validation.Field(&c.Description, validation.Required, validation.Length(6, 300)),
		validation.Field(&c.PowerLevel, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.Strengths, validation.Required, validation.Length(3, 255)),
		validation.Field(&c.Weaknesses, validation.Required, validation.Length(3, 255)),
		validation.Field(&c.FunFact, validation.Required, validation.Length(10, 300)),
		validation.Field(&c.ImageURL, validation.Required, is.URL),
	)
}

// checkCategory verifies that a referenced category exists
func (s *Service) checkCategory(ctx context.Context, id model.CategoryID) error {
	if id == "" {
		return nil
	}
	if _, err := s.storage.GetCategory(ctx, id); err != nil {
		if errors.Is(err, model.ErrCategoryNotFound) {
			return validation.Errors{"category": errors.New("unknown category")}
		}
		return err
	}
	return nil
}

// CreateCreature adds a creature owned by the caller
func (s *Service) CreateCreature(ctx context.Context, claims *auth.Claims, in CreatureInput) (*model.Creature, error) {
	if in.missingFields() {
		return nil, ErrMissingFields
	}
	createdBy, err := creatorFor(claims, in.CreatedBy)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	creature := &model.Creature{
		ID:          model.CreatureID(s.random.NewID()),
		Name:        in.Name,
		Translation: in.Translation,
		Description: in.Description,
		PowerLevel:  in.PowerLevel,
		Strengths:   in.Strengths,
		Weaknesses:  in.Weaknesses,
		FunFact:     in.FunFact,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := validateCreature(creature); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, creature.Category); err != nil {
		return nil, err
	}

	if err := s.storage.CreateCreature(ctx, creature); err != nil {
		return nil, err
	}

	s.logger.Info("creature created", "creature_id", creature.ID, "created_by", createdBy)
	return creature, nil
}

// GetCreature returns a single creature
func (s *Service) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	return s.storage.GetCreature(ctx, id)
}

// ListCreatures returns every creature, oldest first
func (s *Service) ListCreatures(ctx context.Context) ([]*model.Creature, error) {
	return s.storage.ListCreatures(ctx)
}

// UpdateCreature applies a partial update on behalf of the creature's owner
func (s *Service) UpdateCreature(ctx context.Context, claims *auth.Claims, id model.CreatureID, patch CreaturePatch) (*model.Creature, error) {
	creature, err := s.storage.GetCreature(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(claims, creature, patch.CreatedBy); err != nil {
		return nil, err
	}

	patch.apply(creature)
	if err := validateCreature(creature); err != nil {
		return nil, err
	}
	if patch.Category != nil {
		if err := s.checkCategory(ctx, creature.Category); err != nil {
			return nil, err
		}
	}
	creature.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdateCreature(ctx, creature); err != nil {
		return nil, err
	}
	return creature, nil
}

// DeleteCreature removes a creature on behalf of its owner and returns it
func (s *Service) DeleteCreature(ctx context.Context, claims *auth.Claims, id model.CreatureID) (*model.Creature, error) {
	creature, err := s.storage.GetCreature(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwned(claims, creature); err != nil {
		return nil, err
	}

	if err := s.storage.DeleteCreature(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("creature deleted", "creature_id", id)
	return creature, nil
}
