package catalog

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
)

// QuestionInput holds the fields of a new quiz question
type QuestionInput struct {
	Text      string
	Options   []model.Choice
	CreatedBy model.UserID
}

// QuestionPatch holds the fields of a partial question update
type QuestionPatch struct {
	Text      *string
	Options   []model.Choice // nil leaves options unchanged
	CreatedBy *model.UserID
}

var errDuplicateCreature = errors.New("must not list the same creature twice")

func validateOptions(value any) error {
	options, _ := value.([]model.Choice)
	for i := range options {
		if err := validateChoice(&options[i]); err != nil {
			return fmt.Errorf("option %d: %w", i, err)
		}
	}
	return nil
}

func validateChoice(choice *model.Choice) error {
	return validation.ValidateStruct(choice,
		validation.Field(&choice.Text, validation.Required, validation.Length(3, 100)),
		validation.Field(&choice.CreatureIDs, validation.Required, validation.Length(1, 0), validation.By(uniqueCreatureIDs)),
	)
}

func uniqueCreatureIDs(value any) error {
	ids, _ := value.([]model.CreatureID)
	seen := make(map[model.CreatureID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return errDuplicateCreature
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateQuestion(q *model.Question) error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Text, validation.Required, validation.Length(6, 200)),
		validation.Field(&q.Options, validation.Required, validation.Length(2, 0), validation.By(validateOptions)),
	)
}

// checkCreatures verifies that every creature referenced by the options exists
func (s *Service) checkCreatures(ctx context.Context, options []model.Choice) error {
	for i, opt := range options {
		for _, id := range opt.CreatureIDs {
			if _, err := s.storage.GetCreature(ctx, id); err != nil {
				if errors.Is(err, model.ErrCreatureNotFound) {
					return validation.Errors{"options": fmt.Errorf("option %d references unknown creature %s", i, id)}
				}
				return err
			}
		}
	}
	return nil
}

// CreateQuestion adds a quiz question owned by the caller
func (s *Service) CreateQuestion(ctx context.Context, claims *auth.Claims, in QuestionInput) (*model.Question, error) {
	if in.Text == "" || len(in.Options) < 2 {
		return nil, ErrMissingFields
	}
	createdBy, err := creatorFor(claims, in.CreatedBy)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	question := &model.Question{
		ID:        model.QuestionID(s.random.NewID()),
		Text:      in.Text,
		Options:   in.Options,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}
	if err := s.checkCreatures(ctx, question.Options); err != nil {
		return nil, err
	}

	if err := s.storage.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// GetQuestion returns a single question
func (s *Service) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	return s.storage.GetQuestion(ctx, id)
}

// ListQuestions returns every question, oldest first
func (s *Service) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	return s.storage.ListQuestions(ctx)
}

// UpdateQuestion applies a partial update on behalf of the question's owner
func (s *Service) UpdateQuestion(ctx context.Context, claims *auth.Claims, id model.QuestionID, patch QuestionPatch) (*model.Question, error) {
	question, err := s.storage.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(claims, question, patch.CreatedBy); err != nil {
		return nil, err
	}

	setIf(&question.Text, patch.Text)
	if patch.Options != nil {
		question.Options = patch.Options
	}
	if err := validateQuestion(question); err != nil {
		return nil, err
	}
	if patch.Options != nil {
		if err := s.checkCreatures(ctx, question.Options); err != nil {
			return nil, err
		}
	}
	question.UpdatedAt = s.clock.Now()

	if err := s.storage.UpdateQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question on behalf of its owner and returns it
func (s *Service) DeleteQuestion(ctx context.Context, claims *auth.Claims, id model.QuestionID) (*model.Question, error) {
	question, err := s.storage.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwned(claims, question); err != nil {
		return nil, err
	}

	if err := s.storage.DeleteQuestion(ctx, id); err != nil {
		return nil, err
	}
	return question, nil
}
