package request

import (
	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/services/catalog"
)

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToInput converts the request to the auth service input
func (r RegisterRequest) ToInput() auth.RegisterInput {
	return auth.RegisterInput{Username: r.Username, Email: r.Email, Password: r.Password}
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToInput converts the request to the auth service input
func (r LoginRequest) ToInput() auth.LoginInput {
	return auth.LoginInput{Email: r.Email, Password: r.Password}
}

// CreatureRequest is the request body for creating or updating a creature.
// Absent fields are nil so that updates only touch what was sent.
type CreatureRequest struct {
	Name        *string `json:"name"`
	Translation *string `json:"translation"`
	Description *string `json:"description"`
	PowerLevel  *int    `json:"powerLevel"`
	Strengths   *string `json:"strengths"`
	Weaknesses  *string `json:"weaknesses"`
	FunFact     *string `json:"funFact"`
	ImageURL    *string `json:"imageURL"`
	Category    *string `json:"category"`
	CreatedBy   *string `json:"_createdBy"`
}

// ToInput converts the request to a create input
func (r CreatureRequest) ToInput() catalog.CreatureInput {
	return catalog.CreatureInput{
		Name:        deref(r.Name),
		Translation: deref(r.Translation),
		Description: deref(r.Description),
		PowerLevel:  deref(r.PowerLevel),
		Strengths:   deref(r.Strengths),
		Weaknesses:  deref(r.Weaknesses),
		FunFact:     deref(r.FunFact),
		ImageURL:    deref(r.ImageURL),
		Category:    model.CategoryID(deref(r.Category)),
		CreatedBy:   model.UserID(deref(r.CreatedBy)),
	}
}

// ToPatch converts the request to a partial update
func (r CreatureRequest) ToPatch() catalog.CreaturePatch {
	return catalog.CreaturePatch{
		Name:        r.Name,
		Translation: r.Translation,
		Description: r.Description,
		PowerLevel:  r.PowerLevel,
		Strengths:   r.Strengths,
		Weaknesses:  r.Weaknesses,
		FunFact:     r.FunFact,
		ImageURL:    r.ImageURL,
		Category:    convert[string, model.CategoryID](r.Category),
		CreatedBy:   convert[string, model.UserID](r.CreatedBy),
	}
}

// CategoryRequest is the request body for creating or renaming a category
type CategoryRequest struct {
	Name      string `json:"name"`
	CreatedBy string `json:"_createdBy,omitempty"`
}

// ToInput converts the request to the catalog service input
func (r CategoryRequest) ToInput() catalog.CategoryInput {
	return catalog.CategoryInput{Name: r.Name, CreatedBy: model.UserID(r.CreatedBy)}
}

// ChoiceRequest is one answer option of a question
type ChoiceRequest struct {
	Text        string   `json:"text"`
	CreatureIDs []string `json:"creatureIds"`
}

// QuestionRequest is the request body for creating or updating a quiz question
type QuestionRequest struct {
	Text      *string         `json:"text"`
	Options   []ChoiceRequest `json:"options"`
	CreatedBy *string         `json:"_createdBy"`
}

// ToInput converts the request to a create input
func (r QuestionRequest) ToInput() catalog.QuestionInput {
	return catalog.QuestionInput{
		Text:      deref(r.Text),
		Options:   toChoices(r.Options),
		CreatedBy: model.UserID(deref(r.CreatedBy)),
	}
}

// ToPatch converts the request to a partial update
func (r QuestionRequest) ToPatch() catalog.QuestionPatch {
	return catalog.QuestionPatch{
		Text:      r.Text,
		Options:   toChoices(r.Options),
		CreatedBy: convert[string, model.UserID](r.CreatedBy),
	}
}

func toChoices(options []ChoiceRequest) []model.Choice {
	if options == nil {
		return nil
	}
	choices := make([]model.Choice, len(options))
	for i, opt := range options {
		ids := make([]model.CreatureID, len(opt.CreatureIDs))
		for j, id := range opt.CreatureIDs {
			ids[j] = model.CreatureID(id)
		}
		choices[i] = model.Choice{Text: opt.Text, CreatureIDs: ids}
	}
	return choices
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func convert[From ~string, To ~string](v *From) *To {
	if v == nil {
		return nil
	}
	out := To(*v)
	return &out
}
