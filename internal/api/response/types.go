package response

import (
	"time"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
)

// Envelope is the body shape of the user endpoints
type Envelope struct {
	Error *string `json:"error"`
	Data  any     `json:"data"`
}

// OK wraps data in a successful envelope
func OK(data any) Envelope {
	return Envelope{Error: nil, Data: data}
}

// LoginData is the payload of a successful login
type LoginData struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// LoginDataFromResult converts an auth.LoginResult
func LoginDataFromResult(res *auth.LoginResult) LoginData {
	return LoginData{UserID: string(res.UserID), Token: res.Token}
}

// User represents a user in API responses. The password digest is never included.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserFromModel converts a model.User
func UserFromModel(u *model.User) User {
	return User{ID: string(u.ID), Username: u.Username, Email: u.Email}
}

// Creature represents a creature in API responses
type Creature struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Translation string    `json:"translation"`
	Description string    `json:"description"`
	PowerLevel  int       `json:"powerLevel"`
	Strengths   string    `json:"strengths"`
	Weaknesses  string    `json:"weaknesses"`
	FunFact     string    `json:"funFact"`
	ImageURL    string    `json:"imageURL"`
	Category    string    `json:"category,omitempty"`
	CreatedBy   string    `json:"_createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreatureFromModel converts a model.Creature
func CreatureFromModel(c *model.Creature) Creature {
	return Creature{
		ID:          string(c.ID),
		Name:        c.Name,
		Translation: c.Translation,
		Description: c.Description,
		PowerLevel:  c.PowerLevel,
		Strengths:   c.Strengths,
		Weaknesses:  c.Weaknesses,
		FunFact:     c.FunFact,
		ImageURL:    c.ImageURL,
		Category:    string(c.Category),
		CreatedBy:   string(c.CreatedBy),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreaturesFromModel converts a list of creatures
func CreaturesFromModel(cs []*model.Creature) []Creature {
	out := make([]Creature, len(cs))
	for i, c := range cs {
		out[i] = CreatureFromModel(c)
	}
	return out
}

// CreatureUpdated is the response for a successful creature update
type CreatureUpdated struct {
	Message         string   `json:"message"`
	UpdatedCreature Creature `json:"updatedCreature"`
}

// CreatureDeleted is the response for a successful creature delete
type CreatureDeleted struct {
	Message         string   `json:"message"`
	DeletedCreature Creature `json:"deletedCreature"`
}

// Category represents a category in API responses
type Category struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"_createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryFromModel converts a model.Category
func CategoryFromModel(c *model.Category) Category {
	return Category{
		ID:        string(c.ID),
		Name:      c.Name,
		CreatedBy: string(c.CreatedBy),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CategoriesFromModel converts a list of categories
func CategoriesFromModel(cs []*model.Category) []Category {
	out := make([]Category, len(cs))
	for i, c := range cs {
		out[i] = CategoryFromModel(c)
	}
	return out
}

// CategoryUpdated is the response for a successful category update
type CategoryUpdated struct {
	Message         string   `json:"message"`
	UpdatedCategory Category `json:"updatedCategory"`
}

// CategoryDeleted is the response for a successful category delete
type CategoryDeleted struct {
	Message         string   `json:"message"`
	DeletedCategory Category `json:"deletedCategory"`
}

// Choice represents one answer option
type Choice struct {
	Text        string   `json:"text"`
	CreatureIDs []string `json:"creatureIds"`
}

// Question represents a quiz question in API responses
type Question struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	Options   []Choice  `json:"options"`
	CreatedBy string    `json:"_createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// QuestionFromModel converts a model.Question
func QuestionFromModel(q *model.Question) Question {
	options := make([]Choice, len(q.Options))
	for i, opt := range q.Options {
		ids := make([]string, len(opt.CreatureIDs))
		for j, id := range opt.CreatureIDs {
			ids[j] = string(id)
		}
		options[i] = Choice{Text: opt.Text, CreatureIDs: ids}
	}
	return Question{
		ID:        string(q.ID),
		Text:      q.Text,
		Options:   options,
		CreatedBy: string(q.CreatedBy),
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

// QuestionsFromModel converts a list of questions
func QuestionsFromModel(qs []*model.Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = QuestionFromModel(q)
	}
	return out
}

// QuestionUpdated is the response for a successful question update
type QuestionUpdated struct {
	Message string   `json:"message"`
	Updated Question `json:"updated"`
}

// QuestionDeleted is the response for a successful question delete
type QuestionDeleted struct {
	Message string   `json:"message"`
	Deleted Question `json:"deleted"`
}
