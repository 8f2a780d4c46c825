package model

import "time"

// CreatureID identifies a creature
type CreatureID string

// CategoryID identifies a category
type CategoryID string

// QuestionID identifies a quiz question
type QuestionID string

// Creature is a mythical creature entry in the catalog
type Creature struct {
	ID          CreatureID `json:"id"`
	Name        string     `json:"name"`
	Translation string     `json:"translation"`
	Description string     `json:"description"`
	PowerLevel  int        `json:"power_level"`
	Strengths   string     `json:"strengths"`
	Weaknesses  string     `json:"weaknesses"`
	FunFact     string     `json:"fun_fact"`
	ImageURL    string     `json:"image_url"`
	Category    CategoryID `json:"category,omitempty"`
	CreatedBy   UserID     `json:"created_by"` // set once at creation
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// OwnerID returns the user that created the creature
func (c *Creature) OwnerID() UserID { return c.CreatedBy }

// Category groups creatures
type Category struct {
	ID        CategoryID `json:"id"`
	Name      string     `json:"name"`
	CreatedBy UserID     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OwnerID returns the user that created the category
func (c *Category) OwnerID() UserID { return c.CreatedBy }

// Choice is one answer option of a quiz question.
// Picking it points the player towards the listed creatures.
type Choice struct {
	Text        string       `json:"text"`
	CreatureIDs []CreatureID `json:"creature_ids"`
}

// Question is a personality-quiz question
type Question struct {
	ID        QuestionID `json:"id"`
	Text      string     `json:"text"`
	Options   []Choice   `json:"options"`
	CreatedBy UserID     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// OwnerID returns the user that created the question
func (q *Question) OwnerID() UserID { return q.CreatedBy }

// Owned is implemented by every catalog resource that carries a creator reference
type Owned interface {
	OwnerID() UserID
}
