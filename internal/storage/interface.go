package storage

import (
	"context"
	"strings"
	"time"

	"github.com/mcoot/mythcatalog/internal/model"
)

// Storage defines the interface for data persistence.
//
// Uniqueness of user emails and usernames, and of creature and category
// names, is enforced by the implementation itself so that two concurrent
// writers can never both succeed.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)

	// Creature operations
	CreateCreature(ctx context.Context, creature *model.Creature) error
	GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error)
	ListCreatures(ctx context.Context) ([]*model.Creature, error)
	UpdateCreature(ctx context.Context, creature *model.Creature) error
	DeleteCreature(ctx context.Context, id model.CreatureID) error

	// Category operations
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id model.CategoryID) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id model.CategoryID) error

	// Question operations
	CreateQuestion(ctx context.Context, question *model.Question) error
	GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error)
	ListQuestions(ctx context.Context) ([]*model.Question, error)
	UpdateQuestion(ctx context.Context, question *model.Question) error
	DeleteQuestion(ctx context.Context, id model.QuestionID) error
}

// NameKey normalizes a catalog name for case-insensitive uniqueness checks
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CompareCreated orders records by creation time, then by ID for stable listings
func CompareCreated(a, b time.Time, aID, bID string) int {
	if c := a.Compare(b); c != 0 {
		return c
	}
	return strings.Compare(aID, bID)
}
