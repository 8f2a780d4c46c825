package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share
// memory with the store.
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	emailIndex    map[string]model.UserID
	usernameIndex map[string]model.UserID

	creatures         map[model.CreatureID]*model.Creature
	creatureNameIndex map[string]model.CreatureID

	categories        map[model.CategoryID]*model.Category
	categoryNameIndex map[string]model.CategoryID

	questions map[model.QuestionID]*model.Question
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:             make(map[model.UserID]*model.User),
		emailIndex:        make(map[string]model.UserID),
		usernameIndex:     make(map[string]model.UserID),
		creatures:         make(map[model.CreatureID]*model.Creature),
		creatureNameIndex: make(map[string]model.CreatureID),
		categories:        make(map[model.CategoryID]*model.Category),
		categoryNameIndex: make(map[string]model.CategoryID),
		questions:         make(map[model.QuestionID]*model.Question),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emailIndex[user.Email]; ok {
		return model.ErrEmailExists
	}
	if _, ok := s.usernameIndex[user.Username]; ok {
		return model.ErrUsernameExists
	}

	u := *user
	s.users[u.ID] = &u
	s.emailIndex[u.Email] = u.ID
	s.usernameIndex[u.Username] = u.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *Storage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.emailIndex[email]
	return ok, nil
}

// Creature operations

func (s *Storage) CreateCreature(ctx context.Context, creature *model.Creature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.NameKey(creature.Name)
	if _, ok := s.creatureNameIndex[key]; ok {
		return model.ErrCreatureNameExists
	}

	c := *creature
	s.creatures[c.ID] = &c
	s.creatureNameIndex[key] = c.ID
	return nil
}

func (s *Storage) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.creatures[id]
	if !ok {
		return nil, model.ErrCreatureNotFound
	}
	out := *c
	return &out, nil
}

func (s *Storage) ListCreatures(ctx context.Context) ([]*model.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Creature, 0, len(s.creatures))
	for _, c := range s.creatures {
		out := *c
		result = append(result, &out)
	}
	slices.SortFunc(result, func(a, b *model.Creature) int {
		return storage.CompareCreated(a.CreatedAt, b.CreatedAt, string(a.ID), string(b.ID))
	})
	return result, nil
}

func (s *Storage) UpdateCreature(ctx context.Context, creature *model.Creature) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.creatures[creature.ID]
	if !ok {
		return model.ErrCreatureNotFound
	}

	oldKey := storage.NameKey(existing.Name)
	newKey := storage.NameKey(creature.Name)
	if oldKey != newKey {
		if _, taken := s.creatureNameIndex[newKey]; taken {
			return model.ErrCreatureNameExists
		}
		delete(s.creatureNameIndex, oldKey)
		s.creatureNameIndex[newKey] = creature.ID
	}

	c := *creature
	s.creatures[c.ID] = &c
	return nil
}

func (s *Storage) DeleteCreature(ctx context.Context, id model.CreatureID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.creatures[id]
	if !ok {
		return model.ErrCreatureNotFound
	}
	delete(s.creatureNameIndex, storage.NameKey(c.Name))
	delete(s.creatures, id)
	return nil
}

// Category operations

func (s *Storage) CreateCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := storage.NameKey(category.Name)
	if _, ok := s.categoryNameIndex[key]; ok {
		return model.ErrCategoryNameExists
	}

	c := *category
	s.categories[c.ID] = &c
	s.categoryNameIndex[key] = c.ID
	return nil
}

func (s *Storage) GetCategory(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, model.ErrCategoryNotFound
	}
	out := *c
	return &out, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out := *c
		result = append(result, &out)
	}
	slices.SortFunc(result, func(a, b *model.Category) int {
		return storage.CompareCreated(a.CreatedAt, b.CreatedAt, string(a.ID), string(b.ID))
	})
	return result, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, category *model.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.ID]
	if !ok {
		return model.ErrCategoryNotFound
	}

	oldKey := storage.NameKey(existing.Name)
	newKey := storage.NameKey(category.Name)
	if oldKey != newKey {
		if _, taken := s.categoryNameIndex[newKey]; taken {
			return model.ErrCategoryNameExists
		}
		delete(s.categoryNameIndex, oldKey)
		s.categoryNameIndex[newKey] = category.ID
	}

	c := *category
	s.categories[c.ID] = &c
	return nil
}

func (s *Storage) DeleteCategory(ctx context.Context, id model.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return model.ErrCategoryNotFound
	}
	delete(s.categoryNameIndex, storage.NameKey(c.Name))
	delete(s.categories, id)
	return nil
}

// Question operations

func (s *Storage) CreateQuestion(ctx context.Context, question *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, model.ErrQuestionNotFound
	}
	return cloneQuestion(q), nil
}

func (s *Storage) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Question, 0, len(s.questions))
	for _, q := range s.questions {
		result = append(result, cloneQuestion(q))
	}
	slices.SortFunc(result, func(a, b *model.Question) int {
		return storage.CompareCreated(a.CreatedAt, b.CreatedAt, string(a.ID), string(b.ID))
	})
	return result, nil
}

func (s *Storage) UpdateQuestion(ctx context.Context, question *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[question.ID]; !ok {
		return model.ErrQuestionNotFound
	}
	s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (s *Storage) DeleteQuestion(ctx context.Context, id model.QuestionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return model.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// cloneQuestion deep-copies a question including its options
func cloneQuestion(q *model.Question) *model.Question {
	out := *q
	out.Options = make([]model.Choice, len(q.Options))
	for i, opt := range q.Options {
		out.Options[i] = model.Choice{
			Text:        opt.Text,
			CreatureIDs: slices.Clone(opt.CreatureIDs),
		}
	}
	return &out
}
