package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// Lua script results. 0 means success.
const (
	scriptTaken         = 1
	scriptUsernameTaken = 2
	scriptNotFound      = 2
)

// createUserScript claims both unique indexes and writes the user in one step.
// KEYS: email index, username index, user record. ARGV: user ID, user JSON.
var createUserScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then return 1 end
if redis.call('EXISTS', KEYS[2]) == 1 then return 2 end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[1])
redis.call('SET', KEYS[3], ARGV[2])
return 0
`)

// createNamedScript writes a record whose name must be unique.
// KEYS: name index, record, ID set. ARGV: ID, JSON.
var createNamedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then return 1 end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
redis.call('SADD', KEYS[3], ARGV[1])
return 0
`)

// updateNamedScript rewrites a record, moving its name index when renamed.
// KEYS: record, old name index, new name index. ARGV: ID, JSON.
var updateNamedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 2 end
if KEYS[2] ~= KEYS[3] then
  if redis.call('EXISTS', KEYS[3]) == 1 then return 1 end
  if redis.call('GET', KEYS[2]) == ARGV[1] then redis.call('DEL', KEYS[2]) end
  redis.call('SET', KEYS[3], ARGV[1])
end
redis.call('SET', KEYS[1], ARGV[2])
return 0
`)

// deleteNamedScript removes a record, its name index and its set membership.
// KEYS: record, name index, ID set. ARGV: ID.
var deleteNamedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 2 end
redis.call('DEL', KEYS[1])
if redis.call('GET', KEYS[2]) == ARGV[1] then redis.call('DEL', KEYS[2]) end
redis.call('SREM', KEYS[3], ARGV[1])
return 0
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keys{prefix: cfg.KeyPrefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	res, err := createUserScript.Run(ctx, s.client,
		[]string{s.keys.emailIndex(user.Email), s.keys.usernameIndex(user.Username), s.keys.user(user.ID)},
		string(user.ID), data,
	).Int()
	if err != nil {
		return err
	}

	switch res {
	case scriptTaken:
		return model.ErrEmailExists
	case scriptUsernameTaken:
		return model.ErrUsernameExists
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, s.keys.user(id), &user); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	// Look up user ID from email index
	id, err := s.client.Get(ctx, s.keys.emailIndex(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(id))
}

func (s *Storage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keys.emailIndex(email)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Creature operations

func (s *Storage) CreateCreature(ctx context.Context, creature *model.Creature) error {
	return s.createNamed(ctx,
		s.keys.creatureNameIndex(creature.Name), s.keys.creature(creature.ID), s.keys.creatures(),
		string(creature.ID), creature, model.ErrCreatureNameExists)
}

func (s *Storage) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	var creature model.Creature
	if err := s.getJSON(ctx, s.keys.creature(id), &creature); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCreatureNotFound
		}
		return nil, err
	}
	return &creature, nil
}

func (s *Storage) ListCreatures(ctx context.Context) ([]*model.Creature, error) {
	creatures, err := listJSON[model.Creature](ctx, s.client, s.keys.creatures(), func(id string) string {
		return s.keys.creature(model.CreatureID(id))
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(creatures, func(a, b *model.Creature) int {
		return storage.CompareCreated(a.CreatedAt, b.CreatedAt, string(a.ID), string(b.ID))
	})
	return creatures, nil
}

func (s *Storage) UpdateCreature(ctx context.Context, creature *model.Creature) error {
	existing, err := s.GetCreature(ctx, creature.ID)
	if err != nil {
		return err
	}
	return s.updateNamed(ctx,
		s.keys.creature(creature.ID), s.keys.creatureNameIndex(existing.Name), s.keys.creatureNameIndex(creature.Name),
		string(creature.ID), creature, model.ErrCreatureNameExists, model.ErrCreatureNotFound)
}

func (s *Storage) DeleteCreature(ctx context.Context, id model.CreatureID) error {
	existing, err := s.GetCreature(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteNamed(ctx,
		s.keys.creature(id), s.keys.creatureNameIndex(existing.Name), s.keys.creatures(),
		string(id), model.ErrCreatureNotFound)
}

// Category operations

func (s *Storage) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.createNamed(ctx,
		s.keys.categoryNameIndex(category.Name), s.keys.category(category.ID), s.keys.categories(),
		string(category.ID), category, model.ErrCategoryNameExists)
}

func (s *Storage) GetCategory(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	var category model.Category
	if err := s.getJSON(ctx, s.keys.category(id), &category); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]*model.Category, error) {
	categories, err := listJSON[model.Category](ctx, s.client, s.keys.categories(), func(id string) string {
		return s.keys.category(model.CategoryID(id))
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(categories, func(a, b *model.Category) int {
		return storage.CompareCreated(a.CreatedAt, b.CreatedAt, string(a.ID), string(b.ID))
	})
	return categories, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, category *model.Category) error {
	existing, err := s.GetCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	return s.updateNamed(ctx,
		s.keys.category(category.ID), s.keys.categoryNameIndex(existing.Name), s.keys.categoryNameIndex(category.Name),
		string(category.ID), category, model.ErrCategoryNameExists, model.ErrCategoryNotFound)
}

func (s *Storage) DeleteCategory(ctx context.Context, id model.CategoryID) error {
	existing, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteNamed(ctx,
		s.keys.category(id), s.keys.categoryNameIndex(existing.Name), s.keys.categories(),
		string(id), model.ErrCategoryNotFound)
}

// Question operations

func (s *Storage) CreateQuestion(ctx context.Context, question *model.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return err
	}

	// Use transaction for atomic save + set membership
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.keys.question(question.ID), data, 0)
		pipe.SAdd(ctx, s.keys.questions(), string(question.ID))
		return nil
	})
	return err
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	var question model.Question
	if err := s.getJSON(ctx, s.keys.question(id), &question); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (s *Storage) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	questions, err := listJSON[model.Question](ctx, s.client, s.keys.questions(), func(id string) string {
		return s.keys.question(model.QuestionID(id))
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(questions, func(a, b *model.Question) int {
		return storage.CompareCreated(a.CreatedAt, b.CreatedAt, string(a.ID), string(b.ID))
	})
	return questions, nil
}

func (s *Storage) UpdateQuestion(ctx context.Context, question *model.Question) error {
	data, err := json.Marshal(question)
	if err != nil {
		return err
	}

	// SET XX only writes when the question already exists
	updated, err := s.client.SetXX(ctx, s.keys.question(question.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return model.ErrQuestionNotFound
	}
	return nil
}

func (s *Storage) DeleteQuestion(ctx context.Context, id model.QuestionID) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.keys.question(id))
		pipe.SRem(ctx, s.keys.questions(), string(id))
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return model.ErrQuestionNotFound
	}
	return nil
}

// Helpers

func (s *Storage) getJSON(ctx context.Context, key string, dst any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func (s *Storage) createNamed(ctx context.Context, nameKey, recordKey, setKey, id string, v any, errExists error) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	res, err := createNamedScript.Run(ctx, s.client, []string{nameKey, recordKey, setKey}, id, data).Int()
	if err != nil {
		return err
	}
	if res == scriptTaken {
		return errExists
	}
	return nil
}

func (s *Storage) updateNamed(ctx context.Context, recordKey, oldNameKey, newNameKey, id string, v any, errExists, errNotFound error) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	res, err := updateNamedScript.Run(ctx, s.client, []string{recordKey, oldNameKey, newNameKey}, id, data).Int()
	if err != nil {
		return err
	}

	switch res {
	case scriptTaken:
		return errExists
	case scriptNotFound:
		return errNotFound
	}
	return nil
}

func (s *Storage) deleteNamed(ctx context.Context, recordKey, nameKey, setKey, id string, errNotFound error) error {
	res, err := deleteNamedScript.Run(ctx, s.client, []string{recordKey, nameKey, setKey}, id).Int()
	if err != nil {
		return err
	}
	if res == scriptNotFound {
		return errNotFound
	}
	return nil
}

// listJSON loads every record whose ID is a member of setKey
func listJSON[T any](ctx context.Context, client *redis.Client, setKey string, recordKey func(id string) string) ([]*T, error) {
	ids, err := client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*T{}, nil
	}

	recordKeys := make([]string, len(ids))
	for i, id := range ids {
		recordKeys[i] = recordKey(id)
	}

	values, err := client.MGet(ctx, recordKeys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*T, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// Record removed between SMEMBERS and MGET
			continue
		}
		var item T
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	return result, nil
}
