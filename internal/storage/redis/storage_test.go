package redis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mythcatalog/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) newUser(id, username, email string) *model.User {
	return &model.User{
		ID:             model.UserID(id),
		Username:       username,
		Email:          email,
		PasswordDigest: "digest",
		CreatedAt:      s.now,
		UpdatedAt:      s.now,
	}
}

func (s *StorageSuite) newCreature(id, name string, at time.Time) *model.Creature {
	return &model.Creature{
		ID:          model.CreatureID(id),
		Name:        name,
		Translation: "translation",
		Description: "description",
		PowerLevel:  50,
		CreatedBy:   "u1",
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

// User tests

func (s *StorageSuite) TestCreateAndGetUser() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, s.newUser("u1", "mythfan", "fan@myths.io")))

	byID, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("mythfan", byID.Username)
	s.Equal("digest", byID.PasswordDigest)
	s.True(s.now.Equal(byID.CreatedAt))

	byEmail, err := s.storage.GetUserByEmail(s.ctx, "fan@myths.io")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), byEmail.ID)

	exists, err := s.storage.UserExistsByEmail(s.ctx, "fan@myths.io")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestKeysArePrefixed() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, s.newUser("u1", "mythfan", "fan@myths.io")))

	s.True(s.mini.Exists("mythcat:user:u1"))
	s.True(s.mini.Exists("mythcat:idx:email:fan@myths.io"))
	s.True(s.mini.Exists("mythcat:idx:username:mythfan"))
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)

	_, err = s.storage.GetUserByEmail(s.ctx, "nobody@myths.io")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestCreateUserDuplicates() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, s.newUser("u1", "mythfan", "fan@myths.io")))

	err := s.storage.CreateUser(s.ctx, s.newUser("u2", "other", "fan@myths.io"))
	s.ErrorIs(err, model.ErrEmailExists)

	err = s.storage.CreateUser(s.ctx, s.newUser("u3", "mythfan", "other@myths.io"))
	s.ErrorIs(err, model.ErrUsernameExists)

	// Failed attempts leave nothing behind
	s.False(s.mini.Exists("mythcat:user:u2"))
	s.False(s.mini.Exists("mythcat:idx:email:other@myths.io"))
}

func (s *StorageSuite) TestConcurrentCreateUserSameEmail() {
	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := s.newUser(fmt.Sprintf("u%d", i), fmt.Sprintf("user%d", i), "race@myths.io")
			errs <- s.storage.CreateUser(s.ctx, u)
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrEmailExists)
	}
	s.Equal(1, succeeded)
}

// Creature tests

func (s *StorageSuite) TestCreatureLifecycle() {
	s.Require().NoError(s.storage.CreateCreature(s.ctx, s.newCreature("c1", "Kitsune", s.now)))

	err := s.storage.CreateCreature(s.ctx, s.newCreature("c2", "kitsune", s.now))
	s.ErrorIs(err, model.ErrCreatureNameExists)

	c, err := s.storage.GetCreature(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal("Kitsune", c.Name)

	c.Name = "Nine-Tailed Fox"
	s.Require().NoError(s.storage.UpdateCreature(s.ctx, c))
	s.False(s.mini.Exists("mythcat:idx:creature_name:kitsune"))
	s.True(s.mini.Exists("mythcat:idx:creature_name:nine-tailed fox"))

	s.Require().NoError(s.storage.DeleteCreature(s.ctx, "c1"))
	_, err = s.storage.GetCreature(s.ctx, "c1")
	s.ErrorIs(err, model.ErrCreatureNotFound)
	s.False(s.mini.Exists("mythcat:idx:creature_name:nine-tailed fox"))
	s.ErrorIs(s.storage.DeleteCreature(s.ctx, "c1"), model.ErrCreatureNotFound)
}

func (s *StorageSuite) TestUpdateCreatureConflict() {
	s.Require().NoError(s.storage.CreateCreature(s.ctx, s.newCreature("c1", "Kitsune", s.now)))
	s.Require().NoError(s.storage.CreateCreature(s.ctx, s.newCreature("c2", "Tengu", s.now)))

	err := s.storage.UpdateCreature(s.ctx, s.newCreature("c2", "KITSUNE", s.now))
	s.ErrorIs(err, model.ErrCreatureNameExists)

	err = s.storage.UpdateCreature(s.ctx, s.newCreature("missing", "Kappa", s.now))
	s.ErrorIs(err, model.ErrCreatureNotFound)
}

func (s *StorageSuite) TestListCreaturesOrderedByCreation() {
	s.Require().NoError(s.storage.CreateCreature(s.ctx, s.newCreature("c2", "Tengu", s.now.Add(time.Minute))))
	s.Require().NoError(s.storage.CreateCreature(s.ctx, s.newCreature("c1", "Kitsune", s.now)))

	list, err := s.storage.ListCreatures(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(model.CreatureID("c1"), list[0].ID)
	s.Equal(model.CreatureID("c2"), list[1].ID)
}

func (s *StorageSuite) TestListEmpty() {
	creatures, err := s.storage.ListCreatures(s.ctx)
	s.Require().NoError(err)
	s.NotNil(creatures)
	s.Empty(creatures)

	questions, err := s.storage.ListQuestions(s.ctx)
	s.Require().NoError(err)
	s.Empty(questions)
}

// Category tests

func (s *StorageSuite) TestCategoryLifecycle() {
	cat := &model.Category{ID: "cat1", Name: "Yokai", CreatedBy: "u1", CreatedAt: s.now, UpdatedAt: s.now}
	s.Require().NoError(s.storage.CreateCategory(s.ctx, cat))

	err := s.storage.CreateCategory(s.ctx, &model.Category{ID: "cat2", Name: " YOKAI", CreatedBy: "u1"})
	s.ErrorIs(err, model.ErrCategoryNameExists)

	cat.Name = "Japanese Yokai"
	s.Require().NoError(s.storage.UpdateCategory(s.ctx, cat))

	list, err := s.storage.ListCategories(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Japanese Yokai", list[0].Name)

	s.Require().NoError(s.storage.DeleteCategory(s.ctx, "cat1"))
	_, err = s.storage.GetCategory(s.ctx, "cat1")
	s.ErrorIs(err, model.ErrCategoryNotFound)
}

// Question tests

func (s *StorageSuite) TestQuestionLifecycle() {
	q := &model.Question{
		ID:   "q1",
		Text: "Where would you rather live?",
		Options: []model.Choice{
			{Text: "Forest", CreatureIDs: []model.CreatureID{"c1"}},
		},
		CreatedBy: "u1",
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
	s.Require().NoError(s.storage.CreateQuestion(s.ctx, q))

	got, err := s.storage.GetQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.Equal(q.Options, got.Options)

	got.Text = "Pick a home"
	s.Require().NoError(s.storage.UpdateQuestion(s.ctx, got))

	list, err := s.storage.ListQuestions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Pick a home", list[0].Text)

	s.Require().NoError(s.storage.DeleteQuestion(s.ctx, "q1"))
	s.ErrorIs(s.storage.DeleteQuestion(s.ctx, "q1"), model.ErrQuestionNotFound)
	s.ErrorIs(s.storage.UpdateQuestion(s.ctx, got), model.ErrQuestionNotFound)

	_, err = s.storage.GetQuestion(s.ctx, "q1")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}
