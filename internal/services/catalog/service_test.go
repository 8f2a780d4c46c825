package catalog

import (
	"context"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mythcatalog/internal/dependencies/mocks"
	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/storage/memory"
	"github.com/mcoot/mythcatalog/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context

	owner    *auth.Claims
	stranger *auth.Claims
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()

	s.owner = &auth.Claims{SubjectID: "U1", Username: "owner"}
	s.stranger = &auth.Claims{SubjectID: "U2", Username: "stranger"}
}

func kitsune() CreatureInput {
	return CreatureInput{
		Name:        "Kitsune",
		Translation: "Fox spirit",
		Description: "A clever fox with many tails",
		PowerLevel:  70,
		Strengths:   "Illusions",
		Weaknesses:  "Dogs",
		FunFact:     "Gains a tail every hundred years",
		ImageURL:    "https://example.com/kitsune.png",
	}
}

func ptr[T any](v T) *T { return &v }

// Creature tests

func (s *ServiceSuite) TestCreateCreatureRecordsOwner() {
	s.random.QueueIDs("c1")

	c, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)
	s.Equal(model.CreatureID("c1"), c.ID)
	s.Equal(model.UserID("U1"), c.CreatedBy)
	s.Equal(s.clock.Now(), c.CreatedAt)
}

func (s *ServiceSuite) TestCreateCreatureMissingFields() {
	in := kitsune()
	in.FunFact = ""

	_, err := s.service.CreateCreature(s.ctx, s.owner, in)
	s.ErrorIs(err, ErrMissingFields)
}

func (s *ServiceSuite) TestCreateCreatureValidation() {
	in := kitsune()
	in.PowerLevel = 101

	_, err := s.service.CreateCreature(s.ctx, s.owner, in)
	var verrs validation.Errors
	s.Require().ErrorAs(err, &verrs)
	s.Contains(verrs, "power_level")
}

func (s *ServiceSuite) TestCreateCreatureForeignCreatorRejected() {
	in := kitsune()
	in.CreatedBy = "U2"

	_, err := s.service.CreateCreature(s.ctx, s.owner, in)
	s.ErrorIs(err, auth.ErrForbidden)

	list, err := s.service.ListCreatures(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestCreateCreatureDuplicateName() {
	_, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)

	in := kitsune()
	in.Name = "KITSUNE"
	_, err = s.service.CreateCreature(s.ctx, s.stranger, in)
	s.ErrorIs(err, model.ErrCreatureNameExists)
}

func (s *ServiceSuite) TestCreateCreatureUnknownCategory() {
	in := kitsune()
	in.Category = "missing"

	_, err := s.service.CreateCreature(s.ctx, s.owner, in)
	var verrs validation.Errors
	s.Require().ErrorAs(err, &verrs)
	s.Contains(verrs, "category")
}

func (s *ServiceSuite) TestUpdateCreatureByOwner() {
	s.random.QueueIDs("c1")
	_, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)

	s.clock.Advance(time.Minute)
	updated, err := s.service.UpdateCreature(s.ctx, s.owner, "c1", CreaturePatch{PowerLevel: ptr(90)})
	s.Require().NoError(err)
	s.Equal(90, updated.PowerLevel)
	s.Equal("Kitsune", updated.Name)
	s.Equal(s.clock.Now(), updated.UpdatedAt)

	stored, err := s.service.GetCreature(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(90, stored.PowerLevel)
}

func (s *ServiceSuite) TestUpdateCreatureByStrangerIsForbidden() {
	s.random.QueueIDs("c1")
	_, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)

	_, err = s.service.UpdateCreature(s.ctx, s.stranger, "c1", CreaturePatch{PowerLevel: ptr(1)})
	s.ErrorIs(err, auth.ErrForbidden)

	stored, err := s.service.GetCreature(s.ctx, "c1")
	s.Require().NoError(err)
	s.Equal(70, stored.PowerLevel)
}

func (s *ServiceSuite) TestUpdateCreatureCannotChangeOwner() {
	s.random.QueueIDs("c1")
	_, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)

	_, err = s.service.UpdateCreature(s.ctx, s.owner, "c1", CreaturePatch{CreatedBy: ptr(model.UserID("U2"))})
	s.ErrorIs(err, auth.ErrForbidden)
}

func (s *ServiceSuite) TestUpdateMissingCreatureIsNotFoundBeforeForbidden() {
	_, err := s.service.UpdateCreature(s.ctx, s.stranger, "missing", CreaturePatch{})
	s.ErrorIs(err, model.ErrCreatureNotFound)
}

func (s *ServiceSuite) TestDeleteCreature() {
	s.random.QueueIDs("c1")
	_, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)

	_, err = s.service.DeleteCreature(s.ctx, s.stranger, "c1")
	s.ErrorIs(err, auth.ErrForbidden)

	deleted, err := s.service.DeleteCreature(s.ctx, s.owner, "c1")
	s.Require().NoError(err)
	s.Equal("Kitsune", deleted.Name)

	_, err = s.service.DeleteCreature(s.ctx, s.owner, "c1")
	s.ErrorIs(err, model.ErrCreatureNotFound)
}

// Category tests

func (s *ServiceSuite) TestCategoryLifecycle() {
	s.random.QueueIDs("cat1")
	cat, err := s.service.CreateCategory(s.ctx, s.owner, CategoryInput{Name: "Yokai"})
	s.Require().NoError(err)
	s.Equal(model.UserID("U1"), cat.CreatedBy)

	_, err = s.service.CreateCategory(s.ctx, s.stranger, CategoryInput{Name: "yokai"})
	s.ErrorIs(err, model.ErrCategoryNameExists)

	_, err = s.service.UpdateCategory(s.ctx, s.stranger, "cat1", CategoryInput{Name: "Stolen"})
	s.ErrorIs(err, auth.ErrForbidden)

	renamed, err := s.service.UpdateCategory(s.ctx, s.owner, "cat1", CategoryInput{Name: "Japanese Yokai"})
	s.Require().NoError(err)
	s.Equal("Japanese Yokai", renamed.Name)

	_, err = s.service.DeleteCategory(s.ctx, s.owner, "cat1")
	s.Require().NoError(err)

	_, err = s.service.GetCategory(s.ctx, "cat1")
	s.ErrorIs(err, model.ErrCategoryNotFound)
}

func (s *ServiceSuite) TestCreateCategoryMissingName() {
	_, err := s.service.CreateCategory(s.ctx, s.owner, CategoryInput{})
	s.ErrorIs(err, ErrMissingFields)
}

func (s *ServiceSuite) TestCreatureWithKnownCategory() {
	s.random.QueueIDs("cat1")
	_, err := s.service.CreateCategory(s.ctx, s.owner, CategoryInput{Name: "Yokai"})
	s.Require().NoError(err)

	in := kitsune()
	in.Category = "cat1"
	c, err := s.service.CreateCreature(s.ctx, s.owner, in)
	s.Require().NoError(err)
	s.Equal(model.CategoryID("cat1"), c.Category)
}

// Question tests

func (s *ServiceSuite) seedCreatures() {
	s.random.QueueIDs("c1", "c2")
	_, err := s.service.CreateCreature(s.ctx, s.owner, kitsune())
	s.Require().NoError(err)

	tengu := kitsune()
	tengu.Name = "Tengu"
	_, err = s.service.CreateCreature(s.ctx, s.owner, tengu)
	s.Require().NoError(err)
}

func twoOptions() []model.Choice {
	return []model.Choice{
		{Text: "Forest", CreatureIDs: []model.CreatureID{"c1"}},
		{Text: "Mountain", CreatureIDs: []model.CreatureID{"c2"}},
	}
}

func (s *ServiceSuite) TestCreateQuestion() {
	s.seedCreatures()
	s.random.QueueIDs("q1")

	q, err := s.service.CreateQuestion(s.ctx, s.owner, QuestionInput{Text: "Where would you live?", Options: twoOptions()})
	s.Require().NoError(err)
	s.Equal(model.QuestionID("q1"), q.ID)
	s.Len(q.Options, 2)
}

func (s *ServiceSuite) TestCreateQuestionNeedsTwoOptions() {
	s.seedCreatures()

	_, err := s.service.CreateQuestion(s.ctx, s.owner, QuestionInput{Text: "Where would you live?", Options: twoOptions()[:1]})
	s.ErrorIs(err, ErrMissingFields)
}

func (s *ServiceSuite) TestCreateQuestionRejectsDuplicateCreatureIDs() {
	s.seedCreatures()
	options := twoOptions()
	options[0].CreatureIDs = []model.CreatureID{"c1", "c1"}

	_, err := s.service.CreateQuestion(s.ctx, s.owner, QuestionInput{Text: "Where would you live?", Options: options})
	var verrs validation.Errors
	s.Require().ErrorAs(err, &verrs)
	s.Contains(verrs, "options")
}

func (s *ServiceSuite) TestCreateQuestionRejectsUnknownCreature() {
	s.seedCreatures()
	options := twoOptions()
	options[1].CreatureIDs = []model.CreatureID{"ghost"}

	_, err := s.service.CreateQuestion(s.ctx, s.owner, QuestionInput{Text: "Where would you live?", Options: options})
	var verrs validation.Errors
	s.Require().ErrorAs(err, &verrs)
}

func (s *ServiceSuite) TestQuestionOwnership() {
	s.seedCreatures()
	s.random.QueueIDs("q1")
	_, err := s.service.CreateQuestion(s.ctx, s.owner, QuestionInput{Text: "Where would you live?", Options: twoOptions()})
	s.Require().NoError(err)

	_, err = s.service.UpdateQuestion(s.ctx, s.stranger, "q1", QuestionPatch{Text: ptr("Hijacked question")})
	s.ErrorIs(err, auth.ErrForbidden)

	updated, err := s.service.UpdateQuestion(s.ctx, s.owner, "q1", QuestionPatch{Text: ptr("Pick a home")})
	s.Require().NoError(err)
	s.Equal("Pick a home", updated.Text)
	s.Len(updated.Options, 2)

	_, err = s.service.DeleteQuestion(s.ctx, s.stranger, "q1")
	s.ErrorIs(err, auth.ErrForbidden)

	_, err = s.service.DeleteQuestion(s.ctx, s.owner, "q1")
	s.Require().NoError(err)

	_, err = s.service.GetQuestion(s.ctx, "q1")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}
