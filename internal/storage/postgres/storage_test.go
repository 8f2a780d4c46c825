package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mythcatalog/internal/model"
)

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newStoreWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewWithDB(db), mock
}

func uniqueViolationOn(constraint string) error {
	return &pgconn.PgError{Code: uniqueViolation, ConstraintName: constraint}
}

func testUser() *model.User {
	return &model.User{
		ID:             "u1",
		Username:       "mythfan",
		Email:          "fan@myths.io",
		PasswordDigest: "digest",
		CreatedAt:      testTime,
		UpdatedAt:      testTime,
	}
}

func TestCreateUser_Success(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("u1", "mythfan", "fan@myths.io", "digest", testTime, testTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.CreateUser(context.Background(), testUser()))
}

func TestCreateUser_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email", usersEmailKey, model.ErrEmailExists},
		{"username", usersUsernameKey, model.ErrUsernameExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newStoreWithMock(t)

			mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
				WillReturnError(uniqueViolationOn(tt.constraint))

			err := store.CreateUser(context.Background(), testUser())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateUser_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	err := store.CreateUser(context.Background(), testUser())
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestGetUserByEmail(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_digest,\s*created_at,\s*updated_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_digest", "created_at", "updated_at"}).
		AddRow("u1", "mythfan", "fan@myths.io", "digest", testTime, testTime)
	mock.ExpectQuery(q).WithArgs("fan@myths.io").WillReturnRows(rows)

	u, err := store.GetUserByEmail(context.Background(), "fan@myths.io")
	require.NoError(t, err)
	assert.Equal(t, model.UserID("u1"), u.ID)
	assert.Equal(t, "digest", u.PasswordDigest)
}

func TestGetUser_NotFound(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT.+FROM\s+users\s+WHERE\s+id`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUserExistsByEmail(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS`).
		WithArgs("fan@myths.io").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := store.UserExistsByEmail(context.Background(), "fan@myths.io")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateCreature_NameTaken(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+creatures`).
		WillReturnError(uniqueViolationOn(creaturesNameIndex))

	err := store.CreateCreature(context.Background(), &model.Creature{ID: "c1", Name: "Kitsune", CreatedBy: "u1"})
	assert.ErrorIs(t, err, model.ErrCreatureNameExists)
}

func TestListCreatures(t *testing.T) {
	store, mock := newStoreWithMock(t)

	cols := []string{"id", "name", "translation", "description", "power_level", "strengths", "weaknesses",
		"fun_fact", "image_url", "category", "created_by", "created_at", "updated_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("c1", "Kitsune", "fox", "A fox spirit", int64(70), "cunning", "iron", "", "", "cat1", "u1", testTime, testTime).
		AddRow("c2", "Tengu", "heavenly dog", "A bird spirit", int64(60), "", "", "", "", "", "u1", testTime, testTime)
	mock.ExpectQuery(`(?s)^SELECT.+FROM\s+creatures\s+ORDER\s+BY\s+created_at,\s*id$`).WillReturnRows(rows)

	list, err := store.ListCreatures(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 70, list[0].PowerLevel)
	assert.Equal(t, model.CategoryID("cat1"), list[0].Category)
	assert.Empty(t, list[1].Category)
}

func TestUpdateCreature_NotFound(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^UPDATE\s+creatures`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateCreature(context.Background(), &model.Creature{ID: "missing", Name: "Kappa"})
	assert.ErrorIs(t, err, model.ErrCreatureNotFound)
}

func TestDeleteCategory(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+categories\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("cat1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+categories`).
		WithArgs("cat1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteCategory(context.Background(), "cat1"))
	assert.ErrorIs(t, store.DeleteCategory(context.Background(), "cat1"), model.ErrCategoryNotFound)
}

func TestUpdateCategory_NameTaken(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectExec(`(?s)^UPDATE\s+categories`).
		WillReturnError(uniqueViolationOn(categoriesNameIndex))

	err := store.UpdateCategory(context.Background(), &model.Category{ID: "cat1", Name: "Yokai"})
	assert.ErrorIs(t, err, model.ErrCategoryNameExists)
}

func TestGetQuestion_DecodesOptions(t *testing.T) {
	store, mock := newStoreWithMock(t)

	options := []byte(`[{"text":"Forest","creature_ids":["c1","c2"]}]`)
	rows := sqlmock.NewRows([]string{"id", "text", "options", "created_by", "created_at", "updated_at"}).
		AddRow("q1", "Where would you live?", options, "u1", testTime, testTime)
	mock.ExpectQuery(`(?s)^SELECT.+FROM\s+questions\s+WHERE\s+id`).WithArgs("q1").WillReturnRows(rows)

	q, err := store.GetQuestion(context.Background(), "q1")
	require.NoError(t, err)
	require.Len(t, q.Options, 1)
	assert.Equal(t, []model.CreatureID{"c1", "c2"}, q.Options[0].CreatureIDs)
}

func TestCreateQuestion_EncodesOptions(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := &model.Question{
		ID:        "q1",
		Text:      "Where would you live?",
		Options:   []model.Choice{{Text: "Forest", CreatureIDs: []model.CreatureID{"c1"}}},
		CreatedBy: "u1",
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+questions`).
		WithArgs("q1", "Where would you live?", []byte(`[{"text":"Forest","creature_ids":["c1"]}]`), "u1", testTime, testTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.CreateQuestion(context.Background(), q))
}
