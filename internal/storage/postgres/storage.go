package postgres

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/storage"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLSTATE raised when a UNIQUE constraint or index rejects a write
const uniqueViolation = "23505"

// Constraint and index names declared in migrations/
const (
	usersEmailKey       = "users_email_key"
	usersUsernameKey    = "users_username_key"
	creaturesNameIndex  = "creatures_name_lower_idx"
	categoriesNameIndex = "categories_name_lower_idx"
)

// DBTX is the subset of *sql.DB and *sql.Tx used by the store
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage is a Postgres-backed implementation of the storage interface.
// Uniqueness is guaranteed by the schema, not by read-before-write checks.
type Storage struct {
	db   DBTX
	conn *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens a connection pool for dsn and applies pending migrations
func New(ctx context.Context, dsn string) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Storage{db: db, conn: db}, nil
}

// NewWithDB wraps an existing handle without running migrations (for testing)
func NewWithDB(db DBTX) *Storage {
	s := &Storage{db: db}
	if conn, ok := db.(*sql.DB); ok {
		s.conn = conn
	}
	return s
}

// RunMigrations applies the embedded goose migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	query :=
		`INSERT INTO users (id, username, email, password_digest, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordDigest, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		switch violatedConstraint(err) {
		case usersEmailKey:
			return model.ErrEmailExists
		case usersUsernameKey:
			return model.ErrUsernameExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	query :=
		`SELECT id, username, email, password_digest, created_at, updated_at FROM users
		 WHERE id = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query :=
		`SELECT id, username, email, password_digest, created_at, updated_at FROM users
		 WHERE email = $1`

	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *Storage) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (s *Storage) scanUser(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordDigest, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Creature operations

const creatureColumns = `id, name, translation, description, power_level, strengths, weaknesses,
		 fun_fact, image_url, COALESCE(category, ''), created_by, created_at, updated_at`

func (s *Storage) CreateCreature(ctx context.Context, c *model.Creature) error {
	query :=
		`INSERT INTO creatures (id, name, translation, description, power_level, strengths, weaknesses,
		                        fun_fact, image_url, category, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Translation, c.Description, c.PowerLevel, c.Strengths, c.Weaknesses,
		c.FunFact, c.ImageURL, c.Category, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if violatedConstraint(err) == creaturesNameIndex {
			return model.ErrCreatureNameExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Storage) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures WHERE id = $1`

	c, err := scanCreature(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCreatureNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (s *Storage) ListCreatures(ctx context.Context) ([]*model.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*model.Creature{}
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (s *Storage) UpdateCreature(ctx context.Context, c *model.Creature) error {
	query :=
		`UPDATE creatures
		 SET name = $2, translation = $3, description = $4, power_level = $5, strengths = $6,
		     weaknesses = $7, fun_fact = $8, image_url = $9, category = NULLIF($10, ''), updated_at = $11
		 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Translation, c.Description, c.PowerLevel, c.Strengths,
		c.Weaknesses, c.FunFact, c.ImageURL, c.Category, c.UpdatedAt)
	if err != nil {
		if violatedConstraint(err) == creaturesNameIndex {
			return model.ErrCreatureNameExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, model.ErrCreatureNotFound)
}

func (s *Storage) DeleteCreature(ctx context.Context, id model.CreatureID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM creatures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, model.ErrCreatureNotFound)
}

// Category operations

func (s *Storage) CreateCategory(ctx context.Context, c *model.Category) error {
	query :=
		`INSERT INTO categories (id, name, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, c.ID, c.Name, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if violatedConstraint(err) == categoriesNameIndex {
			return model.ErrCategoryNameExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Storage) GetCategory(ctx context.Context, id model.CategoryID) (*model.Category, error) {
	query :=
		`SELECT id, name, created_by, created_at, updated_at FROM categories
		 WHERE id = $1`

	c := &model.Category{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]*model.Category, error) {
	query := `SELECT id, name, created_by, created_at, updated_at FROM categories ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*model.Category{}
	for rows.Next() {
		c := &model.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (s *Storage) UpdateCategory(ctx context.Context, c *model.Category) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = $2, updated_at = $3 WHERE id = $1`,
		c.ID, c.Name, c.UpdatedAt)
	if err != nil {
		if violatedConstraint(err) == categoriesNameIndex {
			return model.ErrCategoryNameExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, model.ErrCategoryNotFound)
}

func (s *Storage) DeleteCategory(ctx context.Context, id model.CategoryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, model.ErrCategoryNotFound)
}

// Question operations

func (s *Storage) CreateQuestion(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO questions (id, text, options, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := s.db.ExecContext(ctx, query, q.ID, q.Text, options, q.CreatedBy, q.CreatedAt, q.UpdatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	query :=
		`SELECT id, text, options, created_by, created_at, updated_at FROM questions
		 WHERE id = $1`

	q, err := scanQuestion(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return q, nil
}

func (s *Storage) ListQuestions(ctx context.Context) ([]*model.Question, error) {
	query := `SELECT id, text, options, created_by, created_at, updated_at FROM questions ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []*model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (s *Storage) UpdateQuestion(ctx context.Context, q *model.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE questions SET text = $2, options = $3, updated_at = $4 WHERE id = $1`,
		q.ID, q.Text, options, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, model.ErrQuestionNotFound)
}

func (s *Storage) DeleteQuestion(ctx context.Context, id model.QuestionID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, model.ErrQuestionNotFound)
}

// Helpers

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanCreature(row scanner) (*model.Creature, error) {
	c := &model.Creature{}
	err := row.Scan(&c.ID, &c.Name, &c.Translation, &c.Description, &c.PowerLevel, &c.Strengths,
		&c.Weaknesses, &c.FunFact, &c.ImageURL, &c.Category, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanQuestion(row scanner) (*model.Question, error) {
	q := &model.Question{}
	var options []byte
	if err := row.Scan(&q.ID, &q.Text, &options, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return q, nil
}

// violatedConstraint returns the constraint name of a unique violation, or ""
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

func expectOneRow(res sql.Result, errNotFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}
