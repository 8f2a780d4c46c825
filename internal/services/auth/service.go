package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/mcoot/mythcatalog/internal/dependencies/clock"
	"github.com/mcoot/mythcatalog/internal/dependencies/random"
	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput is the credential shape accepted at registration
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks field presence and lengths
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 255)),
		validation.Field(&in.Email, validation.Required, validation.Length(6, 255), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 20)),
	)
}

// LoginInput is the credential shape accepted at login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks field presence and lengths
func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(6, 255), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 20)),
	)
}

// LoginResult is returned by a successful login
type LoginResult struct {
	UserID model.UserID
	Token  string
	Claims *Claims
}

// Service handles registration, login and token verification
type Service struct {
	storage storage.Storage
	hasher  *Hasher
	tokens  *Tokens
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// New creates a new auth Service
func New(
	storage storage.Storage,
	hasher *Hasher,
	tokens *Tokens,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		hasher:  hasher,
		tokens:  tokens,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// Register creates a user account and returns its ID.
// A taken email fails before any hashing work is done; the store's own
// uniqueness check still decides concurrent registrations.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.UserID, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	exists, err := s.storage.UserExistsByEmail(ctx, in.Email)
	if err != nil {
		return "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return "", model.ErrEmailExists
	}

	digest, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user := &model.User{
		ID:             model.UserID(s.random.NewID()),
		Username:       in.Username,
		Email:          in.Email,
		PasswordDigest: digest,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailExists) || errors.Is(err, model.ErrUsernameExists) {
			return "", err
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user.ID, nil
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.storage.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(ctx, in.Password, user.PasswordDigest) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		UserID: user.ID,
		Token:  token,
		Claims: claims,
	}, nil
}

// VerifyToken returns the claims carried by a valid token
func (s *Service) VerifyToken(token string) (*Claims, error) {
	return s.tokens.Verify(token)
}
