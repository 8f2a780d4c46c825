package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mcoot/mythcatalog/internal/dependencies/clock"
	"github.com/mcoot/mythcatalog/internal/dependencies/random"
	"github.com/mcoot/mythcatalog/internal/model"
)

// DefaultTokenTTL is how long an issued token stays valid
const DefaultTokenTTL = 2 * time.Hour

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// TokenConfig holds token signing settings
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the payload of an issued token
type Claims struct {
	SubjectID model.UserID `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed bearer tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
	random random.Random
}

// NewTokens creates a token issuer/verifier
func NewTokens(cfg TokenConfig, clk clock.Clock, rnd random.Random) *Tokens {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &Tokens{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		clock:  clk,
		random: rnd,
	}
}

// Issue signs a token for the given user
func (t *Tokens) Issue(id model.UserID, username, email string) (string, *Claims, error) {
	now := t.clock.Now()
	claims := &Claims{
		SubjectID: id,
		Username:  username,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.random.NewID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify checks the signature, algorithm and expiry of a token.
// Every failure other than an empty token is ErrInvalidToken.
func (t *Tokens) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil || !parsed.Valid || claims.SubjectID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
