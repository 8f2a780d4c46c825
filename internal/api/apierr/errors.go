package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/services/catalog"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Messages returned to clients
const (
	MsgInvalidRequest     = "Invalid request body."
	MsgMissingFields      = "Missing required fields."
	MsgEmailExists        = "Email already exists."
	MsgUsernameExists     = "Username already exists."
	MsgInvalidCredentials = "Password or email is wrong."
	MsgMissingToken       = "Access Denied."
	MsgInvalidToken       = "Invalid Token"
	MsgForbidden          = "Access denied."
	MsgUserNotFound       = "User not found."
	MsgCreatureNotFound   = "Creature not found."
	MsgCreatureNameExists = "A creature with this name already exists."
	MsgCategoryNotFound   = "Category not found."
	MsgCategoryNameExists = "Category already exists."
	MsgQuestionNotFound   = "Quiz question not found."
	MsgTooManyRequests    = "Too many requests."
	MsgInternalError      = "Internal server error."
)

// httpError combines an HTTP status code with a client-facing message
type httpError struct {
	status  int
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message})
}

// Status returns the HTTP status code err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return &httpError{http.StatusBadRequest, verrs.Error()}
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrMissingToken):
		return &httpError{http.StatusBadRequest, MsgMissingToken}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, MsgInvalidToken}
	case errors.Is(err, auth.ErrForbidden):
		return &httpError{http.StatusForbidden, MsgForbidden}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusBadRequest, MsgInvalidCredentials}

	// Model errors
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusBadRequest, MsgEmailExists}
	case errors.Is(err, model.ErrUsernameExists):
		return &httpError{http.StatusBadRequest, MsgUsernameExists}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, MsgUserNotFound}
	case errors.Is(err, model.ErrCreatureNotFound):
		return &httpError{http.StatusNotFound, MsgCreatureNotFound}
	case errors.Is(err, model.ErrCreatureNameExists):
		return &httpError{http.StatusBadRequest, MsgCreatureNameExists}
	case errors.Is(err, model.ErrCategoryNotFound):
		return &httpError{http.StatusNotFound, MsgCategoryNotFound}
	case errors.Is(err, model.ErrCategoryNameExists):
		return &httpError{http.StatusBadRequest, MsgCategoryNameExists}
	case errors.Is(err, model.ErrQuestionNotFound):
		return &httpError{http.StatusNotFound, MsgQuestionNotFound}

	case errors.Is(err, catalog.ErrMissingFields):
		return &httpError{http.StatusBadRequest, MsgMissingFields}

	default:
		return &httpError{http.StatusInternalServerError, MsgInternalError}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError() error {
	return &httpError{http.StatusTooManyRequests, MsgTooManyRequests}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, MsgInternalError}
}
