package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mcoot/mythcatalog/internal/api/middleware"
	"github.com/mcoot/mythcatalog/internal/api/request"
	"github.com/mcoot/mythcatalog/internal/api/response"
	"github.com/mcoot/mythcatalog/internal/services/auth"
	"github.com/mcoot/mythcatalog/internal/storage"
)

// UserHandler handles registration, login and the current-user endpoint
type UserHandler struct {
	authService *auth.Service
	storage     storage.Storage
	errors      errorWriter
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.Service, storage storage.Storage, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		storage:     storage,
		errors:      errorWriter{logger: logger},
	}
}

// Register handles POST /api/user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	id, err := h.authService.Register(r.Context(), req.ToInput())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.OK(string(id)))
}

// Login handles POST /api/user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	res, err := h.authService.Login(r.Context(), req.ToInput())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	w.Header().Set(middleware.TokenHeader, res.Token)
	response.JSON(w, http.StatusOK, response.OK(response.LoginDataFromResult(res)))
}

// Me handles GET /api/user/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	user, err := h.storage.GetUser(r.Context(), claims.SubjectID)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OK(response.UserFromModel(user)))
}
