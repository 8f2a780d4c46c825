package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/mythcatalog/internal/api/middleware"
	"github.com/mcoot/mythcatalog/internal/api/request"
	"github.com/mcoot/mythcatalog/internal/api/response"
	"github.com/mcoot/mythcatalog/internal/model"
	"github.com/mcoot/mythcatalog/internal/services/catalog"
)

// QuestionHandler handles quiz question endpoints
type QuestionHandler struct {
	catalog *catalog.Service
	errors  errorWriter
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(catalogService *catalog.Service, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		catalog: catalogService,
		errors:  errorWriter{logger: logger},
	}
}

// Create handles POST /api/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req request.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	question, err := h.catalog.CreateQuestion(r.Context(), claims, req.ToInput())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.QuestionFromModel(question))
}

// List handles GET /api/questions
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.catalog.ListQuestions(r.Context())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionsFromModel(questions))
}

// Get handles GET /api/questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.QuestionID(mux.Vars(r)["id"])

	question, err := h.catalog.GetQuestion(r.Context(), id)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionFromModel(question))
}

// Update handles PUT /api/questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	id := model.QuestionID(mux.Vars(r)["id"])

	var req request.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	question, err := h.catalog.UpdateQuestion(r.Context(), claims, id, req.ToPatch())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionUpdated{
		Message: "Question updated successfully.",
		Updated: response.QuestionFromModel(question),
	})
}

// Delete handles DELETE /api/questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	id := model.QuestionID(mux.Vars(r)["id"])

	question, err := h.catalog.DeleteQuestion(r.Context(), claims, id)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.QuestionDeleted{
		Message: "Quiz question deleted successfully.",
		Deleted: response.QuestionFromModel(question),
	})
}
