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

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	catalog *catalog.Service
	errors  errorWriter
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalogService *catalog.Service, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalogService,
		errors:  errorWriter{logger: logger},
	}
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req request.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), claims, req.ToInput())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CategoryFromModel(category))
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CategoriesFromModel(categories))
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.CategoryID(mux.Vars(r)["id"])

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CategoryFromModel(category))
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	id := model.CategoryID(mux.Vars(r)["id"])

	var req request.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), claims, id, req.ToInput())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CategoryUpdated{
		Message:         "Category successfully updated.",
		UpdatedCategory: response.CategoryFromModel(category),
	})
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	id := model.CategoryID(mux.Vars(r)["id"])

	category, err := h.catalog.DeleteCategory(r.Context(), claims, id)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CategoryDeleted{
		Message:         "Category successfully deleted.",
		DeletedCategory: response.CategoryFromModel(category),
	})
}
