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

// CreatureHandler handles creature endpoints
type CreatureHandler struct {
	catalog *catalog.Service
	errors  errorWriter
}

// NewCreatureHandler creates a new creature handler
func NewCreatureHandler(catalogService *catalog.Service, logger *slog.Logger) *CreatureHandler {
	return &CreatureHandler{
		catalog: catalogService,
		errors:  errorWriter{logger: logger},
	}
}

// Create handles POST /api/creatures
func (h *CreatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())

	var req request.CreatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	creature, err := h.catalog.CreateCreature(r.Context(), claims, req.ToInput())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatureFromModel(creature))
}

// List handles GET /api/creatures
func (h *CreatureHandler) List(w http.ResponseWriter, r *http.Request) {
	creatures, err := h.catalog.ListCreatures(r.Context())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreaturesFromModel(creatures))
}

// Get handles GET /api/creatures/{id}
func (h *CreatureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.CreatureID(mux.Vars(r)["id"])

	creature, err := h.catalog.GetCreature(r.Context(), id)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreatureFromModel(creature))
}

// Update handles PUT /api/creatures/{id}
func (h *CreatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	id := model.CreatureID(mux.Vars(r)["id"])

	var req request.CreatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errors.write(w, r, NewInvalidRequestError("invalid request body"))
		return
	}

	creature, err := h.catalog.UpdateCreature(r.Context(), claims, id, req.ToPatch())
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreatureUpdated{
		Message:         "Creature was successfully updated.",
		UpdatedCreature: response.CreatureFromModel(creature),
	})
}

// Delete handles DELETE /api/creatures/{id}
func (h *CreatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.MustGetClaims(r.Context())
	id := model.CreatureID(mux.Vars(r)["id"])

	creature, err := h.catalog.DeleteCreature(r.Context(), claims, id)
	if err != nil {
		h.errors.write(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreatureDeleted{
		Message:         "Creature was successfully deleted.",
		DeletedCreature: response.CreatureFromModel(creature),
	})
}
